package types

import "encoding/json"

// ItineraryRequest is one user ask as it arrives over HTTP. It is split into
// two queued sub-messages at intake and never persisted itself.
type ItineraryRequest struct {
	City      string   `json:"city"`
	Time      string   `json:"time"`
	Interests []string `json:"interests"`
}

// WeatherRequestMessage is the weather half of a split request. RequestID
// correlates it with its tourism sibling; legacy producers may omit it.
type WeatherRequestMessage struct {
	RequestID string `json:"request_id,omitempty"`
	City      string `json:"city"`
	Time      string `json:"time"`
}

// TourismRequestMessage is the tourism half of a split request. Interests is
// kept raw because producers have been observed to encode it as a list, a
// bare string, null, or not at all.
type TourismRequestMessage struct {
	RequestID string          `json:"request_id,omitempty"`
	Interests json.RawMessage `json:"interests,omitempty"`
}

// SubmitResult reports the outcome of the two independent publishes performed
// at intake. The publishes are not transactional: one may succeed while the
// other fails.
type SubmitResult struct {
	RequestID     string `json:"request_id"`
	WeatherResult string `json:"weather_queue_result"`
	TourismResult string `json:"tourism_queue_result"`
	Status        string `json:"status"`
}
