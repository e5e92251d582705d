package types

import (
	"time"

	"github.com/google/uuid"
)

// PlaceholderUserID is the fixed user identifier used while the service has
// no authentication surface.
var PlaceholderUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type ItineraryStatus string

const (
	ItineraryStatusPending ItineraryStatus = "pending"
	ItineraryStatusDone    ItineraryStatus = "done"
	ItineraryStatusFailed  ItineraryStatus = "failed"
)

// Itinerary is a persisted pipeline result, keyed by the correlation id the
// intake generated, so clients can poll for it.
type Itinerary struct {
	ID             uuid.UUID       `json:"id"`
	RequestID      string          `json:"request_id"`
	UserID         uuid.UUID       `json:"user_id"`
	Destination    string          `json:"destination"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	WeatherSummary string          `json:"weather_summary,omitempty"`
	Details        []byte          `json:"-"`
	Narrative      string          `json:"narrative,omitempty"`
	Status         ItineraryStatus `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PromptRecord is one row of the append-only prompts log.
type PromptRecord struct {
	UserID       uuid.UUID
	City         string
	TimeStr      string
	ResponseText string
}

// HealthResponse is the /health payload. Status is "healthy" iff both
// substatuses report success.
type HealthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Queue    string `json:"queue"`
}

// TravelRecommendation is the keyword-matched recommender response used by
// the frontend, independent of the agent pipeline.
type TravelRecommendation struct {
	Destination string   `json:"destination"`
	Weather     string   `json:"weather"`
	Activities  []string `json:"activities"`
	Hotels      []string `json:"hotels"`
}
