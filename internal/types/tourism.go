package types

// Place is one recommended venue from the places provider.
type Place struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rating     float64  `json:"rating,omitempty"`
	Types      []string `json:"types,omitempty"`
	WeatherFit string   `json:"weather_fit,omitempty"`
}

// SelectedCategory is one catalog category the tourism agent picked for the
// user's interests, with its rationale.
type SelectedCategory struct {
	Category       string   `json:"category"`
	Relevance      string   `json:"relevance"`
	KeyExperiences []string `json:"key_experiences,omitempty"`
}

// CategorySelection is the tiered result of matching interests against the
// category catalog.
type CategorySelection struct {
	HighlyRecommended []SelectedCategory `json:"highly_recommended"`
	Recommended       []SelectedCategory `json:"recommended"`
	Optional          []SelectedCategory `json:"optional"`
}

// TourismReport is the tourism agent's output: the interest analysis plus the
// places found near the request coordinates. Places is empty when no
// coordinates were available.
type TourismReport struct {
	Interests  []string          `json:"interests"`
	Profile    string            `json:"traveler_profile,omitempty"`
	Categories CategorySelection `json:"categories"`
	Places     []Place           `json:"places,omitempty"`
	Summary    string            `json:"summary,omitempty"`
}
