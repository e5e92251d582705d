package tourism

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	generativeAI "smartroute/internal/api/generative_ai"
	"smartroute/internal/types"
)

const selectionTemperature = 0.5

// AIGenerator is the slice of the Gemini client this agent needs.
type AIGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service is the tourism agent: matches interests against the category
// catalog and finds nearby venues. Latitude/longitude may be nil when
// coordinate extraction upstream failed; recommendations then skip the
// places search.
type Service interface {
	Recommend(ctx context.Context, interests []string, latitude, longitude *float64, weather *types.WeatherReport) (*types.TourismReport, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	ai     AIGenerator
	places PlacesSearcher
}

func NewServiceImpl(ai AIGenerator, places PlacesSearcher, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		ai:     ai,
		places: places,
	}
}

// modelSelection mirrors the JSON shape requested in the prompt.
type modelSelection struct {
	TravelerProfile   string                   `json:"traveler_profile"`
	HighlyRecommended []types.SelectedCategory `json:"highly_recommended"`
	Recommended       []types.SelectedCategory `json:"recommended"`
	Optional          []types.SelectedCategory `json:"optional"`
	Summary           string                   `json:"summary"`
}

func (s *ServiceImpl) Recommend(ctx context.Context, interests []string, latitude, longitude *float64, weather *types.WeatherReport) (*types.TourismReport, error) {
	ctx, span := otel.Tracer("TourismService").Start(ctx, "Recommend")
	defer span.End()
	span.SetAttributes(attribute.Int("interests.count", len(interests)))

	report := &types.TourismReport{Interests: interests}

	selection, err := s.selectCategories(ctx, interests, weather)
	if err != nil {
		// Degrade to the keyword mapping rather than failing the pipeline.
		s.logger.WarnContext(ctx, "Category selection via model failed, using keyword fallback",
			slog.Any("error", err))
		span.RecordError(err)
		cats := fallbackCategories(interests)
		selection = &modelSelection{Summary: "Categorías seleccionadas por coincidencia de palabras clave."}
		for _, c := range cats {
			selection.Recommended = append(selection.Recommended, types.SelectedCategory{
				Category:  c,
				Relevance: "Coincidencia directa con los intereses del usuario.",
			})
		}
	}

	report.Profile = selection.TravelerProfile
	report.Summary = selection.Summary
	report.Categories = types.CategorySelection{
		HighlyRecommended: filterToCatalog(selection.HighlyRecommended),
		Recommended:       filterToCatalog(selection.Recommended),
		Optional:          filterToCatalog(selection.Optional),
	}

	if latitude == nil || longitude == nil {
		s.logger.InfoContext(ctx, "No coordinates available, skipping places search")
		span.SetStatus(codes.Ok, "Recommendations without places")
		return report, nil
	}

	searchCategories := topCategories(report.Categories)
	if len(searchCategories) == 0 {
		span.SetStatus(codes.Ok, "No catalog categories selected")
		return report, nil
	}

	places, err := s.places.SearchNearby(ctx, searchCategories, *latitude, *longitude)
	if err != nil {
		// Venue lookup is best effort; the category analysis still stands.
		s.logger.WarnContext(ctx, "Places search failed", slog.Any("error", err))
		span.RecordError(err)
		return report, nil
	}
	report.Places = annotateWeatherFit(places, weather)

	span.SetStatus(codes.Ok, "Recommendations generated")
	return report, nil
}

func (s *ServiceImpl) selectCategories(ctx context.Context, interests []string, weather *types.WeatherReport) (*modelSelection, error) {
	weatherJSON := ""
	if weather != nil {
		if data, err := json.Marshal(weather.Forecast); err == nil {
			weatherJSON = string(data)
		}
	}

	response, err := s.ai.GenerateContent(ctx, selectCategoriesPrompt(interests, CategoryCatalog(), weatherJSON), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](selectionTemperature),
	})
	if err != nil {
		return nil, fmt.Errorf("category selection failed: %w", err)
	}

	var selection modelSelection
	if err := json.Unmarshal([]byte(generativeAI.CleanJSONResponse(response)), &selection); err != nil {
		return nil, fmt.Errorf("failed to parse category selection: %w", err)
	}
	return &selection, nil
}

// filterToCatalog drops selections whose category is not in the embedded
// catalog; models occasionally invent names despite the prompt rules.
func filterToCatalog(selected []types.SelectedCategory) []types.SelectedCategory {
	allowed := catalogSet()
	out := make([]types.SelectedCategory, 0, len(selected))
	for _, s := range selected {
		if allowed[s.Category] {
			out = append(out, s)
		}
	}
	return out
}

// topCategories flattens the tiers in preference order, capped at the number
// of types the places API accepts per request.
func topCategories(selection types.CategorySelection) []string {
	const maxTypes = 5
	var out []string
	seen := map[string]bool{}
	for _, tier := range [][]types.SelectedCategory{selection.HighlyRecommended, selection.Recommended, selection.Optional} {
		for _, s := range tier {
			if len(out) == maxTypes {
				return out
			}
			if !seen[s.Category] {
				seen[s.Category] = true
				out = append(out, s.Category)
			}
		}
	}
	return out
}

// annotateWeatherFit attaches a coarse weather rationale to outdoor-leaning
// venues when rain dominates the forecast.
func annotateWeatherFit(places []types.Place, weather *types.WeatherReport) []types.Place {
	if weather == nil || len(weather.Forecast.Forecasts) == 0 {
		return places
	}
	rainy := 0
	for _, day := range weather.Forecast.Forecasts {
		if day.Clouds >= 75 {
			rainy++
		}
	}
	if rainy*2 < len(weather.Forecast.Forecasts) {
		return places
	}
	outdoor := map[string]bool{"park": true, "hiking_area": true, "national_park": true, "campground": true, "zoo": true}
	for i, p := range places {
		for _, t := range p.Types {
			if outdoor[t] {
				places[i].WeatherFit = "Se esperan días nublados o lluviosos; lleve ropa impermeable."
				break
			}
		}
	}
	return places
}
