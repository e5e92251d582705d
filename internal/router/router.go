package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"smartroute/internal/api/diagnostics"
	"smartroute/internal/api/itinerary"
	"smartroute/internal/api/messages"
	"smartroute/internal/api/recommend"
)

// Config contains the handlers the router wires up.
type Config struct {
	ItineraryHandler   *itinerary.Handler
	DiagnosticsHandler *diagnostics.Handler
	MessagesHandler    *messages.Handler
	RecommendHandler   *recommend.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// The frontend runs on a different origin in every deployment observed
	// so far.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/health", cfg.DiagnosticsHandler.Health)

	// Request intake and the pipeline surface.
	r.Post("/sendItineraryInfo", cfg.ItineraryHandler.SubmitRequest)
	r.Get("/getItineraryInfo", cfg.ItineraryHandler.ProcessNext)
	r.Get("/itinerary/{requestID}", cfg.ItineraryHandler.GetByRequestID)

	// Frontend recommender.
	r.Post("/api/travel-recommendations", cfg.RecommendHandler.GetRecommendations)

	// Raw channel access for seeding and inspection.
	r.Post("/sendMessage", cfg.MessagesHandler.SendMessage)
	r.Post("/sendWeatherInfo", cfg.MessagesHandler.SendWeatherInfo)
	r.Post("/sendTourismInfo", cfg.MessagesHandler.SendTourismInfo)
	r.Get("/viewMessages", cfg.DiagnosticsHandler.ViewMessages)
	r.Get("/viewWeatherMessages", cfg.DiagnosticsHandler.ViewWeatherMessages)
	r.Get("/viewTourismMessages", cfg.DiagnosticsHandler.ViewTourismMessages)

	return r
}
