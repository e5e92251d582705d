package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "smartroute/app/db"
	"smartroute/app/queue"
	"smartroute/config"
	"smartroute/internal/api/diagnostics"
	generativeAI "smartroute/internal/api/generative_ai"
	"smartroute/internal/api/itinerary"
	"smartroute/internal/api/messages"
	"smartroute/internal/api/recommend"
	"smartroute/internal/api/tourism"
	"smartroute/internal/api/weather"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Broker *queue.Broker

	ItineraryWorker *itinerary.Worker

	ItineraryHandler   *itinerary.Handler
	DiagnosticsHandler *diagnostics.Handler
	MessagesHandler    *messages.Handler
	RecommendHandler   *recommend.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	broker, err := queue.NewBroker(cfg.Repositories.Redis.URL, logger)
	if err != nil {
		logger.Error("Failed to initialize queue broker", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Model)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		pool.Close()
		_ = broker.Close()
		return nil, err
	}

	// Agents
	weatherProvider := weather.NewOpenWeatherClient(
		cfg.Providers.OpenWeather.BaseURL, cfg.Providers.OpenWeather.APIKey, logger)
	weatherService := weather.NewServiceImpl(weatherProvider, aiClient, logger)

	placesClient := tourism.NewPlacesClient(
		cfg.Providers.Places.BaseURL, cfg.Providers.Places.APIKey, cfg.Providers.Places.RadiusM, logger)
	tourismService := tourism.NewServiceImpl(aiClient, placesClient, logger)

	// Pipeline
	itineraryRepo := itinerary.NewPostgresRepository(pool, logger)
	itineraryService := itinerary.NewServiceImpl(
		broker,
		weatherService,
		tourismService,
		aiClient,
		itineraryRepo,
		itinerary.Channels{Weather: cfg.Channels.Weather, Tourism: cfg.Channels.Tourism},
		cfg.Pipeline.ConsumeTimeout,
		logger,
	)
	itineraryWorker := itinerary.NewWorker(itineraryService, cfg.Pipeline.WorkerInterval, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	diagnosticsService := diagnostics.NewServiceImpl(
		pool,
		broker,
		weatherService,
		tourismService,
		itineraryRepo,
		diagnostics.Channels{
			Weather: cfg.Channels.Weather,
			Tourism: cfg.Channels.Tourism,
			Travel:  cfg.Channels.Travel,
			Probe:   cfg.Channels.Probe,
		},
		logger,
	)
	diagnosticsHandler := diagnostics.NewHandler(diagnosticsService, logger)

	messagesService := messages.NewServiceImpl(broker, messages.Channels{
		Weather: cfg.Channels.Weather,
		Tourism: cfg.Channels.Tourism,
		Travel:  cfg.Channels.Travel,
	}, logger)
	messagesHandler := messages.NewHandler(messagesService, logger)

	recommendService := recommend.NewServiceImpl(broker, itineraryRepo, cfg.Channels.Travel, logger)
	recommendHandler := recommend.NewHandler(recommendService, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Pool:               pool,
		Broker:             broker,
		ItineraryWorker:    itineraryWorker,
		ItineraryHandler:   itineraryHandler,
		DiagnosticsHandler: diagnosticsHandler,
		MessagesHandler:    messagesHandler,
		RecommendHandler:   recommendHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Broker != nil {
		if err := c.Broker.Close(); err != nil {
			c.Logger.Error("Failed to close queue broker", slog.Any("error", err))
		}
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
