package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	appqueue "smartroute/app/queue"
	"smartroute/internal/types"
)

type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) GetForecastReport(ctx context.Context, city string, days int) (*types.WeatherReport, error) {
	args := m.Called(ctx, city, days)
	var report *types.WeatherReport
	if args.Get(0) != nil {
		report = args.Get(0).(*types.WeatherReport)
	}
	return report, args.Error(1)
}

type MockTourismService struct {
	mock.Mock
}

func (m *MockTourismService) Recommend(ctx context.Context, interests []string, latitude, longitude *float64, weather *types.WeatherReport) (*types.TourismReport, error) {
	args := m.Called(ctx, interests, latitude, longitude, weather)
	var report *types.TourismReport
	if args.Get(0) != nil {
		report = args.Get(0).(*types.TourismReport)
	}
	return report, args.Error(1)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SavePrompt(ctx context.Context, record types.PromptRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) SaveItinerary(ctx context.Context, it *types.Itinerary) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockRepository) GetItineraryByRequestID(ctx context.Context, requestID string) (*types.Itinerary, error) {
	args := m.Called(ctx, requestID)
	var it *types.Itinerary
	if args.Get(0) != nil {
		it = args.Get(0).(*types.Itinerary)
	}
	return it, args.Error(1)
}

type serviceFixture struct {
	service *ServiceImpl
	broker  *appqueue.Broker
	weather *MockWeatherService
	tourism *MockTourismService
	ai      *MockComposer
	repo    *MockRepository
}

var testChannels = Channels{Weather: "weather_requests", Tourism: "tourism_requests"}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := appqueue.NewBrokerWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), logger)
	t.Cleanup(func() { _ = broker.Close() })

	f := &serviceFixture{
		broker:  broker,
		weather: new(MockWeatherService),
		tourism: new(MockTourismService),
		ai:      new(MockComposer),
		repo:    new(MockRepository),
	}
	f.service = NewServiceImpl(broker, f.weather, f.tourism, f.ai, f.repo, testChannels, 100*time.Millisecond, logger)
	return f
}

func tunjaWeatherReport() *types.WeatherReport {
	return &types.WeatherReport{
		Current: map[string]any{
			"name": "Tunja",
			"coordinates": map[string]any{"lat": 5.5353, "lon": -73.3678},
		},
		Forecast: types.ForecastReport{
			City: "Tunja",
			Forecasts: []types.DailyForecast{
				{Date: "2026-09-01", Description: "cielo claro", Temperature: types.TemperatureRange{MinTemp: 8, MaxTemp: 19}},
			},
		},
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes both halves tagged with the same request id", func(t *testing.T) {
		f := setupServiceTest(t)

		result := f.service.Submit(ctx, types.ItineraryRequest{
			City: "Tunja", Time: "los próximos 3 días", Interests: []string{"historia"},
		})

		require.NotEmpty(t, result.RequestID)
		assert.Equal(t, "Messages sent successfully", result.Status)
		assert.Contains(t, result.WeatherResult, "weather_requests")
		assert.Contains(t, result.TourismResult, "tourism_requests")

		rawWeather, err := f.broker.ConsumeOne(ctx, testChannels.Weather, time.Second)
		require.NoError(t, err)
		var weatherMsg types.WeatherRequestMessage
		require.NoError(t, json.Unmarshal(rawWeather, &weatherMsg))
		assert.Equal(t, result.RequestID, weatherMsg.RequestID)
		assert.Equal(t, "Tunja", weatherMsg.City)
		assert.Equal(t, "los próximos 3 días", weatherMsg.Time)

		rawTourism, err := f.broker.ConsumeOne(ctx, testChannels.Tourism, time.Second)
		require.NoError(t, err)
		var tourismMsg types.TourismRequestMessage
		require.NoError(t, json.Unmarshal(rawTourism, &tourismMsg))
		assert.Equal(t, result.RequestID, tourismMsg.RequestID)
		assert.Equal(t, []string{"historia"}, NormalizeInterests(tourismMsg.Interests))
	})
}

func TestService_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("empty weather channel is an explicit error", func(t *testing.T) {
		f := setupServiceTest(t)
		_, err := f.service.RunOnce(ctx)
		require.ErrorIs(t, err, ErrNoPendingRequest)
	})

	t.Run("full pipeline run for a queued pair", func(t *testing.T) {
		f := setupServiceTest(t)
		submitted := f.service.Submit(ctx, types.ItineraryRequest{
			City: "Tunja", Time: "los próximos 3 días", Interests: []string{"historia", "naturaleza"},
		})

		report := tunjaWeatherReport()
		f.weather.On("GetForecastReport", mock.Anything, "Tunja", 3).Return(report, nil).Once()
		f.tourism.On("Recommend", mock.Anything, []string{"historia", "naturaleza"},
			mock.MatchedBy(func(lat *float64) bool { return lat != nil && *lat == 5.5353 }),
			mock.MatchedBy(func(lon *float64) bool { return lon != nil && *lon == -73.3678 }),
			report).Return(&types.TourismReport{Interests: []string{"historia", "naturaleza"}}, nil).Once()
		f.ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("🌍 Itinerario para Tunja\n📅 Período: 2026-09-01 - 2026-09-03", nil).Once()
		f.repo.On("SavePrompt", mock.Anything, mock.MatchedBy(func(rec types.PromptRecord) bool {
			return rec.City == "Tunja" && rec.UserID == types.PlaceholderUserID
		})).Return(nil).Once()
		f.repo.On("SaveItinerary", mock.Anything, mock.MatchedBy(func(it *types.Itinerary) bool {
			return it.RequestID == submitted.RequestID && it.Status == types.ItineraryStatusDone
		})).Return(nil).Once()

		it, err := f.service.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, submitted.RequestID, it.RequestID)
		assert.Equal(t, "Tunja", it.Destination)
		assert.Contains(t, it.Narrative, "Itinerario para Tunja")
		assert.Equal(t, types.ItineraryStatusDone, it.Status)
		f.weather.AssertExpectations(t)
		f.tourism.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("tourism halves are matched by correlation id", func(t *testing.T) {
		f := setupServiceTest(t)

		// Weather halves queue as A then B, but the tourism halves arrive
		// reversed.
		idA, idB := "req-a", "req-b"
		publish := func(channel string, msg any) {
			payload, err := json.Marshal(msg)
			require.NoError(t, err)
			require.NoError(t, f.broker.Publish(ctx, channel, payload))
		}
		publish(testChannels.Weather, types.WeatherRequestMessage{RequestID: idA, City: "Tunja", Time: "2"})
		publish(testChannels.Weather, types.WeatherRequestMessage{RequestID: idB, City: "Bogotá", Time: "2"})
		publish(testChannels.Tourism, types.TourismRequestMessage{RequestID: idB, Interests: json.RawMessage(`["museos"]`)})
		publish(testChannels.Tourism, types.TourismRequestMessage{RequestID: idA, Interests: json.RawMessage(`["historia"]`)})

		report := tunjaWeatherReport()
		f.weather.On("GetForecastReport", mock.Anything, mock.Anything, 2).Return(report, nil).Twice()
		f.tourism.On("Recommend", mock.Anything, []string{"historia"}, mock.Anything, mock.Anything, report).
			Return(&types.TourismReport{}, nil).Once()
		f.tourism.On("Recommend", mock.Anything, []string{"museos"}, mock.Anything, mock.Anything, report).
			Return(&types.TourismReport{}, nil).Once()
		f.ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("itinerario", nil).Twice()
		f.repo.On("SavePrompt", mock.Anything, mock.Anything).Return(nil).Twice()
		f.repo.On("SaveItinerary", mock.Anything, mock.Anything).Return(nil).Twice()

		first, err := f.service.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, idA, first.RequestID)

		second, err := f.service.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, idB, second.RequestID)

		f.tourism.AssertExpectations(t)
	})

	t.Run("messages without a request id pair positionally", func(t *testing.T) {
		f := setupServiceTest(t)

		payload, _ := json.Marshal(types.WeatherRequestMessage{City: "Tunja", Time: "5"})
		require.NoError(t, f.broker.Publish(ctx, testChannels.Weather, payload))
		payload, _ = json.Marshal(types.TourismRequestMessage{Interests: json.RawMessage(`"historia"`)})
		require.NoError(t, f.broker.Publish(ctx, testChannels.Tourism, payload))

		report := tunjaWeatherReport()
		f.weather.On("GetForecastReport", mock.Anything, "Tunja", 5).Return(report, nil).Once()
		f.tourism.On("Recommend", mock.Anything, []string{"historia"}, mock.Anything, mock.Anything, report).
			Return(&types.TourismReport{}, nil).Once()
		f.ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("itinerario", nil).Once()
		f.repo.On("SavePrompt", mock.Anything, mock.Anything).Return(nil).Once()

		it, err := f.service.RunOnce(ctx)

		require.NoError(t, err)
		assert.Empty(t, it.RequestID)
		f.repo.AssertNotCalled(t, "SaveItinerary", mock.Anything, mock.Anything)
	})

	t.Run("missing tourism half degrades to empty interests", func(t *testing.T) {
		f := setupServiceTest(t)

		payload, _ := json.Marshal(types.WeatherRequestMessage{RequestID: "req-w", City: "Tunja", Time: "2"})
		require.NoError(t, f.broker.Publish(ctx, testChannels.Weather, payload))

		report := tunjaWeatherReport()
		f.weather.On("GetForecastReport", mock.Anything, "Tunja", 2).Return(report, nil).Once()
		f.tourism.On("Recommend", mock.Anything, []string{}, mock.Anything, mock.Anything, report).
			Return(&types.TourismReport{}, nil).Once()
		f.ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("itinerario", nil).Once()
		f.repo.On("SavePrompt", mock.Anything, mock.Anything).Return(nil).Once()
		f.repo.On("SaveItinerary", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.service.RunOnce(ctx)
		require.NoError(t, err)
		f.tourism.AssertExpectations(t)
	})

	t.Run("composer failure persists a failed itinerary", func(t *testing.T) {
		f := setupServiceTest(t)
		f.service.Submit(ctx, types.ItineraryRequest{City: "Tunja", Time: "2", Interests: []string{"historia"}})

		report := tunjaWeatherReport()
		f.weather.On("GetForecastReport", mock.Anything, "Tunja", 2).Return(report, nil).Once()
		f.tourism.On("Recommend", mock.Anything, mock.Anything, mock.Anything, mock.Anything, report).
			Return(&types.TourismReport{}, nil).Once()
		f.ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("model overloaded")).Once()
		f.repo.On("SavePrompt", mock.Anything, mock.Anything).Return(nil).Once()
		f.repo.On("SaveItinerary", mock.Anything, mock.MatchedBy(func(it *types.Itinerary) bool {
			return it.Status == types.ItineraryStatusFailed && it.Narrative == ""
		})).Return(nil).Once()

		it, err := f.service.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, types.ItineraryStatusFailed, it.Status)
		f.repo.AssertExpectations(t)
	})

	t.Run("weather agent failure still produces a narrative", func(t *testing.T) {
		f := setupServiceTest(t)
		f.service.Submit(ctx, types.ItineraryRequest{City: "Atlantis", Time: "2", Interests: []string{"playa"}})

		f.weather.On("GetForecastReport", mock.Anything, "Atlantis", 2).
			Return(nil, errors.New("city not found")).Once()
		f.tourism.On("Recommend", mock.Anything, []string{"playa"},
			(*float64)(nil), (*float64)(nil), (*types.WeatherReport)(nil)).
			Return(&types.TourismReport{}, nil).Once()
		f.ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("itinerario", nil).Once()
		f.repo.On("SavePrompt", mock.Anything, mock.Anything).Return(nil).Once()
		f.repo.On("SaveItinerary", mock.Anything, mock.Anything).Return(nil).Once()

		it, err := f.service.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, types.ItineraryStatusDone, it.Status)
		f.tourism.AssertExpectations(t)
	})
}
