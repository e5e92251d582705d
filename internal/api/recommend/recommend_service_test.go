package recommend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appqueue "smartroute/app/queue"
	"smartroute/internal/types"
)

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

const travelChannel = "travel_messages"

func setupRecommendTest(t *testing.T) (*ServiceImpl, *appqueue.Broker, *MockRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := appqueue.NewBrokerWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), logger)
	t.Cleanup(func() { _ = broker.Close() })
	repo := new(MockRepository)
	return NewServiceImpl(broker, repo, travelChannel, logger), broker, repo
}

func TestRecommendService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("mountain keywords pick Bariloche", func(t *testing.T) {
		service, broker, repo := setupRecommendTest(t)
		repo.On("SaveItinerary", mock.Anything, mock.MatchedBy(func(it *types.Itinerary) bool {
			return it.Destination == "Bariloche, Argentina" && it.UserID == recommenderUserID
		})).Return(nil).Once()

		rec, err := service.Recommend(ctx, "quiero nieve y montaña")

		require.NoError(t, err)
		assert.Equal(t, "Bariloche, Argentina", rec.Destination)
		assert.Len(t, rec.Activities, 4)
		assert.Len(t, rec.Hotels, 3)
		repo.AssertExpectations(t)

		raw, err := broker.ConsumeOne(ctx, travelChannel, time.Second)
		require.NoError(t, err)
		var note map[string]string
		require.NoError(t, json.Unmarshal(raw, &note))
		assert.Contains(t, note["text"], "Bariloche, Argentina")
	})

	t.Run("beach keywords pick Cartagena", func(t *testing.T) {
		service, _, repo := setupRecommendTest(t)
		repo.On("SaveItinerary", mock.Anything, mock.Anything).Return(nil).Once()

		rec, err := service.Recommend(ctx, "Playa y sol en el caribe")

		require.NoError(t, err)
		assert.Equal(t, "Cartagena, Colombia", rec.Destination)
	})

	t.Run("anything else picks Buenos Aires", func(t *testing.T) {
		service, _, repo := setupRecommendTest(t)
		repo.On("SaveItinerary", mock.Anything, mock.Anything).Return(nil).Once()

		rec, err := service.Recommend(ctx, "tango y museos")

		require.NoError(t, err)
		assert.Equal(t, "Buenos Aires, Argentina", rec.Destination)
	})

	t.Run("empty prompt is rejected", func(t *testing.T) {
		service, _, repo := setupRecommendTest(t)

		_, err := service.Recommend(ctx, "   ")

		require.ErrorIs(t, err, ErrEmptyPrompt)
		repo.AssertNotCalled(t, "SaveItinerary", mock.Anything, mock.Anything)
	})

	t.Run("rows land with a 7 day window", func(t *testing.T) {
		service, _, repo := setupRecommendTest(t)
		repo.On("SaveItinerary", mock.Anything, mock.MatchedBy(func(it *types.Itinerary) bool {
			return it.EndDate.Sub(it.StartDate) == 7*24*time.Hour && it.Status == types.ItineraryStatusDone
		})).Return(nil).Once()

		_, err := service.Recommend(ctx, "escapada urbana")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
