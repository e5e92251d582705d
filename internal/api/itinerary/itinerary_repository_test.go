package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroute/internal/types"
)

func setupRepositoryTest(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresRepository(mockPool, logger), mockPool
}

func TestPostgresRepository_SavePrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts one row", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		mockPool.ExpectExec("INSERT INTO prompts").
			WithArgs(types.PlaceholderUserID, "Tunja", "los próximos 3 días", "🌍 Itinerario para Tunja").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.SavePrompt(ctx, types.PromptRecord{
			UserID:       types.PlaceholderUserID,
			City:         "Tunja",
			TimeStr:      "los próximos 3 días",
			ResponseText: "🌍 Itinerario para Tunja",
		})

		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		mockPool.ExpectExec("INSERT INTO prompts").
			WithArgs(types.PlaceholderUserID, "Tunja", "3", "narrative").
			WillReturnError(errors.New("connection refused"))

		err := repo.SavePrompt(ctx, types.PromptRecord{
			UserID: types.PlaceholderUserID, City: "Tunja", TimeStr: "3", ResponseText: "narrative",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert prompt")
	})
}

func TestPostgresRepository_SaveItinerary(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	it := &types.Itinerary{
		ID:          uuid.New(),
		RequestID:   uuid.NewString(),
		UserID:      types.PlaceholderUserID,
		Destination: "Tunja",
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, 3),
		Details:     []byte(`[{"city":"Tunja"}]`),
		Narrative:   "🌍 Itinerario para Tunja",
		Status:      types.ItineraryStatusDone,
	}

	t.Run("upserts by request id", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		mockPool.ExpectExec("INSERT INTO itineraries").
			WithArgs(it.ID, it.RequestID, it.UserID, it.Destination, it.StartDate, it.EndDate,
				it.WeatherSummary, it.Details, it.Narrative, it.Status).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.SaveItinerary(ctx, it))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresRepository_GetItineraryByRequestID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored row", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		id := uuid.New()
		requestID := uuid.NewString()
		now := time.Now().UTC()

		rows := pgxmock.NewRows([]string{
			"id", "request_id", "user_id", "destination", "start_date", "end_date",
			"weather_summary", "itinerary_details", "narrative", "status",
			"created_at", "updated_at",
		}).AddRow(
			id, requestID, types.PlaceholderUserID, "Tunja", now, now.AddDate(0, 0, 5),
			"cielo claro", []byte(`[]`), "🌍 Itinerario para Tunja", types.ItineraryStatusDone,
			now, now,
		)
		mockPool.ExpectQuery("SELECT (.+) FROM itineraries").
			WithArgs(requestID).
			WillReturnRows(rows)

		got, err := repo.GetItineraryByRequestID(ctx, requestID)

		require.NoError(t, err)
		assert.Equal(t, requestID, got.RequestID)
		assert.Equal(t, "Tunja", got.Destination)
		assert.Equal(t, types.ItineraryStatusDone, got.Status)
	})

	t.Run("missing row maps to ErrItineraryNotFound", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		requestID := uuid.NewString()
		mockPool.ExpectQuery("SELECT (.+) FROM itineraries").
			WithArgs(requestID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetItineraryByRequestID(ctx, requestID)
		require.ErrorIs(t, err, ErrItineraryNotFound)
	})
}
