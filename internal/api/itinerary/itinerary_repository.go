package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"smartroute/internal/types"
)

// ErrItineraryNotFound is returned when no row exists for a request id.
var ErrItineraryNotFound = errors.New("itinerary not found")

// DB is the slice of pgxpool.Pool the repository uses; pgxmock implements it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	SavePrompt(ctx context.Context, record types.PromptRecord) error
	SaveItinerary(ctx context.Context, it *types.Itinerary) error
	GetItineraryByRequestID(ctx context.Context, requestID string) (*types.Itinerary, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

// SavePrompt appends one row to the prompts log.
func (r *PostgresRepository) SavePrompt(ctx context.Context, record types.PromptRecord) error {
	query := `
        INSERT INTO prompts (
            user_id, city, time_str, response_text
        ) VALUES ($1, $2, $3, $4)
    `
	if _, err := r.pgpool.Exec(ctx, query,
		record.UserID, record.City, record.TimeStr, record.ResponseText,
	); err != nil {
		return fmt.Errorf("failed to insert prompt: %w", err)
	}
	return nil
}

// SaveItinerary upserts by request id so a rerun of the same request
// overwrites its earlier result instead of duplicating it.
func (r *PostgresRepository) SaveItinerary(ctx context.Context, it *types.Itinerary) error {
	query := `
        INSERT INTO itineraries (
            id, request_id, user_id, destination, start_date, end_date,
            weather_summary, itinerary_details, narrative, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (request_id) DO UPDATE SET
            destination = EXCLUDED.destination,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            weather_summary = EXCLUDED.weather_summary,
            itinerary_details = EXCLUDED.itinerary_details,
            narrative = EXCLUDED.narrative,
            status = EXCLUDED.status,
            updated_at = now()
    `
	if _, err := r.pgpool.Exec(ctx, query,
		it.ID, it.RequestID, it.UserID, it.Destination, it.StartDate, it.EndDate,
		it.WeatherSummary, it.Details, it.Narrative, it.Status,
	); err != nil {
		return fmt.Errorf("failed to upsert itinerary: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetItineraryByRequestID(ctx context.Context, requestID string) (*types.Itinerary, error) {
	query := `
        SELECT id, request_id, user_id, destination, start_date, end_date,
               weather_summary, itinerary_details, narrative, status,
               created_at, updated_at
        FROM itineraries
        WHERE request_id = $1
    `
	var it types.Itinerary
	if err := r.pgpool.QueryRow(ctx, query, requestID).Scan(
		&it.ID, &it.RequestID, &it.UserID, &it.Destination, &it.StartDate, &it.EndDate,
		&it.WeatherSummary, &it.Details, &it.Narrative, &it.Status,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("failed to fetch itinerary: %w", err)
	}
	return &it, nil
}
