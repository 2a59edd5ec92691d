package fulfillment

import (
	"context"
	"database/sql"

	apperrors "zerohunger-chat/internal/common/errors"
)

// RecordStore persists fulfillment records.
type RecordStore interface {
	Insert(ctx context.Context, rec *Record) error
}

// PostgresStore writes records into the food_assistance_requests table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, rec *Record) error {
	const query = `
		INSERT INTO food_assistance_requests
			(id, person_name, age, location, food_request, assistance_type, session_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.PersonName,
		rec.Age,
		rec.Location,
		rec.FoodRequest,
		rec.AssistanceType,
		rec.SessionID,
		rec.Status,
		rec.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDispatchStoreFailedError(err)
	}
	return nil
}
