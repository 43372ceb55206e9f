package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/musehabit-server/internal/model"
)

var _ model.DeliveryStore = (*DeliveryRepository)(nil)

type DeliveryRepository struct {
	db DB
}

func NewDeliveryRepository(db DB) *DeliveryRepository {
	return &DeliveryRepository{
		db: db,
	}
}

// Claim inserts a pending delivery or takes over a failed one. A pending or
// sent row is left alone and the claim is refused.
func (r *DeliveryRepository) Claim(ctx context.Context, userID uuid.UUID, runDate time.Time, threshold string) (bool, error) {
	query := `INSERT INTO notification_deliveries (user_id, run_date, threshold, status)
			  VALUES ($1, $2, $3, 'pending')
			  ON CONFLICT (user_id, run_date, threshold) DO UPDATE
			  SET status = 'pending', error = '', attempts = notification_deliveries.attempts + 1, updated_at = NOW()
			  WHERE notification_deliveries.status = 'failed'`

	tag, err := r.db.Exec(ctx, query, userID, runDate, threshold)
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *DeliveryRepository) Complete(ctx context.Context, userID uuid.UUID, runDate time.Time, threshold string, status model.DeliveryStatus, sendErr string) error {
	query := `UPDATE notification_deliveries SET status = $4, error = $5, updated_at = NOW()
			  WHERE user_id = $1 AND run_date = $2 AND threshold = $3`

	tag, err := r.db.Exec(ctx, query, userID, runDate, threshold, string(status), sendErr)
	if err != nil {
		return fmt.Errorf("failed to complete delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
