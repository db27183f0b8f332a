package repository

import (
	"context"
	"database/sql"
	"errors"

	"parkhub/internal/models"
)

// The spot ledger. Every spot status transition in the system goes through
// the statements in this file; each one is guarded by the current status so
// a stale caller fails instead of silently double-claiming. They take a
// Querier so the booking and lot repositories can run them inside their own
// transactions.

func releaseSpot(ctx context.Context, q Querier, spotID int64) error {
	const query = `
		UPDATE parking_spots
		SET status = $2
		WHERE id = $1 AND status = $3
	`
	result, err := q.ExecContext(ctx, query, spotID, models.SpotAvailable, models.SpotOccupied)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSpotNotOccupied
	}
	return nil
}

func countSpotsByStatus(ctx context.Context, q Querier, lotID int64, status string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM parking_spots
		WHERE lot_id = $1 AND status = $2
	`
	var count int
	if err := q.QueryRowContext(ctx, query, lotID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// claimLowestAvailable atomically selects and claims the lowest-numbered
// available spot in the lot. FOR UPDATE SKIP LOCKED keeps concurrent
// allocations from ever racing on the same row: a spot mid-claim by another
// transaction is skipped, so N callers against K free spots claim exactly K
// distinct spots.
func claimLowestAvailable(ctx context.Context, q Querier, lotID int64) (*models.ParkingSpot, error) {
	const query = `
		UPDATE parking_spots
		SET status = $3
		WHERE id = (
			SELECT id
			FROM parking_spots
			WHERE lot_id = $1 AND status = $2
			ORDER BY spot_number ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, lot_id, spot_number, status
	`
	var s models.ParkingSpot
	err := q.QueryRowContext(ctx, query, lotID, models.SpotAvailable, models.SpotOccupied).
		Scan(&s.ID, &s.LotID, &s.SpotNumber, &s.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotFull
		}
		return nil, err
	}
	return &s, nil
}
