package repository

import (
	"context"
	"database/sql"

	"parkhub/internal/models"
)

// StatsRepository computes platform-wide aggregates for the admin dashboard.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository returns repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// AdminSummary returns user/lot/spot counts and revenue over closed bookings.
func (r *StatsRepository) AdminSummary(ctx context.Context) (*models.AdminSummary, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = $1),
			(SELECT COUNT(*) FROM parking_lots),
			(SELECT COUNT(*) FROM parking_spots),
			(SELECT COUNT(*) FROM parking_spots WHERE status = $2),
			(SELECT COUNT(*) FROM parking_spots WHERE status = $3),
			(SELECT COALESCE(SUM(total_cost), 0) FROM bookings WHERE NOT is_active)
	`
	var s models.AdminSummary
	err := r.db.QueryRowContext(ctx, query, models.RoleUser, models.SpotAvailable, models.SpotOccupied).
		Scan(&s.TotalUsers, &s.TotalLots, &s.TotalSpots, &s.SpotsAvailable, &s.SpotsOccupied, &s.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
