package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parkhub/internal/models"
)

// BookingRepository persists booking records and owns the two grouped writes
// of the booking lifecycle: spot claim + booking insert, and booking close +
// spot release. Each pair commits or rolls back as a unit.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// AllocationResult describes a successful spot claim.
type AllocationResult struct {
	SpotID         int64
	SpotNumber     int
	AvailableSpots int
}

// ActiveBooking is an active booking joined with the data needed to bill and
// release it.
type ActiveBooking struct {
	ID           int64
	UserID       int64
	SpotID       int64
	SpotNumber   int
	LotID        int64
	LotName      string
	PricePerHour float64
	CheckInTime  time.Time
}

// AllocateAndCreate claims the lowest-numbered available spot in the lot and
// inserts the booking row in the same transaction. The booking stores lot
// name and spot number so the history outlives the spot row. Returns
// ErrLotFull when no spot is free.
func (r *BookingRepository) AllocateAndCreate(ctx context.Context, booking *models.Booking, lot *models.ParkingLot) (*AllocationResult, error) {
	var result AllocationResult

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		spot, err := claimLowestAvailable(ctx, tx, lot.ID)
		if err != nil {
			return err
		}
		booking.SpotID = spot.ID
		booking.SpotNumber = spot.SpotNumber
		booking.LotName = lot.Name

		const insert = `
			INSERT INTO bookings (user_id, spot_id, lot_name, spot_number, scheduled_start_time, scheduled_end_time, check_in_time, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, insert,
			booking.UserID,
			booking.SpotID,
			booking.LotName,
			booking.SpotNumber,
			booking.ScheduledStart,
			booking.ScheduledEnd,
			booking.CheckInTime,
		).Scan(&booking.ID); err != nil {
			return err
		}
		booking.IsActive = true

		available, err := countSpotsByStatus(ctx, tx, lot.ID, models.SpotAvailable)
		if err != nil {
			return err
		}
		result = AllocationResult{
			SpotID:         booking.SpotID,
			SpotNumber:     booking.SpotNumber,
			AvailableSpots: available,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindActive returns the active booking matching (id, userID) together with
// its lot pricing. Returns ErrNotFound when no such active booking exists,
// which also covers bookings owned by another user and double releases.
func (r *BookingRepository) FindActive(ctx context.Context, bookingID, userID int64) (*ActiveBooking, error) {
	const query = `
		SELECT b.id, b.user_id, b.spot_id, b.spot_number, l.id, b.lot_name, l.price_per_hour, b.check_in_time
		FROM bookings b
		JOIN parking_spots s ON s.id = b.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE b.id = $1 AND b.user_id = $2 AND b.is_active
	`
	var b ActiveBooking
	err := r.db.QueryRowContext(ctx, query, bookingID, userID).
		Scan(&b.ID, &b.UserID, &b.SpotID, &b.SpotNumber, &b.LotID, &b.LotName, &b.PricePerHour, &b.CheckInTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Close finalizes an active booking and releases its spot in one transaction.
// The is_active guard makes a concurrent double release lose cleanly with
// ErrNotFound.
func (r *BookingRepository) Close(ctx context.Context, bookingID int64, checkOut time.Time, totalCost float64) (int, error) {
	var available int

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const finalize = `
			UPDATE bookings
			SET check_out_time = $2, total_cost = $3, is_active = FALSE
			WHERE id = $1 AND is_active
			RETURNING spot_id
		`
		var spotID int64
		if err := tx.QueryRowContext(ctx, finalize, bookingID, checkOut, totalCost).Scan(&spotID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if err := releaseSpot(ctx, tx, spotID); err != nil {
			return err
		}

		const lotOf = `SELECT lot_id FROM parking_spots WHERE id = $1`
		var lotID int64
		if err := tx.QueryRowContext(ctx, lotOf, spotID).Scan(&lotID); err != nil {
			return err
		}
		var err error
		available, err = countSpotsByStatus(ctx, tx, lotID, models.SpotAvailable)
		return err
	})
	if err != nil {
		return 0, err
	}
	return available, nil
}

// ListDetailedByUser returns the user's booking history, newest check-in
// first. Display fields come from the booking row itself, so rows whose spot
// or lot has since been removed still list.
func (r *BookingRepository) ListDetailedByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	const query = `
		SELECT id, lot_name, spot_number, check_in_time, check_out_time, is_active, total_cost
		FROM bookings
		WHERE user_id = $1
		ORDER BY check_in_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.BookingDetail
	for rows.Next() {
		var b models.BookingDetail
		var checkOut sql.NullTime
		var cost sql.NullFloat64
		if err := rows.Scan(&b.BookingID, &b.LotName, &b.SpotNumber, &b.CheckInTime, &checkOut, &b.IsActive, &cost); err != nil {
			return nil, err
		}
		if checkOut.Valid {
			t := checkOut.Time
			b.CheckOutTime = &t
		}
		if cost.Valid {
			c := cost.Float64
			b.TotalCost = &c
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UserSummary aggregates one user's booking counts and total spend over
// closed bookings.
func (r *BookingRepository) UserSummary(ctx context.Context, userID int64) (*models.UserSummary, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COALESCE(SUM(total_cost) FILTER (WHERE NOT is_active), 0)
		FROM bookings
		WHERE user_id = $1
	`
	var s models.UserSummary
	if err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.TotalBookings, &s.ActiveBookings, &s.TotalSpent); err != nil {
		return nil, err
	}
	return &s, nil
}
