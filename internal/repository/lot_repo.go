package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"parkhub/internal/models"
)

// LotRepository handles persistence of parking lots and admin-driven
// capacity changes.
type LotRepository struct {
	db *sql.DB
}

// NewLotRepository returns repository.
func NewLotRepository(db *sql.DB) *LotRepository {
	return &LotRepository{db: db}
}

// LotUpdate carries the optional fields of a lot update. Nil fields are left
// untouched.
type LotUpdate struct {
	Name         *string
	Address      *string
	Pincode      *string
	PricePerHour *float64
	Capacity     *int
}

// Create inserts a lot together with its spots numbered 1..capacity, all
// available, in one transaction.
func (r *LotRepository) Create(ctx context.Context, lot *models.ParkingLot) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const insertLot = `
			INSERT INTO parking_lots (name, address, pincode, capacity, price_per_hour)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, insertLot,
			lot.Name, lot.Address, lot.Pincode, lot.Capacity, lot.PricePerHour,
		).Scan(&lot.ID); err != nil {
			return err
		}
		return insertSpots(ctx, tx, lot.ID, 1, lot.Capacity)
	})
}

// FindByID returns one lot.
func (r *LotRepository) FindByID(ctx context.Context, id int64) (*models.ParkingLot, error) {
	const query = `
		SELECT id, name, address, pincode, capacity, price_per_hour
		FROM parking_lots
		WHERE id = $1
	`
	var lot models.ParkingLot
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Pincode, &lot.Capacity, &lot.PricePerHour)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// ListAvailable returns lots that still have at least one available spot.
func (r *LotRepository) ListAvailable(ctx context.Context) ([]models.ParkingLot, error) {
	const query = `
		SELECT DISTINCT l.id, l.name, l.address, l.pincode, l.capacity, l.price_per_hour
		FROM parking_lots l
		JOIN parking_spots s ON s.lot_id = l.id
		WHERE s.status = $1
		ORDER BY l.id
	`
	rows, err := r.db.QueryContext(ctx, query, models.SpotAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []models.ParkingLot
	for rows.Next() {
		var lot models.ParkingLot
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Pincode, &lot.Capacity, &lot.PricePerHour); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// ListOverview returns every lot with its available spot count.
func (r *LotRepository) ListOverview(ctx context.Context) ([]models.LotOverview, error) {
	const query = `
		SELECT l.id, l.name, l.address, l.pincode, l.capacity, l.price_per_hour,
		       COUNT(s.id) FILTER (WHERE s.status = $1) AS available_spots
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		GROUP BY l.id
		ORDER BY l.id
	`
	rows, err := r.db.QueryContext(ctx, query, models.SpotAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []models.LotOverview
	for rows.Next() {
		var lot models.LotOverview
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Pincode, &lot.Capacity, &lot.PricePerHour, &lot.AvailableSpots); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// Detail returns a lot with every spot ordered by number; occupied spots
// carry the occupying username and check-in time.
func (r *LotRepository) Detail(ctx context.Context, id int64) (*models.LotDetail, error) {
	lot, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT s.id, s.spot_number, s.status, u.username, b.check_in_time
		FROM parking_spots s
		LEFT JOIN bookings b ON b.spot_id = s.id AND b.is_active
		LEFT JOIN users u ON u.id = b.user_id
		WHERE s.lot_id = $1
		ORDER BY s.spot_number
	`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &models.LotDetail{
		LotID:    lot.ID,
		LotName:  lot.Name,
		Capacity: lot.Capacity,
		Spots:    []models.SpotInfo{},
	}
	for rows.Next() {
		var info models.SpotInfo
		var username sql.NullString
		var checkIn sql.NullTime
		if err := rows.Scan(&info.SpotID, &info.SpotNumber, &info.Status, &username, &checkIn); err != nil {
			return nil, err
		}
		if username.Valid {
			info.BookedBy = username.String
		}
		if checkIn.Valid {
			info.CheckInTime = checkIn.Time.UTC().Format(time.RFC3339)
		}
		detail.Spots = append(detail.Spots, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

// Update applies field changes and, when Capacity is set, resizes the spot
// set in the same transaction. The lot row is locked for the duration so the
// occupancy check and the spot changes act on a consistent snapshot.
// Growing appends spots oldCapacity+1..newCapacity; shrinking removes the
// highest-numbered available spots first and never touches an occupied spot.
func (r *LotRepository) Update(ctx context.Context, id int64, upd LotUpdate) (*models.ParkingLot, int, error) {
	var lot models.ParkingLot
	var available int

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const lockLot = `
			SELECT id, name, address, pincode, capacity, price_per_hour
			FROM parking_lots
			WHERE id = $1
			FOR UPDATE
		`
		err := tx.QueryRowContext(ctx, lockLot, id).
			Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Pincode, &lot.Capacity, &lot.PricePerHour)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if upd.Capacity != nil && *upd.Capacity != lot.Capacity {
			if err := resizeSpots(ctx, tx, &lot, *upd.Capacity); err != nil {
				return err
			}
		}

		if upd.Name != nil {
			lot.Name = *upd.Name
		}
		if upd.Address != nil {
			lot.Address = *upd.Address
		}
		if upd.Pincode != nil {
			lot.Pincode = *upd.Pincode
		}
		if upd.PricePerHour != nil {
			lot.PricePerHour = *upd.PricePerHour
		}

		const updateLot = `
			UPDATE parking_lots
			SET name = $2, address = $3, pincode = $4, capacity = $5, price_per_hour = $6
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, updateLot,
			lot.ID, lot.Name, lot.Address, lot.Pincode, lot.Capacity, lot.PricePerHour,
		); err != nil {
			return err
		}

		available, err = countSpotsByStatus(ctx, tx, lot.ID, models.SpotAvailable)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return &lot, available, nil
}

// Delete removes a lot and all its spots. Fails with ErrLotOccupied while any
// spot is occupied.
func (r *LotRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const lockLot = `SELECT id FROM parking_lots WHERE id = $1 FOR UPDATE`
		var lotID int64
		if err := tx.QueryRowContext(ctx, lockLot, id).Scan(&lotID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		occupied, err := countSpotsByStatus(ctx, tx, id, models.SpotOccupied)
		if err != nil {
			return err
		}
		if occupied > 0 {
			return ErrLotOccupied
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE lot_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = $1`, id)
		return err
	})
}

func insertSpots(ctx context.Context, q Querier, lotID int64, from, to int) error {
	if to < from {
		return nil
	}
	const query = `
		INSERT INTO parking_spots (lot_id, spot_number, status)
		SELECT $1, n, $4 FROM generate_series($2::int, $3::int) AS n
	`
	_, err := q.ExecContext(ctx, query, lotID, from, to, models.SpotAvailable)
	return err
}

func resizeSpots(ctx context.Context, tx *sql.Tx, lot *models.ParkingLot, newCapacity int) error {
	if newCapacity > lot.Capacity {
		if err := insertSpots(ctx, tx, lot.ID, lot.Capacity+1, newCapacity); err != nil {
			return err
		}
		lot.Capacity = newCapacity
		return nil
	}

	// Lock every spot row for the shrink. Allocation claims with SKIP
	// LOCKED, so none of the rows in this snapshot can be claimed while the
	// transaction holds them.
	const lockSpots = `
		SELECT id, lot_id, spot_number, status
		FROM parking_spots
		WHERE lot_id = $1
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, lockSpots, lot.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var spots []models.ParkingSpot
	for rows.Next() {
		var s models.ParkingSpot
		if err := rows.Scan(&s.ID, &s.LotID, &s.SpotNumber, &s.Status); err != nil {
			return err
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	// The tx cannot run the deletes below while the result set is open.
	if err := rows.Close(); err != nil {
		return err
	}

	ids, err := removalCandidates(spots, lot.Capacity-newCapacity)
	if err != nil {
		return err
	}
	for _, id := range ids {
		result, err := tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected != 1 {
			return ErrCapacityConflict
		}
	}

	lot.Capacity = newCapacity
	return nil
}

// removalCandidates picks the spots a shrink removes: the highest-numbered
// spots, top down, so numbering stays contiguous at 1..newCapacity. If any
// spot in that range is occupied the shrink cannot proceed and the caller
// gets ErrCapacityConflict.
func removalCandidates(spots []models.ParkingSpot, removeCount int) ([]int64, error) {
	if len(spots) < removeCount {
		return nil, ErrCapacityConflict
	}

	ordered := make([]models.ParkingSpot, len(spots))
	copy(ordered, spots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SpotNumber > ordered[j].SpotNumber
	})

	ids := make([]int64, 0, removeCount)
	for _, s := range ordered[:removeCount] {
		if s.Status != models.SpotAvailable {
			return nil, ErrCapacityConflict
		}
		ids = append(ids, s.ID)
	}
	return ids, nil
}
