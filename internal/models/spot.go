package models

// Spot occupancy states. The spot status is the single source of truth for
// whether the spot is claimable.
const (
	SpotAvailable = "available"
	SpotOccupied  = "occupied"
)

// ParkingSpot is the atomic unit of occupancy. Spot numbers are unique within
// a lot and run sequentially from 1.
type ParkingSpot struct {
	ID         int64  `db:"id" json:"id"`
	LotID      int64  `db:"lot_id" json:"lot_id"`
	SpotNumber int    `db:"spot_number" json:"spot_number"`
	Status     string `db:"status" json:"status"`
}
