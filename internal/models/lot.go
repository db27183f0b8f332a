package models

// ParkingLot represents a physical parking location with a fixed set of
// numbered spots. The count of spot rows equals Capacity outside of a
// capacity-change transaction.
type ParkingLot struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Address      string  `db:"address" json:"address"`
	Pincode      string  `db:"pincode" json:"pincode"`
	Capacity     int     `db:"capacity" json:"capacity"`
	PricePerHour float64 `db:"price_per_hour" json:"price_per_hour"`
}

// LotOverview is the admin listing row: a lot plus its live availability.
type LotOverview struct {
	ParkingLot
	AvailableSpots int `json:"available_spots"`
}

// SpotInfo describes one spot inside a lot detail view. Occupant fields are
// only set for occupied spots.
type SpotInfo struct {
	SpotID      int64  `json:"spot_id"`
	SpotNumber  int    `json:"spot_number"`
	Status      string `json:"status"`
	BookedBy    string `json:"booked_by_user,omitempty"`
	CheckInTime string `json:"check_in_time,omitempty"`
}

// LotDetail is the admin per-lot view with every spot listed.
type LotDetail struct {
	LotID    int64      `json:"lot_id"`
	LotName  string     `json:"lot_name"`
	Capacity int        `json:"capacity"`
	Spots    []SpotInfo `json:"spots"`
}
