package models

import "time"

// Booking is the billing record paired with one claimed spot. At most one
// active booking may reference a spot; a closed booking is never reopened.
// LotName and SpotNumber are captured at creation because the spot row may
// be removed later by a capacity shrink or lot delete while the booking
// history must survive.
type Booking struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	SpotID         int64      `db:"spot_id" json:"spot_id"`
	LotName        string     `db:"lot_name" json:"lot_name"`
	SpotNumber     int        `db:"spot_number" json:"spot_number"`
	ScheduledStart *time.Time `db:"scheduled_start_time" json:"scheduled_start_time,omitempty"`
	ScheduledEnd   *time.Time `db:"scheduled_end_time" json:"scheduled_end_time,omitempty"`
	CheckInTime    time.Time  `db:"check_in_time" json:"check_in_time"`
	CheckOutTime   *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
	TotalCost      *float64   `db:"total_cost" json:"total_cost,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
}

// BookingDetail is a history row; lot name and spot number are the values
// captured when the booking was created.
type BookingDetail struct {
	BookingID    int64      `json:"booking_id"`
	LotName      string     `json:"lot_name"`
	SpotNumber   int        `json:"spot_number"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	IsActive     bool       `json:"is_active"`
	TotalCost    *float64   `json:"total_cost"`
}

// UserSummary aggregates one user's booking activity.
type UserSummary struct {
	TotalBookings  int     `json:"total_bookings"`
	ActiveBookings int     `json:"active_bookings"`
	TotalSpent     float64 `json:"total_spent"`
}

// AdminSummary aggregates platform-wide state for the admin dashboard.
type AdminSummary struct {
	TotalUsers     int     `json:"total_users"`
	TotalLots      int     `json:"total_lots"`
	TotalSpots     int     `json:"total_spots"`
	SpotsAvailable int     `json:"spots_available"`
	SpotsOccupied  int     `json:"spots_occupied"`
	TotalRevenue   float64 `json:"total_revenue"`
}
