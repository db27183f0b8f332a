package cache

import (
	"fmt"
	"time"
)

// TTLs per key class. Volatile per-lot state expires fast, coarse aggregates
// live longer.
const (
	TTLLotDetail    = 30 * time.Second
	TTLUserBookings = 60 * time.Second
	TTLLotListing   = 120 * time.Second
	TTLSummary      = 300 * time.Second
)

// Key builders. Keys are deterministic strings derived from the operation and
// its parameters.

func AvailableLotsKey() string            { return "lots:available" }
func AdminLotsKey() string                { return "lots:admin" }
func LotDetailKey(lotID int64) string     { return fmt.Sprintf("lot:detail:%d", lotID) }
func UserBookingsKey(userID int64) string { return fmt.Sprintf("user:bookings:%d", userID) }
func UserSummaryKey(userID int64) string  { return fmt.Sprintf("user:summary:%d", userID) }
func AdminSummaryKey() string             { return "admin:summary" }
func AdminUsersKey() string               { return "admin:users" }

// AfterBookingChange is the key set whose result may change when a booking is
// created or released: both lot listings, the lot's detail, the acting user's
// summary and history, and the admin aggregate.
func AfterBookingChange(userID, lotID int64) []string {
	return []string{
		AvailableLotsKey(),
		AdminLotsKey(),
		LotDetailKey(lotID),
		UserSummaryKey(userID),
		UserBookingsKey(userID),
		AdminSummaryKey(),
	}
}

// AfterLotChange is the key set invalidated when a lot is created, updated or
// deleted.
func AfterLotChange(lotID int64) []string {
	return []string{
		AvailableLotsKey(),
		AdminLotsKey(),
		LotDetailKey(lotID),
		AdminSummaryKey(),
	}
}

// AfterUserChange is the key set invalidated when a user registers.
func AfterUserChange() []string {
	return []string{AdminUsersKey(), AdminSummaryKey()}
}
