package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"parkhub/internal/cache"
	"parkhub/internal/jobs"
	"parkhub/internal/models"
	"parkhub/internal/repository"
)

// BookingStore defines the booking persistence contract. Implementations
// guarantee that AllocateAndCreate and Close each commit their spot-state
// change and booking-record change as one atomic unit.
type BookingStore interface {
	AllocateAndCreate(ctx context.Context, booking *models.Booking, lot *models.ParkingLot) (*repository.AllocationResult, error)
	FindActive(ctx context.Context, bookingID, userID int64) (*repository.ActiveBooking, error)
	Close(ctx context.Context, bookingID int64, checkOut time.Time, totalCost float64) (int, error)
	ListDetailedByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error)
	UserSummary(ctx context.Context, userID int64) (*models.UserSummary, error)
}

// LotFinder looks up lot pricing for estimates.
type LotFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ParkingLot, error)
}

// BookingService owns the booking lifecycle: allocation on create, billing on
// release, and the cache/feed side effects of both.
type BookingService struct {
	bookings BookingStore
	lots     LotFinder
	cache    Cache
	queue    Queue
	notifier OccupancyNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService builds service. Cache, queue and notifier may be nil.
func NewBookingService(bookings BookingStore, lots LotFinder, cc Cache, queue Queue, notifier OccupancyNotifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		lots:     lots,
		cache:    cc,
		queue:    queue,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BookSpotInput is the booking request. Schedule bounds are optional RFC3339
// timestamps; when both are given they produce a non-binding cost estimate.
type BookSpotInput struct {
	UserID         int64
	LotID          int64
	ScheduledStart string
	ScheduledEnd   string
}

// BookingReceipt is returned to the caller on a successful booking.
type BookingReceipt struct {
	BookingID     int64     `json:"booking_id"`
	SpotNumber    int       `json:"spot_number"`
	CheckInTime   time.Time `json:"check_in_time"`
	EstimatedCost float64   `json:"estimated_cost"`
}

// ReleaseReceipt is returned to the caller on release.
type ReleaseReceipt struct {
	BookingID     int64   `json:"booking_id"`
	TotalCost     float64 `json:"total_cost"`
	DurationHours float64 `json:"duration_in_hours"`
}

// Book claims the lowest-numbered available spot in the lot and creates the
// booking record. The spot claim and the booking insert are one atomic unit.
func (s *BookingService) Book(ctx context.Context, input BookSpotInput) (*BookingReceipt, error) {
	if input.LotID == 0 {
		return nil, fmt.Errorf("%w: missing lot_id", ErrInvalidInput)
	}

	scheduledStart, scheduledEnd, err := s.parseSchedule(input.ScheduledStart, input.ScheduledEnd)
	if err != nil {
		return nil, err
	}

	lot, err := s.lots.FindByID(ctx, input.LotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}

	booking := &models.Booking{
		UserID:         input.UserID,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledEnd,
		CheckInTime:    s.now(),
	}
	alloc, err := s.bookings.AllocateAndCreate(ctx, booking, lot)
	if err != nil {
		if errors.Is(err, repository.ErrLotFull) {
			return nil, ErrLotFull
		}
		return nil, err
	}

	// The schedule only prices an estimate shown at booking time; billing is
	// always computed from actual check-in/check-out at release.
	var estimate float64
	if scheduledStart != nil && scheduledEnd != nil {
		estimate = round2(scheduledEnd.Sub(*scheduledStart).Hours() * lot.PricePerHour)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.AfterBookingChange(input.UserID, lot.ID)...)
	}
	if s.notifier != nil {
		s.notifier.LotUpdated(lot.ID, alloc.AvailableSpots)
	}

	s.logger.Info("spot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("lot_id", lot.ID),
		zap.Int("spot_number", alloc.SpotNumber),
	)
	return &BookingReceipt{
		BookingID:     booking.ID,
		SpotNumber:    alloc.SpotNumber,
		CheckInTime:   booking.CheckInTime,
		EstimatedCost: estimate,
	}, nil
}

// Release closes the caller's active booking, bills the actual elapsed time
// and frees the spot. A second release of the same booking returns
// ErrBookingNotFound.
func (s *BookingService) Release(ctx context.Context, bookingID, userID int64) (*ReleaseReceipt, error) {
	active, err := s.bookings.FindActive(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	checkOut := s.now()
	durationHours := checkOut.Sub(active.CheckInTime).Hours()
	totalCost := round2(durationHours * active.PricePerHour)

	available, err := s.bookings.Close(ctx, bookingID, checkOut, totalCost)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.AfterBookingChange(userID, active.LotID)...)
	}
	if s.notifier != nil {
		s.notifier.LotUpdated(active.LotID, available)
	}

	s.logger.Info("spot released",
		zap.Int64("booking_id", bookingID),
		zap.Int64("lot_id", active.LotID),
		zap.Float64("total_cost", totalCost),
	)
	return &ReleaseReceipt{
		BookingID:     bookingID,
		TotalCost:     totalCost,
		DurationHours: round2(durationHours),
	}, nil
}

// ListBookings returns the user's booking history, cached per user.
func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	key := cache.UserBookingsKey(userID)
	if s.cache != nil {
		var cached []models.BookingDetail
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	bookings, err := s.bookings.ListDetailedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.BookingDetail{}
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, bookings, cache.TTLUserBookings)
	}
	return bookings, nil
}

// Summary returns the user's aggregate booking stats, cached per user.
func (s *BookingService) Summary(ctx context.Context, userID int64) (*models.UserSummary, error) {
	key := cache.UserSummaryKey(userID)
	if s.cache != nil {
		var cached models.UserSummary
		if s.cache.GetJSON(ctx, key, &cached) {
			return &cached, nil
		}
	}

	summary, err := s.bookings.UserSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.TotalSpent = round2(summary.TotalSpent)

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, summary, cache.TTLSummary)
	}
	return summary, nil
}

// RequestExport enqueues a CSV export of the user's booking history. The
// caller gets no result back; the worker emails the file out-of-band.
func (s *BookingService) RequestExport(ctx context.Context, userID int64) error {
	if s.queue == nil {
		return errors.New("booking: export queue not configured")
	}
	return s.queue.Enqueue(ctx, jobs.JobExportCSV, jobs.ExportCSVPayload{UserID: userID})
}

func (s *BookingService) parseSchedule(start, end string) (*time.Time, *time.Time, error) {
	if start == "" && end == "" {
		return nil, nil, nil
	}
	if start == "" || end == "" {
		return nil, nil, fmt.Errorf("%w: both schedule bounds required", ErrInvalidSchedule)
	}

	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad format", ErrInvalidSchedule)
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad format", ErrInvalidSchedule)
	}

	startTime, endTime = startTime.UTC(), endTime.UTC()
	if startTime.Before(s.now()) {
		return nil, nil, fmt.Errorf("%w: start in past", ErrInvalidSchedule)
	}
	if !endTime.After(startTime) {
		return nil, nil, fmt.Errorf("%w: non-positive duration", ErrInvalidSchedule)
	}
	return &startTime, &endTime, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
