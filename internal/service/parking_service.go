package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"parkhub/internal/cache"
	"parkhub/internal/models"
	"parkhub/internal/repository"
)

// LotStore defines the lot persistence contract. Capacity changes and deletes
// are transactional in the implementation.
type LotStore interface {
	Create(ctx context.Context, lot *models.ParkingLot) error
	FindByID(ctx context.Context, id int64) (*models.ParkingLot, error)
	ListAvailable(ctx context.Context) ([]models.ParkingLot, error)
	ListOverview(ctx context.Context) ([]models.LotOverview, error)
	Detail(ctx context.Context, id int64) (*models.LotDetail, error)
	Update(ctx context.Context, id int64, upd repository.LotUpdate) (*models.ParkingLot, int, error)
	Delete(ctx context.Context, id int64) error
}

// ParkingService manages lot inventory and its read-side caching.
type ParkingService struct {
	lots     LotStore
	cache    Cache
	notifier OccupancyNotifier
	logger   *zap.Logger
}

// NewParkingService builds service. Cache and notifier may be nil.
func NewParkingService(lots LotStore, cc Cache, notifier OccupancyNotifier, logger *zap.Logger) *ParkingService {
	return &ParkingService{
		lots:     lots,
		cache:    cc,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateLotInput is the admin lot-creation request.
type CreateLotInput struct {
	Name         string
	Address      string
	Pincode      string
	Capacity     int
	PricePerHour float64
}

// UpdateLotInput carries optional lot changes; nil fields stay untouched.
type UpdateLotInput struct {
	Name         *string
	Address      *string
	Pincode      *string
	PricePerHour *float64
	Capacity     *int
}

// CreateLot creates a lot with spots numbered 1..capacity.
func (s *ParkingService) CreateLot(ctx context.Context, input CreateLotInput) (*models.ParkingLot, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Address) == "" || strings.TrimSpace(input.Pincode) == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if input.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if input.PricePerHour < 0 {
		return nil, fmt.Errorf("%w: negative price", ErrInvalidInput)
	}

	lot := &models.ParkingLot{
		Name:         input.Name,
		Address:      input.Address,
		Pincode:      input.Pincode,
		Capacity:     input.Capacity,
		PricePerHour: input.PricePerHour,
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.AfterLotChange(lot.ID)...)
	}

	s.logger.Info("lot created", zap.Int64("lot_id", lot.ID), zap.Int("capacity", lot.Capacity))
	return lot, nil
}

// AvailableLots lists lots with at least one available spot, cached.
func (s *ParkingService) AvailableLots(ctx context.Context) ([]models.ParkingLot, error) {
	key := cache.AvailableLotsKey()
	if s.cache != nil {
		var cached []models.ParkingLot
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	lots, err := s.lots.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if lots == nil {
		lots = []models.ParkingLot{}
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, lots, cache.TTLLotListing)
	}
	return lots, nil
}

// AdminLots lists every lot with availability counts, cached.
func (s *ParkingService) AdminLots(ctx context.Context) ([]models.LotOverview, error) {
	key := cache.AdminLotsKey()
	if s.cache != nil {
		var cached []models.LotOverview
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	lots, err := s.lots.ListOverview(ctx)
	if err != nil {
		return nil, err
	}
	if lots == nil {
		lots = []models.LotOverview{}
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, lots, cache.TTLLotListing)
	}
	return lots, nil
}

// LotDetail returns the per-spot view of one lot, cached with a short TTL.
func (s *ParkingService) LotDetail(ctx context.Context, lotID int64) (*models.LotDetail, error) {
	key := cache.LotDetailKey(lotID)
	if s.cache != nil {
		var cached models.LotDetail
		if s.cache.GetJSON(ctx, key, &cached) {
			return &cached, nil
		}
	}

	detail, err := s.lots.Detail(ctx, lotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, detail, cache.TTLLotDetail)
	}
	return detail, nil
}

// UpdateLot applies field changes and resizes the spot set when capacity
// changes. Shrinking removes the highest-numbered available spots first and
// fails with ErrCapacityConflict below current occupancy.
func (s *ParkingService) UpdateLot(ctx context.Context, lotID int64, input UpdateLotInput) (*models.ParkingLot, error) {
	if input.Capacity != nil && *input.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if input.PricePerHour != nil && *input.PricePerHour < 0 {
		return nil, fmt.Errorf("%w: negative price", ErrInvalidInput)
	}

	lot, available, err := s.lots.Update(ctx, lotID, repository.LotUpdate{
		Name:         input.Name,
		Address:      input.Address,
		Pincode:      input.Pincode,
		PricePerHour: input.PricePerHour,
		Capacity:     input.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrLotNotFound
		case errors.Is(err, repository.ErrCapacityConflict):
			return nil, ErrCapacityConflict
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.AfterLotChange(lotID)...)
	}
	if s.notifier != nil && input.Capacity != nil {
		s.notifier.LotUpdated(lotID, available)
	}

	s.logger.Info("lot updated", zap.Int64("lot_id", lotID), zap.Int("capacity", lot.Capacity))
	return lot, nil
}

// DeleteLot removes a lot and its spots. Refused while any spot is occupied.
func (s *ParkingService) DeleteLot(ctx context.Context, lotID int64) error {
	if err := s.lots.Delete(ctx, lotID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrLotNotFound
		case errors.Is(err, repository.ErrLotOccupied):
			return ErrLotOccupied
		}
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.AfterLotChange(lotID)...)
	}

	s.logger.Info("lot deleted", zap.Int64("lot_id", lotID))
	return nil
}
