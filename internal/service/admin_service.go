package service

import (
	"context"

	"go.uber.org/zap"

	"parkhub/internal/cache"
	"parkhub/internal/models"
)

// StatsStore computes the platform-wide aggregate.
type StatsStore interface {
	AdminSummary(ctx context.Context) (*models.AdminSummary, error)
}

// UserLister lists accounts by role.
type UserLister interface {
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

// AdminService serves the admin dashboard reads.
type AdminService struct {
	stats  StatsStore
	users  UserLister
	cache  Cache
	logger *zap.Logger
}

// NewAdminService builds service. Cache may be nil.
func NewAdminService(stats StatsStore, users UserLister, cc Cache, logger *zap.Logger) *AdminService {
	return &AdminService{
		stats:  stats,
		users:  users,
		cache:  cc,
		logger: logger,
	}
}

// Summary returns the platform aggregate, cached.
func (s *AdminService) Summary(ctx context.Context) (*models.AdminSummary, error) {
	key := cache.AdminSummaryKey()
	if s.cache != nil {
		var cached models.AdminSummary
		if s.cache.GetJSON(ctx, key, &cached) {
			return &cached, nil
		}
	}

	summary, err := s.stats.AdminSummary(ctx)
	if err != nil {
		return nil, err
	}
	summary.TotalRevenue = round2(summary.TotalRevenue)

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, summary, cache.TTLSummary)
	}
	return summary, nil
}

// Users returns every account with the user role, cached.
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	key := cache.AdminUsersKey()
	if s.cache != nil {
		var cached []models.User
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	users, err := s.users.ListByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, users, cache.TTLSummary)
	}
	return users, nil
}
