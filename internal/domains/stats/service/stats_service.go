package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"library-backend/internal/config"
	"library-backend/internal/domains/stats/model"
	"library-backend/internal/domains/stats/repository"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const statsCachePrefix = "stats:"

// Bounds on caller-supplied sizing so a single request cannot force an
// unbounded aggregation.
const (
	DefaultTopLimit = 10
	MaxTopLimit     = 100
	DefaultMonths   = 12
	MaxMonths       = 60
)

type ServiceInterface interface {
	General(ctx context.Context) (*model.GeneralStats, error)
	MostBorrowedBooks(ctx context.Context, limit int) ([]model.MostBorrowedBook, error)
	MostActiveUsers(ctx context.Context, limit int) ([]model.MostActiveUser, error)
	MonthlyLoans(ctx context.Context, months int) ([]model.MonthlyLoanCount, error)
}

type statsService struct {
	repo       repository.RepositoryInterface
	cache      cache.Cache
	cacheTTL   time.Duration
	finePerDay decimal.Decimal
}

func NewStatsService(
	repo repository.RepositoryInterface,
	cacheClient cache.Cache,
	cacheConfig config.CacheConfig,
	loanConfig config.LoanConfig,
) ServiceInterface {
	return &statsService{
		repo:       repo,
		cache:      cacheClient,
		cacheTTL:   time.Duration(cacheConfig.StatsTTLSeconds) * time.Second,
		finePerDay: loanConfig.FinePerDay,
	}
}

func (s *statsService) General(ctx context.Context) (*model.GeneralStats, error) {
	cacheKey := statsCachePrefix + "general"

	var cached model.GeneralStats
	if found := s.cacheGet(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	now := time.Now().UTC()
	stats, err := s.repo.General(ctx, now)
	if err != nil {
		return nil, err
	}

	overdueDays, err := s.repo.OverdueDays(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.OutstandingFines = s.finePerDay.Mul(decimal.NewFromInt(overdueDays))

	s.cacheSet(ctx, cacheKey, stats)
	return stats, nil
}

func (s *statsService) MostBorrowedBooks(ctx context.Context, limit int) ([]model.MostBorrowedBook, error) {
	limit = clamp(limit, DefaultTopLimit, MaxTopLimit)
	cacheKey := fmt.Sprintf("%stop_books:%d", statsCachePrefix, limit)

	var cached []model.MostBorrowedBook
	if found := s.cacheGet(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	books, err := s.repo.MostBorrowedBooks(ctx, limit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, books)
	return books, nil
}

func (s *statsService) MostActiveUsers(ctx context.Context, limit int) ([]model.MostActiveUser, error) {
	limit = clamp(limit, DefaultTopLimit, MaxTopLimit)
	cacheKey := fmt.Sprintf("%stop_users:%d", statsCachePrefix, limit)

	var cached []model.MostActiveUser
	if found := s.cacheGet(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	users, err := s.repo.MostActiveUsers(ctx, limit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, users)
	return users, nil
}

func (s *statsService) MonthlyLoans(ctx context.Context, months int) ([]model.MonthlyLoanCount, error) {
	months = clamp(months, DefaultMonths, MaxMonths)
	cacheKey := fmt.Sprintf("%smonthly:%d", statsCachePrefix, months)

	var cached []model.MonthlyLoanCount
	if found := s.cacheGet(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	counts, err := s.repo.MonthlyLoans(ctx, time.Now().UTC(), months)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, counts)
	return counts, nil
}

// clamp applies the default when v is unset and caps it at max.
func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

func (s *statsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("stats cache read failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return found
}

func (s *statsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logger.Warn("stats cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
