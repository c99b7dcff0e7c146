package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/cache"
	"github.com/Nienta-PK/taskmanager/backend/internal/models"
)

const (
	lookupCategoriesKey = "lookup:categories"
	lookupPrioritiesKey = "lookup:priorities"
	lookupStatusesKey   = "lookup:statuses"
	lookupWeekdaysKey   = "lookup:weekdays"
	LookupKeyPattern    = "lookup:*"
)

// LookupCache is the read-through part of cache.MultiLevelCache.
type LookupCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func(context.Context) (interface{}, error)) error
}

type LookupService interface {
	Load(ctx context.Context) (models.Lookups, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Priorities(ctx context.Context) ([]models.Priority, error)
	Statuses(ctx context.Context) ([]models.Status, error)
	Weekdays(ctx context.Context) ([]models.Weekday, error)
}

type LookupServiceImpl struct {
	store LookupStore
	cache LookupCache
	ttl   time.Duration
}

// NewLookupService reads straight from store when c is nil.
func NewLookupService(store LookupStore, c LookupCache, ttl time.Duration) *LookupServiceImpl {
	return &LookupServiceImpl{store: store, cache: c, ttl: ttl}
}

func (s *LookupServiceImpl) read(ctx context.Context, key string, dest interface{}, load func(context.Context) (interface{}, error)) error {
	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return err
		}
		return assign(value, dest)
	}
	return s.cache.GetOrLoad(ctx, key, s.ttl, dest, load)
}

func (s *LookupServiceImpl) categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.read(ctx, lookupCategoriesKey, &out, func(ctx context.Context) (interface{}, error) {
		return s.store.Categories(ctx)
	})
	return out, err
}

func (s *LookupServiceImpl) priorities(ctx context.Context) ([]models.Priority, error) {
	var out []models.Priority
	err := s.read(ctx, lookupPrioritiesKey, &out, func(ctx context.Context) (interface{}, error) {
		return s.store.Priorities(ctx)
	})
	return out, err
}

func (s *LookupServiceImpl) statuses(ctx context.Context) ([]models.Status, error) {
	var out []models.Status
	err := s.read(ctx, lookupStatusesKey, &out, func(ctx context.Context) (interface{}, error) {
		return s.store.Statuses(ctx)
	})
	return out, err
}

func (s *LookupServiceImpl) weekdays(ctx context.Context) ([]models.Weekday, error) {
	var out []models.Weekday
	err := s.read(ctx, lookupWeekdaysKey, &out, func(ctx context.Context) (interface{}, error) {
		return s.store.Weekdays(ctx)
	})
	return out, err
}

// Load returns the three tables tasks reference. Empty tables are not an
// error here; callers decide what a missing row means.
func (s *LookupServiceImpl) Load(ctx context.Context) (models.Lookups, error) {
	var (
		lookups models.Lookups
		err     error
	)

	if lookups.Categories, err = s.categories(ctx); err != nil {
		return models.Lookups{}, fmt.Errorf("failed to load categories: %w", err)
	}
	if lookups.Priorities, err = s.priorities(ctx); err != nil {
		return models.Lookups{}, fmt.Errorf("failed to load priorities: %w", err)
	}
	if lookups.Statuses, err = s.statuses(ctx); err != nil {
		return models.Lookups{}, fmt.Errorf("failed to load statuses: %w", err)
	}

	return lookups, nil
}

func (s *LookupServiceImpl) Categories(ctx context.Context) ([]models.Category, error) {
	out, err := s.categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no categories found", ErrNotFound)
	}
	return out, nil
}

func (s *LookupServiceImpl) Priorities(ctx context.Context) ([]models.Priority, error) {
	out, err := s.priorities(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no priorities found", ErrNotFound)
	}
	return out, nil
}

func (s *LookupServiceImpl) Statuses(ctx context.Context) ([]models.Status, error) {
	out, err := s.statuses(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no statuses found", ErrNotFound)
	}
	return out, nil
}

func (s *LookupServiceImpl) Weekdays(ctx context.Context) ([]models.Weekday, error) {
	out, err := s.weekdays(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no weekdays found", ErrNotFound)
	}
	return out, nil
}

// WarmupJobs re-reads every lookup table from the store on each warmer run.
func (s *LookupServiceImpl) WarmupJobs() []cache.WarmupJob {
	return []cache.WarmupJob{
		{Key: lookupStatusesKey, TTL: s.ttl, Priority: 30, Loader: func(ctx context.Context) (interface{}, error) {
			return s.store.Statuses(ctx)
		}},
		{Key: lookupPrioritiesKey, TTL: s.ttl, Priority: 20, Loader: func(ctx context.Context) (interface{}, error) {
			return s.store.Priorities(ctx)
		}},
		{Key: lookupCategoriesKey, TTL: s.ttl, Priority: 20, Loader: func(ctx context.Context) (interface{}, error) {
			return s.store.Categories(ctx)
		}},
		{Key: lookupWeekdaysKey, TTL: s.ttl, Priority: 10, Loader: func(ctx context.Context) (interface{}, error) {
			return s.store.Weekdays(ctx)
		}},
	}
}

func assign(value, dest interface{}) error {
	switch d := dest.(type) {
	case *[]models.Category:
		*d = value.([]models.Category)
	case *[]models.Priority:
		*d = value.([]models.Priority)
	case *[]models.Status:
		*d = value.([]models.Status)
	case *[]models.Weekday:
		*d = value.([]models.Weekday)
	default:
		return fmt.Errorf("unsupported lookup destination %T", dest)
	}
	return nil
}
