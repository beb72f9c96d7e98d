package service

import (
	"context"
	"errors"
	"strings"

	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"go.uber.org/zap"
)

type MenuCache interface {
	CacheMenu(ctx context.Context, items []models.MenuItem) error
	GetMenuCache(ctx context.Context) ([]models.MenuItem, error)
	InvalidateMenu(ctx context.Context) error
}

// MenuFilter narrows a menu listing. Zero values match everything.
type MenuFilter struct {
	Category    string
	Search      string
	PopularOnly bool
}

func (f MenuFilter) match(item *models.MenuItem) bool {
	if f.Category != "" && string(item.Category) != f.Category {
		return false
	}
	if f.PopularOnly && !item.Popular {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}
	return true
}

type MenuService struct {
	menu   repository.MenuRepository
	cache  MenuCache
	logger *zap.Logger
}

func NewMenuService(menu repository.MenuRepository, cache MenuCache, logger *zap.Logger) *MenuService {
	return &MenuService{menu: menu, cache: cache, logger: logger.Named("menu")}
}

func (s *MenuService) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Category != "" && !models.Category(filter.Category).Valid() {
		return nil, FieldErrors(map[string]string{"category": "Unknown menu category"})
	}

	items, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.MenuItem, 0, len(items))
	for i := range items {
		if filter.match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

func (s *MenuService) all(ctx context.Context) ([]models.MenuItem, error) {
	if s.cache != nil {
		items, err := s.cache.GetMenuCache(ctx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Menu cache read failed", zap.Error(err))
		}
	}

	items, err := s.menu.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheMenu(ctx, items); err != nil {
			s.logger.Warn("Menu cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.menu.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Menu item not found")
		}
		return nil, err
	}
	return item, nil
}

// Seed upserts items by name and drops the cached listing.
func (s *MenuService) Seed(ctx context.Context, items []models.MenuItem) (int, error) {
	for i := range items {
		if !items[i].Category.Valid() {
			return i, FieldErrors(map[string]string{"category": "Unknown menu category " + string(items[i].Category)})
		}
		if err := s.menu.UpsertMenuItem(ctx, &items[i]); err != nil {
			return i, err
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateMenu(ctx); err != nil {
			s.logger.Warn("Menu cache invalidation failed", zap.Error(err))
		}
	}
	s.logger.Info("Menu seeded", zap.Int("items", len(items)))
	return len(items), nil
}
