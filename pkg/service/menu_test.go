package service

import (
	"context"
	"testing"

	"github.com/example/gourmet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuList(t *testing.T) {
	f := newFixture(t)
	f.seedMenu(t)
	svc := NewMenuService(f.store, f.redis, f.logger)
	ctx := context.Background()

	all, err := svc.List(ctx, MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, f.mr.Exists("menu:all"))

	cases := []struct {
		name   string
		filter MenuFilter
		want   []string
	}{
		{"category", MenuFilter{Category: "Seafood"}, []string{"Grilled Salmon"}},
		{"search name", MenuFilter{Search: "BREAD"}, []string{"Garlic Bread"}},
		{"search description", MenuFilter{Search: "italian"}, []string{"Tiramisu"}},
		{"popular", MenuFilter{PopularOnly: true}, []string{"Grilled Salmon", "Tiramisu"}},
		{"combined", MenuFilter{PopularOnly: true, Category: "Desserts"}, []string{"Tiramisu"}},
		{"no match", MenuFilter{Search: "pizza"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.List(ctx, tc.filter)
			require.NoError(t, err)
			names := []string{}
			for _, it := range items {
				names = append(names, it.Name)
			}
			assert.ElementsMatch(t, tc.want, names)
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.List(ctx, MenuFilter{Category: "Pizza"})
		requireKind(t, err, KindValidation)
	})
}

func TestMenuCacheInvalidatedBySeed(t *testing.T) {
	f := newFixture(t)
	svc := NewMenuService(f.store, f.redis, f.logger)
	ctx := context.Background()

	items, err := svc.List(ctx, MenuFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Seed(ctx, []models.MenuItem{{Name: "Lemonade", Price: 3, Category: models.CategoryBeverages}})
	require.NoError(t, err)
	assert.False(t, f.mr.Exists("menu:all"))

	items, err = svc.List(ctx, MenuFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lemonade", items[0].Name)
}

func TestMenuGet(t *testing.T) {
	f := newFixture(t)
	items := f.seedMenu(t)
	svc := NewMenuService(f.store, nil, f.logger)
	ctx := context.Background()

	item, err := svc.Get(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Grilled Salmon", item.Name)

	_, err = svc.Get(ctx, "missing")
	e := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Menu item not found", e.Message)
}

func TestMenuSeedRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	svc := NewMenuService(f.store, nil, f.logger)

	_, err := svc.Seed(context.Background(), []models.MenuItem{{Name: "Pizza", Category: "Pizza"}})
	requireKind(t, err, KindValidation)
}
