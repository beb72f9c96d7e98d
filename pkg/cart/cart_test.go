package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	salmon = Item{ID: "m1", Name: "Grilled Salmon", Price: 24.99, Image: "salmon.jpg"}
	bread  = Item{ID: "m2", Name: "Garlic Bread", Price: 5.99}
)

func stores(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	redis := repository.NewRedisRepository(&config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Close() })

	return map[string]Store{
		"redis": NewRedisStore(redis, 0),
		"file":  NewFileStore(filepath.Join(t.TempDir(), "carts.json")),
	}
}

func TestCart(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			c, err := Open(ctx, store, "u1")
			require.NoError(t, err)
			assert.Empty(t, c.Lines())

			require.NoError(t, c.Add(ctx, salmon, 1, ""))
			require.NoError(t, c.Add(ctx, bread, 2, "extra garlic"))

			changed := salmon
			changed.Price = 99
			require.NoError(t, c.Add(ctx, changed, 2, ""))

			lines := c.Lines()
			require.Len(t, lines, 2)
			assert.Equal(t, "m1", lines[0].ID)
			assert.Equal(t, 3, lines[0].Quantity)
			assert.Equal(t, 24.99, lines[0].Price)
			assert.Equal(t, "extra garlic", lines[1].SpecialInstructions)
			assert.Equal(t, 5, c.Count())
			assert.Equal(t, 86.95, c.Total())

			reopened, err := Open(ctx, store, "u1")
			require.NoError(t, err)
			assert.Equal(t, lines, reopened.Lines())

			other, err := Open(ctx, store, "u2")
			require.NoError(t, err)
			assert.Empty(t, other.Lines())

			require.NoError(t, c.SetInstructions(ctx, "m1", "no lemon"))
			require.NoError(t, c.SetQuantity(ctx, "m2", 0))
			assert.ErrorIs(t, c.SetQuantity(ctx, "m2", 1), ErrLineNotFound)
			assert.ErrorIs(t, c.Add(ctx, bread, 0, ""), ErrInvalidQuantity)

			reopened, err = Open(ctx, store, "u1")
			require.NoError(t, err)
			require.Len(t, reopened.Lines(), 1)
			assert.Equal(t, "no lemon", reopened.Lines()[0].SpecialInstructions)

			require.NoError(t, c.Clear(ctx))
			assert.Zero(t, c.Total())
			reopened, err = Open(ctx, store, "u1")
			require.NoError(t, err)
			assert.Empty(t, reopened.Lines())
		})
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, NewFileStore(filepath.Join(t.TempDir(), "carts.json")), "u1")
	require.NoError(t, err)

	require.NoError(t, c.Add(ctx, salmon, 1, ""))
	require.NoError(t, c.Add(ctx, bread, 1, ""))
	require.NoError(t, c.Remove(ctx, "m1"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "m2", lines[0].ID)
	assert.ErrorIs(t, c.Remove(ctx, "m1"), ErrLineNotFound)
}
