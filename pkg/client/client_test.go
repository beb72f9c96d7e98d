package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/gourmet/gateway"
	"github.com/example/gourmet/pkg/auth"
	"github.com/example/gourmet/pkg/cart"
	"github.com/example/gourmet/pkg/client"
	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) (*httptest.Server, []models.MenuItem) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	mr := miniredis.RunT(t)
	redis := repository.NewRedisRepository(&config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Close() })

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Mode = gin.TestMode

	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", time.Hour, "gourmet")
	menuSvc := service.NewMenuService(store, redis, logger)

	menu := []models.MenuItem{
		{Name: "Bruschetta", Price: 7.5, Category: models.CategoryAppetizers},
		{Name: "Tiramisu", Price: 8.25, Category: models.CategoryDesserts, Popular: true},
	}
	_, err = menuSvc.Seed(context.Background(), menu)
	require.NoError(t, err)

	gw := gateway.NewGateway(cfg, logger, gateway.Services{
		Auth:   service.NewAuthService(store, store, tokens, redis, bcrypt.MinCost, logger),
		Users:  service.NewUserService(store, store, redis, logger),
		Menu:   menuSvc,
		Orders: service.NewOrderService(store, store, store, cfg.Orders, logger).WithIdempotency(redis),
		Carts:  cart.NewRedisStore(redis, time.Hour),
	})

	srv := httptest.NewServer(gw.Handler())
	t.Cleanup(srv.Close)
	return srv, menu
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	c, err := client.New(srv.URL, sessionPath)
	require.NoError(t, err)
	assert.False(t, c.Authenticated())

	_, err = c.Orders(ctx)
	assert.ErrorIs(t, err, client.ErrNotAuthenticated)

	user, err := c.Register(ctx, "Dana", "dana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.FileExists(t, sessionPath)

	t.Run("restored on construction", func(t *testing.T) {
		again, err := client.New(srv.URL, sessionPath)
		require.NoError(t, err)
		require.True(t, again.Authenticated())
		assert.Equal(t, user.ID, again.User().ID)

		me, err := again.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Dana", me.Name)
	})

	t.Run("profile update is written through", func(t *testing.T) {
		phone := "555-0199"
		updated, err := c.UpdateProfile(ctx, service.ProfileInput{Name: "Dana K", Email: "dana@example.com", Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "555-0199", updated.Phone)

		again, err := client.New(srv.URL, sessionPath)
		require.NoError(t, err)
		assert.Equal(t, "Dana K", again.User().Name)
	})

	t.Run("logout", func(t *testing.T) {
		require.NoError(t, c.Logout())
		assert.False(t, c.Authenticated())
		assert.NoFileExists(t, sessionPath)

		_, err := c.Login(ctx, "dana@example.com", "secret1")
		require.NoError(t, err)
		assert.True(t, c.Authenticated())
	})
}

func TestServerMessagesAreSurfaced(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()

	c, err := client.New(srv.URL, "")
	require.NoError(t, err)

	_, err = c.Login(ctx, "nobody@example.com", "secret1")
	var apiErr *client.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Error())

	_, err = c.MenuItem(ctx, "missing")
	assert.EqualError(t, err, "Menu item not found")
}

func TestFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, "")
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@example.com", "secret1")
	assert.EqualError(t, err, "Login failed")

	_, err = c.Register(context.Background(), "A", "a@example.com", "secret1")
	assert.EqualError(t, err, "Registration failed")
}

func TestCheckout(t *testing.T) {
	srv, menu := newServer(t)
	ctx := context.Background()

	c, err := client.New(srv.URL, "")
	require.NoError(t, err)
	_, err = c.Register(ctx, "Eve", "eve@example.com", "secret1")
	require.NoError(t, err)

	items, err := c.Menu(ctx, service.MenuFilter{PopularOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tiramisu", items[0].Name)

	store := cart.NewFileStore(filepath.Join(t.TempDir(), "cart.json"))
	ct, err := c.Cart(ctx, store)
	require.NoError(t, err)

	for _, item := range menu {
		snapshot := cart.Item{ID: item.ID, Name: item.Name, Price: item.Price, Image: item.Image}
		require.NoError(t, ct.Add(ctx, snapshot, 2, ""))
	}

	order, err := c.Checkout(ctx, ct, models.PaymentCash, 0.08, "checkout-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 31.5, order.Subtotal)
	assert.Equal(t, 2.52, order.Tax)
	assert.Equal(t, 34.02, order.Total)
	assert.Zero(t, ct.Count())

	reopened, err := c.Cart(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, reopened.Count())

	orders, err := c.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got, err := c.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)

	_, err = c.Checkout(ctx, ct, models.PaymentCash, 0.08, "")
	assert.EqualError(t, err, "Cart is empty")
}

func TestCorruptSessionIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	c, err := client.New("http://localhost:0", path)
	require.NoError(t, err)
	assert.False(t, c.Authenticated())
	assert.NoFileExists(t, path)
}
