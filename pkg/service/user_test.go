package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store, f.store, f.redis, f.logger)
	ctx := context.Background()

	alice := f.register(t, "Alice", "alice@example.com")
	f.register(t, "Bob", "bob@example.com")

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileInput{Name: "  ", Email: "alice@example.com"})
		e := requireKind(t, err, KindValidation)
		assert.Equal(t, "Name and email are required", e.Message)
		assert.Equal(t, map[string]bool{"name": false, "email": true}, e.Detail["fields"])
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileInput{Name: "Alice", Email: "not-an-email"})
		e := requireKind(t, err, KindValidation)
		assert.Equal(t, "Validation failed", e.Message)
		assert.Contains(t, e.Detail["errors"], "email")
	})

	t.Run("email owned by another user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileInput{Name: "Alice", Email: "BOB@example.com"})
		e := requireKind(t, err, KindConflict)
		assert.Equal(t, "Email already in use", e.Message)
		assert.Equal(t, "email", e.Detail["field"])
	})

	t.Run("merge optional fields", func(t *testing.T) {
		require.NoError(t, f.redis.CacheUser(ctx, alice))

		user, err := svc.UpdateProfile(ctx, alice.ID, ProfileInput{
			Name:    "Alice Smith",
			Email:   "alice@example.com",
			Phone:   strPtr("555-0100"),
			Address: strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", user.Name)
		assert.Equal(t, "555-0100", user.Phone)
		assert.Empty(t, user.Address)
		assert.False(t, f.mr.Exists("user:"+alice.ID))

		user, err = svc.UpdateProfile(ctx, alice.ID, ProfileInput{Name: "Alice Smith", Email: "alice@example.com", Address: strPtr("1 Main St")})
		require.NoError(t, err)
		assert.Equal(t, "555-0100", user.Phone)
		assert.Equal(t, "1 Main St", user.Address)
	})

	t.Run("profile", func(t *testing.T) {
		user, err := svc.Profile(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", user.Name)

		_, err = svc.Profile(ctx, "missing")
		requireKind(t, err, KindNotFound)
	})
}
