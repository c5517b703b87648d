package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
)

type countingUserRepo struct {
	users map[string]*domain.User
	gets  int
}

func (c *countingUserRepo) Create(_ context.Context, user *domain.User) error {
	c.users[user.Email] = user
	return nil
}

func (c *countingUserRepo) Update(_ context.Context, user *domain.User) error {
	c.users[user.Email] = user
	return nil
}

func (c *countingUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range c.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (c *countingUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	c.gets++
	if user, ok := c.users[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func newCacheFixture(t *testing.T) (*countingUserRepo, UserRepository) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingUserRepo{users: map[string]*domain.User{
		"a@x.com": {ID: "u-1", FirstName: "Ada", LastName: "Example", Email: "a@x.com", Role: domain.RoleUser},
	}}
	cached := NewCachedUserRepository(inner, client, time.Minute, zap.NewNop())
	return inner, cached
}

func TestCachedGetByEmailReadThrough(t *testing.T) {
	inner, cached := newCacheFixture(t)
	ctx := context.Background()

	first, err := cached.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := cached.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, inner.gets, "second lookup must come from cache")
}

func TestCachedGetByEmailMissPropagates(t *testing.T) {
	inner, cached := newCacheFixture(t)

	_, err := cached.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedUpdateInvalidates(t *testing.T) {
	inner, cached := newCacheFixture(t)
	ctx := context.Background()

	user, err := cached.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	user.Role = domain.RoleAdmin
	require.NoError(t, cached.Update(ctx, user))

	fresh, err := cached.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, fresh.Role)
	assert.Equal(t, 2, inner.gets, "invalidation must force a directory read")
}

func TestNewCachedUserRepositoryNilClient(t *testing.T) {
	inner := &countingUserRepo{users: map[string]*domain.User{}}
	assert.Equal(t, UserRepository(inner), NewCachedUserRepository(inner, nil, time.Minute, zap.NewNop()))
}
