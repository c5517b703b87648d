package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
)

const userCacheKeyPrefix = "auth:user:"

// cachedUserRepository layers a Redis read-through cache over the user
// directory. GetByEmail is the authentication gate's hot path, hit once per
// bearer request. Cache failures degrade to the inner repository; stale
// reads are bounded by the TTL. Token validity itself is never cached.
type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps a repository with a Redis cache. A nil
// client or non-positive TTL returns the inner repository unchanged.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedUserRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	key := userCacheKeyPrefix + email

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
		r.invalidate(ctx, email)
	} else if err != redis.Nil {
		r.logger.Warn("user cache read failed", zap.Error(err))
	}

	user, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.logger.Warn("user cache write failed", zap.Error(err))
		}
	}
	return user, nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.Email)
	return nil
}

func (r *cachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.Email)
	return nil
}

func (r *cachedUserRepository) invalidate(ctx context.Context, email string) {
	if err := r.client.Del(ctx, userCacheKeyPrefix+email).Err(); err != nil {
		r.logger.Warn("user cache invalidation failed", zap.String("email", email), zap.Error(err))
	}
}
