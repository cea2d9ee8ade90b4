package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

type RedisTokenStore struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisTokenStore(client rueidis.Client, prefix string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisTokenStore) Store(ctx context.Context, token string, userID uint) error {
	cmd := r.client.B().Set().
		Key(r.prefix + token).
		Value(strconv.FormatUint(uint64(userID), 10)).
		ExSeconds(int64(r.ttl.Seconds())).
		Build()

	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisTokenStore) Resolve(ctx context.Context, token string) (uint, error) {
	cmd := r.client.B().Get().Key(r.prefix + token).Build()
	result := r.client.Do(ctx, cmd)

	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}

	raw, err := result.ToString()
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, ErrTokenNotFound
	}

	return uint(userID), nil
}

func (r *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	cmd := r.client.B().Del().Key(r.prefix + token).Build()
	return r.client.Do(ctx, cmd).Error()
}
