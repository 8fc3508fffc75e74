package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "datahub/pkg/domain"

	"datahub/internal/meteringpoint/domain/shared"
)

const gsrnKeyPrefix = "datahub:gsrn:"

// RedisIndex caches GSRN to metering point id in Redis. Both keys are
// immutable once assigned, so entries only expire to bound memory.
type RedisIndex struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisIndex(client redis.Cmdable, ttl time.Duration) *RedisIndex {
	return &RedisIndex{client: client, ttl: ttl}
}

func gsrnKey(gsrn shared.GsrnNumber) string { return gsrnKeyPrefix + gsrn.String() }

func (i *RedisIndex) Lookup(ctx context.Context, gsrn shared.GsrnNumber) (id.MeteringPointID, bool, error) {
	raw, err := i.client.Get(ctx, gsrnKey(gsrn)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return id.MeteringPointID{}, false, nil
		}
		return id.MeteringPointID{}, false, fmt.Errorf("lookup gsrn: %w", err)
	}
	mpID, err := id.ParseMeteringPointID(raw)
	if err != nil {
		// A corrupt entry is a miss; the caller falls back to the database.
		_ = i.Forget(ctx, gsrn)
		return id.MeteringPointID{}, false, nil
	}
	return mpID, true, nil
}

func (i *RedisIndex) Remember(ctx context.Context, gsrn shared.GsrnNumber, mpID id.MeteringPointID) error {
	if err := i.client.Set(ctx, gsrnKey(gsrn), mpID.String(), i.ttl).Err(); err != nil {
		return fmt.Errorf("remember gsrn: %w", err)
	}
	return nil
}

func (i *RedisIndex) Forget(ctx context.Context, gsrn shared.GsrnNumber) error {
	if err := i.client.Del(ctx, gsrnKey(gsrn)).Err(); err != nil {
		return fmt.Errorf("forget gsrn: %w", err)
	}
	return nil
}
