package authorize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"evocpi/entity"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "ocpi:identity:"

// CachedResolver keeps resolved identities in redis for ttl; unknown tokens
// are not cached
type CachedResolver struct {
	next   Resolver
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCachedResolver(next Resolver, client redis.UniversalClient, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedResolver{next: next, client: client, ttl: ttl}
}

func (c *CachedResolver) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return cachePrefix + hex.EncodeToString(sum[:])
}

func (c *CachedResolver) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	key := c.key(token)
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var identity entity.Identity
		if json.Unmarshal(cached, &identity) == nil {
			identity.Token = token
			return &identity, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		// cache unavailable, fall through to the source
		return c.next.Resolve(ctx, token)
	}

	identity, err := c.next.Resolve(ctx, token)
	if err != nil || identity == nil {
		return identity, err
	}
	if data, err := json.Marshal(identity); err == nil {
		_ = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	return identity, nil
}
