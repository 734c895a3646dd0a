package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/opendesk/support-storage-go/internal/model"
)

// ContextCache is a minimal customer-context cache for callers that need no
// session or counter machinery. It shares the context key namespace and TTL
// with SessionStore but is deliberately a distinct contract: merges fail on
// an absent record instead of creating one, and corrupt entries are deleted
// on read instead of left to expire.
type ContextCache struct {
	rdb Commander
	ttl time.Duration
}

func NewContextCache(rdb Commander, ttl time.Duration) *ContextCache {
	if ttl == 0 {
		ttl = DefaultContextTTL
	}
	return &ContextCache{rdb: rdb, ttl: ttl}
}

// CacheContext stores the customer context. A zero ttl applies the default.
func (c *ContextCache) CacheContext(ctx context.Context, customerEmail string, contextData map[string]any, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(contextData)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	if err := c.rdb.SetEx(ctx, contextKey(customerEmail), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache context: %w", err)
	}
	return nil
}

// GetContext returns nil for a missing key. A corrupt payload is deleted
// before returning nil so the next read does not trip over it again.
func (c *ContextCache) GetContext(ctx context.Context, customerEmail string) (map[string]any, error) {
	key := contextKey(customerEmail)

	data, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get context: %w", err)
	}

	var contextData map[string]any
	if err := json.Unmarshal([]byte(data), &contextData); err != nil {
		log.Warn().Str("customer_email", customerEmail).Err(err).Msg("deleting corrupt context payload")
		if delErr := c.rdb.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("delete corrupt context: %w", delErr)
		}
		return nil, nil
	}
	return contextData, nil
}

// UpdateContext shallow-merges updates into the cached context. Returns
// false without creating anything when no context exists.
func (c *ContextCache) UpdateContext(ctx context.Context, customerEmail string, updates map[string]any) (bool, error) {
	existing, err := c.GetContext(ctx, customerEmail)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	for k, v := range updates {
		existing[k] = v
	}
	if err := c.CacheContext(ctx, customerEmail, existing, 0); err != nil {
		return false, err
	}
	return true, nil
}

// InvalidateContext reports whether a cached context was actually removed.
func (c *ContextCache) InvalidateContext(ctx context.Context, customerEmail string) (bool, error) {
	removed, err := c.rdb.Del(ctx, contextKey(customerEmail)).Result()
	if err != nil {
		return false, fmt.Errorf("invalidate context: %w", err)
	}
	return removed > 0, nil
}

// HealthCheck has the same contract as SessionStore.HealthCheck.
func (c *ContextCache) HealthCheck(ctx context.Context) *model.HealthReport {
	return healthCheck(ctx, c.rdb, "healthcheck:simple")
}
