package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/evect-health/fulfillment/pkg/logging"
)

const cacheKeyPrefix = "knowledge:"

// Cached is a Redis read-through cache in front of another Source. Redis
// failures fall through to the wrapped source.
type Cached struct {
	next   Source
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

// NewCached wraps next with a Redis cache whose entries live for ttl.
func NewCached(next Source, client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cached {
	if next == nil {
		panic("knowledge: cached source requires a backing source")
	}
	if client == nil {
		panic("knowledge: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cached{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("evect.internal.knowledge.cache"),
	}
}

var _ Source = (*Cached)(nil)

func (c *Cached) OutbreakByCity(ctx context.Context, city string) (*Outbreak, error) {
	return readThrough(ctx, c, cacheKey(OpOutbreakByCity, city), func(ctx context.Context) (*Outbreak, error) {
		return c.next.OutbreakByCity(ctx, city)
	})
}

func (c *Cached) Symptoms(ctx context.Context, disease string) ([]string, error) {
	return readThrough(ctx, c, cacheKey(OpSymptoms, disease), func(ctx context.Context) ([]string, error) {
		return c.next.Symptoms(ctx, disease)
	})
}

func (c *Cached) Facilities(ctx context.Context, city string) ([]string, error) {
	return readThrough(ctx, c, cacheKey(OpFacilities, city), func(ctx context.Context) ([]string, error) {
		return c.next.Facilities(ctx, city)
	})
}

func (c *Cached) DiseasesByCountry(ctx context.Context, country string) ([]string, error) {
	return readThrough(ctx, c, cacheKey(OpDiseasesByCountry, country), func(ctx context.Context) ([]string, error) {
		return c.next.DiseasesByCountry(ctx, country)
	})
}

func (c *Cached) PreventionText(ctx context.Context, disease, country string) (string, error) {
	key := cacheKey(OpPreventionText, country, strings.ToLower(strings.TrimSpace(disease)))
	return readThrough(ctx, c, key, func(ctx context.Context) (string, error) {
		return c.next.PreventionText(ctx, disease, country)
	})
}

// Invalidate drops every cached lookup and returns how many keys were removed.
func (c *Cached) Invalidate(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.redis.Scan(ctx, cursor, cacheKeyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("knowledge: scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.redis.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("knowledge: delete cache keys: %w", err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func readThrough[T any](ctx context.Context, c *Cached, key string, load func(context.Context) (T, error)) (T, error) {
	ctx, span := c.tracer.Start(ctx, "knowledge.cache.read_through")
	defer span.End()

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(data, &v); jsonErr == nil {
			return v, nil
		}
		c.logger.Warn("knowledge: discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		span.RecordError(err)
		c.logger.Warn("knowledge: cache read failed", "key", key, "error", err)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		span.RecordError(err)
		c.logger.Warn("knowledge: cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func cacheKey(op string, parts ...string) string {
	return cacheKeyPrefix + op + ":" + strings.Join(parts, "|")
}
