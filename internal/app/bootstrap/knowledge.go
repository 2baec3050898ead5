package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/evect-health/fulfillment/internal/config"
	"github.com/evect-health/fulfillment/internal/fulfillment"
	"github.com/evect-health/fulfillment/internal/knowledge"
	"github.com/evect-health/fulfillment/pkg/logging"
)

// Knowledge is the assembled knowledge stack for the server.
type Knowledge struct {
	Source knowledge.Source
	// Cache is nil when Redis is not configured.
	Cache *knowledge.Cached
	// Checks ping the backing services in use for GET /ready.
	Checks map[string]func(context.Context) error

	closers []func()
}

// Close releases pools and clients opened by BuildKnowledge.
func (k *Knowledge) Close() {
	for i := len(k.closers) - 1; i >= 0; i-- {
		k.closers[i]()
	}
	k.closers = nil
}

// Invalidator returns the cache as a knowledge.Invalidator, or nil.
func (k *Knowledge) Invalidator() knowledge.Invalidator {
	if k.Cache == nil {
		return nil
	}
	return k.Cache
}

// BuildKnowledge selects the backing named by KNOWLEDGE_BACKEND, adds the
// Redis read-through cache when REDIS_ADDR is set and instruments the result.
func BuildKnowledge(ctx context.Context, cfg *appconfig.Config, observer knowledge.LookupObserver, logger *logging.Logger) (*Knowledge, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	k := &Knowledge{Checks: map[string]func(context.Context) error{}}
	var source knowledge.Source

	switch cfg.KnowledgeBackend {
	case appconfig.BackendWarehouse:
		pool, err := BuildWarehousePool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		k.closers = append(k.closers, pool.Close)
		k.Checks["warehouse"] = pool.Ping
		source = knowledge.NewWarehouse(pool, cfg.KnowledgeQueryTimeout)
	case appconfig.BackendStatic, "":
		static, err := knowledge.NewEmbeddedStatic()
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load embedded dataset: %w", err)
		}
		source = static
	default:
		return nil, fmt.Errorf("bootstrap: unknown knowledge backend %q", cfg.KnowledgeBackend)
	}

	if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
		k.closers = append(k.closers, func() { _ = client.Close() })
		k.Checks["redis"] = redisPing(client)
		k.Cache = knowledge.NewCached(source, client, cfg.KnowledgeCacheTTL, logger)
		source = k.Cache
	}

	backend := cfg.KnowledgeBackend
	if backend == "" {
		backend = appconfig.BackendStatic
	}
	k.Source = knowledge.NewInstrumented(source, backend, observer)
	logger.Info("knowledge source ready", "backend", backend, "cache", k.Cache != nil)
	return k, nil
}

// BuildPolicy maps configuration onto the conversation rules.
func BuildPolicy(cfg *appconfig.Config) fulfillment.Policy {
	policy := fulfillment.DefaultPolicy()
	if cfg == nil {
		return policy
	}
	if cfg.SymptomCap > 0 {
		policy.SymptomCap = cfg.SymptomCap
	}
	policy.ExcludeRoutineVaccines = cfg.ExcludeRoutineVaccines
	policy.NormalizeDiacritics = cfg.NormalizeDiacritics
	return policy
}

func redisPing(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
