package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/cache"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

const statsKeyPrefix = "stats:"

// RegisterStatsTools registers the server statistics tools. statsCache may
// be nil, in which case every call hits the server; when present, derived
// health and performance summaries are cached under statsKeyPrefix for ttl.
func RegisterStatsTools(r *Registry, connections *conn.Registry, statsCache cache.Cache, ttl time.Duration, log zerolog.Logger) error {
	// cached wraps a payload producer with a read-through cache. Cache
	// failures degrade to a direct read, never to an error.
	cached := func(key string, fn func(ctx context.Context, h *conn.Handle) (map[string]any, error)) func(ctx context.Context, h *conn.Handle) (map[string]any, error) {
		if statsCache == nil {
			return fn
		}
		fullKey := statsKeyPrefix + key
		return func(ctx context.Context, h *conn.Handle) (map[string]any, error) {
			if raw, err := statsCache.Get(ctx, fullKey); err == nil && raw != nil {
				var payload map[string]any
				if err := json.Unmarshal(raw, &payload); err == nil {
					return payload, nil
				}
			}

			payload, err := fn(ctx, h)
			if err != nil {
				return nil, err
			}

			if raw, err := json.Marshal(payload); err == nil {
				if err := statsCache.Set(ctx, fullKey, raw, ttl); err != nil {
					log.Warn().Err(err).Str("key", fullKey).Msg("failed to cache stats payload")
				}
			}
			return payload, nil
		}
	}

	serverHealth := cached("health", func(ctx context.Context, h *conn.Handle) (map[string]any, error) {
		status, err := h.ServerStatus(ctx)
		if err != nil {
			return nil, domainerrors.NewOperationError("get_server_health", err)
		}
		return map[string]any{"health": status.Health()}, nil
	})

	performance := cached("performance", func(ctx context.Context, h *conn.Handle) (map[string]any, error) {
		status, err := h.ServerStatus(ctx)
		if err != nil {
			return nil, domainerrors.NewOperationError("get_performance_metrics", err)
		}
		return map[string]any{"metrics": status.Performance()}, nil
	})

	toolset := []Tool{
		{
			Name:               "mongodb_get_server_status",
			Description:        "Get the raw server status: version, uptime, connections, memory, opcounters",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				status, err := h.ServerStatus(ctx)
				if err != nil {
					return nil, domainerrors.NewOperationError("get_server_status", err)
				}
				return map[string]any{"server_status": status}, nil
			}),
		},
		{
			Name:               "mongodb_get_system_stats",
			Description:        "Get aggregated statistics across all user databases",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				stats, err := h.SystemStats(ctx)
				if err != nil {
					return nil, domainerrors.NewOperationError("get_system_stats", err)
				}
				return map[string]any{"system_stats": stats}, nil
			}),
		},
		{
			Name:               "mongodb_get_server_health",
			Description:        "Get a derived server health summary: uptime, connection load, memory",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				return serverHealth(ctx, h)
			}),
		},
		{
			Name:               "mongodb_get_performance_metrics",
			Description:        "Get derived throughput metrics: opcounters, network, operations per hour",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				return performance(ctx, h)
			}),
		},
	}

	for _, tool := range toolset {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
