package tools

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/cache"
	"github.com/mongobridge/tool-service/internal/domain/models"
)

// RegisterConnectionTools registers the connection lifecycle tools. These
// are not gated: configure, status, and disconnect must work without an
// active handle. statsCache may be nil; when present, cached server
// statistics are invalidated whenever the active connection changes.
func RegisterConnectionTools(r *Registry, connections *conn.Registry, statsCache cache.Cache, log zerolog.Logger) error {
	invalidateStats := func(ctx context.Context) {
		if statsCache == nil {
			return
		}
		if _, err := statsCache.DeletePattern(ctx, statsKeyPrefix+"*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate stats cache")
		}
	}

	toolset := []Tool{
		{
			Name:        "mongodb_configure_connection",
			Description: "Configure and establish a MongoDB connection, replacing any existing one",
			Handler: Plain(func(ctx context.Context, params json.RawMessage) (map[string]any, error) {
				var cfg models.ConnectionConfig
				if err := decodeParams(params, &cfg); err != nil {
					return nil, err
				}
				summary, err := connections.Configure(ctx, cfg)
				if err != nil {
					return nil, err
				}
				invalidateStats(ctx)
				return map[string]any{
					"message":     "connection configured",
					"connection":  summary.Connection,
					"server_info": summary.ServerInfo,
				}, nil
			}),
		},
		{
			Name:               "mongodb_test_connection",
			Description:        "Test the active MongoDB connection and return server information",
			RequiresConnection: true,
			Handler: Plain(func(ctx context.Context, params json.RawMessage) (map[string]any, error) {
				summary, err := connections.Test(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"message":     "connection is healthy",
					"server_info": summary,
				}, nil
			}),
		},
		{
			Name:        "mongodb_get_connection_status",
			Description: "Get the current connection status",
			Handler: Plain(func(ctx context.Context, params json.RawMessage) (map[string]any, error) {
				status := connections.Status(ctx)
				payload := map[string]any{"connected": status.Connected}
				if status.SanitizedURI != "" {
					payload["uri"] = status.SanitizedURI
				}
				if status.LastError != "" {
					payload["last_error"] = status.LastError
				}
				return payload, nil
			}),
		},
		{
			Name:        "mongodb_disconnect",
			Description: "Close the active MongoDB connection",
			Handler: Plain(func(ctx context.Context, params json.RawMessage) (map[string]any, error) {
				connections.Disconnect(ctx)
				invalidateStats(ctx)
				return map[string]any{"message": "disconnected"}, nil
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
