// Package conn manages the connection lifecycle: building URIs, wrapping a
// live client in a pooled handle, and the process-wide registry that owns
// the single active handle.
package conn

import (
	"fmt"
	"net/url"

	"github.com/mongobridge/tool-service/internal/domain/models"
)

// BuildURI assembles the connection URI from a normalized config. With
// credentials, the auth source rides as a query parameter and the default
// database is omitted; without credentials, the database becomes the URI
// path. Username and password are percent-encoded.
func BuildURI(cfg models.ConnectionConfig) string {
	if cfg.Username != "" && cfg.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/?authSource=%s",
			url.QueryEscape(cfg.Username),
			url.QueryEscape(cfg.Password),
			cfg.Host, cfg.Port, url.QueryEscape(cfg.AuthSource))
	}
	if cfg.Database != "" {
		return fmt.Sprintf("mongodb://%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	}
	return fmt.Sprintf("mongodb://%s:%d", cfg.Host, cfg.Port)
}
