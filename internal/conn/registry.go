package conn

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mongobridge/tool-service/internal/core/docdb"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/domain/models"
	"github.com/mongobridge/tool-service/internal/pkg/redaction"
)

// Registry owns the process's single active connection handle. All handle
// access goes through it; presence of a handle is the authoritative
// readiness signal, the stored status is display state derived from it.
type Registry struct {
	mu     sync.RWMutex
	dial   docdb.Dialer
	log    zerolog.Logger
	handle *Handle
	status models.ConnectionStatus
}

// NewRegistry creates a registry with no active handle.
func NewRegistry(dial docdb.Dialer, log zerolog.Logger) *Registry {
	return &Registry{
		dial: dial,
		log:  log.With().Str("component", "conn_registry").Logger(),
	}
}

// Active returns the current handle, or nil when none is configured.
func (r *Registry) Active() *Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handle
}

// Configure establishes a new connection and installs it as the active
// handle. The new connection is dialed and ping-tested BEFORE the existing
// handle is touched: if anything fails, the old handle stays active. Only
// after the replacement is proven live is the old handle swapped out and
// closed.
func (r *Registry) Configure(ctx context.Context, cfg models.ConnectionConfig) (*models.ConnectionSummary, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, domainerrors.NewValidationError(err.Error())
	}

	uri := BuildURI(cfg)
	sanitized := redaction.SanitizeURI(uri)

	r.log.Info().Str("uri", sanitized).Int("max_pool_size", cfg.MaxPoolSize).
		Msg("configuring connection")

	client, err := r.dial(ctx, uri, uint64(cfg.MaxPoolSize))
	if err != nil {
		return nil, r.connectionFailed(sanitized, err)
	}

	if err := client.Ping(ctx); err != nil {
		if closeErr := client.Close(ctx); closeErr != nil {
			r.log.Warn().Str("error", redaction.SanitizeError(closeErr)).
				Msg("failed to close rejected connection")
		}
		return nil, r.connectionFailed(sanitized, err)
	}

	handle := NewHandle(client, cfg.MaxPoolSize, sanitized)

	r.mu.Lock()
	old := r.handle
	r.handle = handle
	r.status = models.ConnectionStatus{Connected: true, SanitizedURI: sanitized}
	r.mu.Unlock()

	if old != nil {
		if err := old.Close(ctx); err != nil {
			r.log.Warn().Str("error", redaction.SanitizeError(err)).
				Msg("failed to close previous connection")
		}
	}

	summary := &models.ConnectionSummary{
		Connection: redaction.SanitizeParams(map[string]any{
			"host":          cfg.Host,
			"port":          cfg.Port,
			"username":      cfg.Username,
			"password":      cfg.Password,
			"auth_source":   cfg.AuthSource,
			"database":      cfg.Database,
			"max_pool_size": cfg.MaxPoolSize,
			"uri":           uri,
		}),
	}

	// Server info on the summary is best-effort.
	if info, err := handle.ServerSummary(ctx); err != nil {
		r.log.Warn().Str("error", redaction.SanitizeError(err)).
			Msg("connected but failed to read server info")
	} else {
		summary.ServerInfo = info
	}

	r.log.Info().Str("uri", sanitized).Msg("connection configured")
	return summary, nil
}

// connectionFailed records the failure on the display status without
// touching the active handle, and returns a credential-free domain error.
func (r *Registry) connectionFailed(sanitizedURI string, err error) error {
	message := redaction.SanitizeError(err)

	r.mu.Lock()
	r.status.LastError = message
	r.mu.Unlock()

	r.log.Error().Str("uri", sanitizedURI).Str("error", message).
		Msg("connection attempt failed")
	return domainerrors.NewConnectionError(
		fmt.Sprintf("failed to connect to %s: %s", sanitizedURI, message), err)
}

// Test pings the active connection. A failed ping marks the status
// disconnected but keeps the handle installed, so a recovered server works
// again without reconfiguring.
func (r *Registry) Test(ctx context.Context) (*models.ServerSummary, error) {
	handle := r.Active()
	if handle == nil {
		return nil, domainerrors.NewNotConfiguredError()
	}

	if err := handle.Ping(ctx); err != nil {
		message := redaction.SanitizeError(err)
		r.mu.Lock()
		r.status.Connected = false
		r.status.LastError = message
		r.mu.Unlock()

		r.log.Warn().Str("error", message).Msg("connection test failed")
		return nil, domainerrors.NewConnectionError(
			fmt.Sprintf("connection test failed: %s", message), err)
	}

	r.mu.Lock()
	r.status.Connected = true
	r.status.LastError = ""
	r.mu.Unlock()

	// The summary is decoration on a successful ping. Restricted accounts
	// can ping but not run serverStatus; the test still succeeds, with the
	// summary reduced to what the ping proved.
	summary, err := handle.ServerSummary(ctx)
	if err != nil {
		r.log.Warn().Str("error", redaction.SanitizeError(err)).
			Msg("ping succeeded but server summary failed")
		return &models.ServerSummary{}, nil
	}
	return summary, nil
}

// Status returns the connection state, re-checked live when a handle is
// present.
func (r *Registry) Status(ctx context.Context) models.ConnectionStatus {
	handle := r.Active()
	if handle == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return models.ConnectionStatus{Connected: false, LastError: r.status.LastError}
	}

	connected := true
	lastError := ""
	if err := handle.Ping(ctx); err != nil {
		connected = false
		lastError = redaction.SanitizeError(err)
	}

	r.mu.Lock()
	r.status.Connected = connected
	r.status.LastError = lastError
	status := r.status
	r.mu.Unlock()
	return status
}

// Disconnect closes and removes the active handle. Calling it with no
// handle is a no-op.
func (r *Registry) Disconnect(ctx context.Context) {
	r.mu.Lock()
	handle := r.handle
	r.handle = nil
	r.status = models.ConnectionStatus{}
	r.mu.Unlock()

	if handle == nil {
		return
	}
	if err := handle.Close(ctx); err != nil {
		r.log.Warn().Str("error", redaction.SanitizeError(err)).
			Msg("error closing connection on disconnect")
	} else {
		r.log.Info().Msg("disconnected")
	}
}
