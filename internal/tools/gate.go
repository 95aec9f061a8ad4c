package tools

import (
	"context"
	"encoding/json"

	"github.com/mongobridge/tool-service/internal/conn"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

// Gated wraps an operation that needs an active connection. The returned
// handler resolves readiness by handle presence alone: no handle means an
// error envelope with a remediation suggestion, and the operation body is
// never entered. Operation errors become error envelopes.
func Gated(registry *conn.Registry, fn func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error)) Handler {
	return func(ctx context.Context, params json.RawMessage) Result {
		handle := registry.Active()
		if handle == nil {
			return Failure(domainerrors.NewNotConfiguredError())
		}
		payload, err := fn(ctx, handle, params)
		if err != nil {
			return Failure(err)
		}
		return Success(payload)
	}
}

// Plain wraps an operation that works without a connection, applying the
// same envelope normalization as Gated.
func Plain(fn func(ctx context.Context, params json.RawMessage) (map[string]any, error)) Handler {
	return func(ctx context.Context, params json.RawMessage) Result {
		payload, err := fn(ctx, params)
		if err != nil {
			return Failure(err)
		}
		return Success(payload)
	}
}
