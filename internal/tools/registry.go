package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

// Handler executes one tool invocation. Implementations must return a
// well-formed envelope on every path; panics are caught by the registry.
type Handler func(ctx context.Context, params json.RawMessage) Result

// Tool is one named operation in the catalogue.
type Tool struct {
	Name               string
	Description        string
	RequiresConnection bool
	Handler            Handler
}

// Info is the catalogue listing entry for one tool.
type Info struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	RequiresConnection bool   `json:"requires_connection"`
}

// Registry holds the tool catalogue. Registration happens once at startup;
// lookups and invocations are concurrent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	log   zerolog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		tools: make(map[string]Tool),
		log:   log.With().Str("component", "tool_registry").Logger(),
	}
}

// Register adds a tool to the catalogue. A duplicate name is an error, not
// a silent replacement.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool '%s' has no handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool '%s' is already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Has reports whether the named tool exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// List returns the catalogue sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.tools))
	for _, tool := range r.tools {
		infos = append(infos, Info{
			Name:               tool.Name,
			Description:        tool.Description,
			RequiresConnection: tool.RequiresConnection,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Invoke runs the named tool and always returns an envelope: unknown tools,
// handler errors, and handler panics all normalize to error envelopes.
func (r *Registry) Invoke(ctx context.Context, name string, params json.RawMessage) (result Result) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return Failure(domainerrors.NewNotFoundError(fmt.Sprintf("tool '%s'", name)))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("tool", name).Interface("panic", rec).
				Msg("tool handler panicked")
			result = Failure(domainerrors.NewOperationError(name, fmt.Errorf("internal error: %v", rec)))
		}
	}()

	r.log.Debug().Str("tool", name).Msg("invoking tool")
	return tool.Handler(ctx, params)
}

// decodeParams unmarshals the raw invocation arguments into v. Absent or
// empty parameters leave v at its zero value.
func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return domainerrors.NewValidationError(fmt.Sprintf("invalid parameters: %v", err))
	}
	return nil
}
