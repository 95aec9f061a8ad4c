package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/domain/models"
	"github.com/mongobridge/tool-service/internal/domain/validation"
)

type indexParams struct {
	DatabaseName   string            `json:"database_name"`
	CollectionName string            `json:"collection_name"`
	Keys           []models.IndexKey `json:"keys"`
	Name           string            `json:"name"`
	Unique         bool              `json:"unique"`
	IndexName      string            `json:"index_name"`
}

func (p *indexParams) validateNames() error {
	if err := validation.DatabaseName(p.DatabaseName); err != nil {
		return err
	}
	return validation.CollectionName(p.CollectionName)
}

// RegisterIndexTools registers the index management tools.
func RegisterIndexTools(r *Registry, connections *conn.Registry) error {
	toolset := []Tool{
		{
			Name:               "mongodb_list_indexes",
			Description:        "List the indexes of a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p indexParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := requireCollection(ctx, h, p.DatabaseName, p.CollectionName); err != nil {
					return nil, err
				}
				indexes, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]map[string]any, error) {
					return client.Database(p.DatabaseName).Collection(p.CollectionName).ListIndexes(ctx)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("list_indexes", err)
				}
				return map[string]any{"indexes": indexes, "count": len(indexes)}, nil
			}),
		},
		{
			Name:               "mongodb_create_index",
			Description:        "Create an index on a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p indexParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := validation.IndexKeys(p.Keys); err != nil {
					return nil, err
				}
				name, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (string, error) {
					return client.Database(p.DatabaseName).Collection(p.CollectionName).
						CreateIndex(ctx, p.Keys, p.Name, p.Unique)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("create_index", err)
				}
				return map[string]any{"index_name": name}, nil
			}),
		},
		{
			Name:               "mongodb_drop_index",
			Description:        "Drop an index from a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p indexParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if p.IndexName == "" {
					return nil, domainerrors.NewValidationError("index_name is required")
				}
				if p.IndexName == "_id_" {
					return nil, domainerrors.NewValidationError("the default _id_ index cannot be dropped")
				}
				err := h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
					return client.Database(p.DatabaseName).Collection(p.CollectionName).DropIndex(ctx, p.IndexName)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("drop_index", err)
				}
				return map[string]any{
					"message": fmt.Sprintf("index '%s' dropped", p.IndexName),
				}, nil
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
