package tools

import (
	"context"
	"encoding/json"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/domain/validation"
)

const defaultListLimit = 20

// documentParams covers the document tools. Single-document operations
// identify their target by one field/value pair.
type documentParams struct {
	DatabaseName   string         `json:"database_name"`
	CollectionName string         `json:"collection_name"`
	Field          string         `json:"field"`
	Value          any            `json:"value"`
	Document       map[string]any `json:"document"`
	Update         map[string]any `json:"update"`
	Limit          int            `json:"limit"`
}

func (p *documentParams) validateNames() error {
	if err := validation.DatabaseName(p.DatabaseName); err != nil {
		return err
	}
	return validation.CollectionName(p.CollectionName)
}

func (p *documentParams) targetFilter() (map[string]any, error) {
	if err := validation.FieldName(p.Field); err != nil {
		return nil, err
	}
	return map[string]any{p.Field: p.Value}, nil
}

func (p *documentParams) collection(client docdb.Client) docdb.Collection {
	return client.Database(p.DatabaseName).Collection(p.CollectionName)
}

// RegisterDocumentTools registers the document-level tools.
func RegisterDocumentTools(r *Registry, connections *conn.Registry) error {
	toolset := []Tool{
		{
			Name:               "mongodb_list_documents",
			Description:        "List documents from a collection up to a limit",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p documentParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				limit := validation.Limit(p.Limit, defaultListLimit)
				docs, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]map[string]any, error) {
					return p.collection(client).Find(ctx, nil, int64(limit))
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("list_documents", err)
				}
				return map[string]any{"documents": docs, "count": len(docs), "limit": limit}, nil
			}),
		},
		{
			Name:               "mongodb_get_document",
			Description:        "Get one document matching a field/value pair",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p documentParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				filter, err := p.targetFilter()
				if err != nil {
					return nil, err
				}
				doc, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
					return p.collection(client).FindOne(ctx, filter)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("get_document", err)
				}
				if doc == nil {
					return nil, domainerrors.NewNotFoundError("document")
				}
				return map[string]any{"document": doc}, nil
			}),
		},
		{
			Name:               "mongodb_insert_document",
			Description:        "Insert one document into a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p documentParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := validation.Document(p.Document); err != nil {
					return nil, err
				}
				id, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (string, error) {
					return p.collection(client).InsertOne(ctx, p.Document)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("insert_document", err)
				}
				return map[string]any{"inserted_id": id}, nil
			}),
		},
		{
			Name:               "mongodb_update_document",
			Description:        "Update one document matching a field/value pair",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p documentParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				filter, err := p.targetFilter()
				if err != nil {
					return nil, err
				}
				if err := validation.Document(p.Update); err != nil {
					return nil, err
				}
				result, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (*docdb.UpdateResult, error) {
					return p.collection(client).UpdateOne(ctx, filter, p.Update)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("update_document", err)
				}
				if result.MatchedCount == 0 {
					return nil, domainerrors.NewNotFoundError("document")
				}
				return map[string]any{
					"matched_count":  result.MatchedCount,
					"modified_count": result.ModifiedCount,
				}, nil
			}),
		},
		{
			Name:               "mongodb_delete_document",
			Description:        "Delete one document matching a field/value pair",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p documentParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				filter, err := p.targetFilter()
				if err != nil {
					return nil, err
				}
				result, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (*docdb.DeleteResult, error) {
					return p.collection(client).DeleteOne(ctx, filter)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("delete_document", err)
				}
				if result.DeletedCount == 0 {
					return nil, domainerrors.NewNotFoundError("document")
				}
				return map[string]any{"deleted_count": result.DeletedCount}, nil
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
