// Package validation checks caller-supplied names and payloads against
// MongoDB's documented constraints. Validation failures are raised here,
// at the input boundary, so invalid input never reaches the driver.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/domain/models"
)

const (
	maxDatabaseNameLength   = 64
	maxCollectionNameLength = 120
	maxDocumentBytes        = 15 * 1024 * 1024 // headroom under MongoDB's 16MB ceiling
	maxPipelineStages       = 100
	maxListLimit            = 1000
)

// invalidDatabaseChars are forbidden in MongoDB database names.
var invalidDatabaseChars = []string{"/", "\\", ".", " ", "\"", "$"}

// validIndexDirections are the index key directions MongoDB accepts.
var validIndexDirections = map[string]bool{
	"1": true, "-1": true, "2d": true, "2dsphere": true, "text": true, "hashed": true,
}

// DatabaseName validates a database name: 1-64 characters, no forbidden
// characters, not one of the reserved system databases. The name is passed
// to the driver exactly as given, so surrounding whitespace is an error
// rather than silently trimmed.
func DatabaseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domainerrors.NewValidationError("database name cannot be empty")
	}
	if name != strings.TrimSpace(name) {
		return domainerrors.NewValidationError("database name cannot have leading or trailing whitespace")
	}
	if len(name) > maxDatabaseNameLength {
		return domainerrors.NewValidationError(
			fmt.Sprintf("database name cannot exceed %d characters", maxDatabaseNameLength))
	}
	for _, c := range invalidDatabaseChars {
		if strings.Contains(name, c) {
			return domainerrors.NewValidationError(
				fmt.Sprintf("database name cannot contain '%s'", c))
		}
	}
	if models.IsSystemDatabase(strings.ToLower(name)) {
		return domainerrors.NewValidationError(
			fmt.Sprintf("database name '%s' is reserved", name))
	}
	return nil
}

// CollectionName validates a collection name: 1-120 characters, no
// 'system.' prefix, no '$', no surrounding whitespace.
func CollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domainerrors.NewValidationError("collection name cannot be empty")
	}
	if name != strings.TrimSpace(name) {
		return domainerrors.NewValidationError("collection name cannot have leading or trailing whitespace")
	}
	if len(name) > maxCollectionNameLength {
		return domainerrors.NewValidationError(
			fmt.Sprintf("collection name cannot exceed %d characters", maxCollectionNameLength))
	}
	if strings.HasPrefix(name, "system.") {
		return domainerrors.NewValidationError("collection name cannot start with 'system.'")
	}
	if strings.Contains(name, "$") {
		return domainerrors.NewValidationError("collection name cannot contain '$'")
	}
	return nil
}

// FieldName validates a document field used as a lookup key.
func FieldName(field string) error {
	if strings.TrimSpace(field) == "" {
		return domainerrors.NewValidationError("field name cannot be empty")
	}
	if field != strings.TrimSpace(field) {
		return domainerrors.NewValidationError("field name cannot have leading or trailing whitespace")
	}
	if len(field) > 100 {
		return domainerrors.NewValidationError("field name cannot exceed 100 characters")
	}
	return nil
}

// Document validates a document payload: non-empty and within the size
// ceiling.
func Document(document map[string]any) error {
	if len(document) == 0 {
		return domainerrors.NewValidationError("document cannot be empty")
	}
	raw, err := json.Marshal(document)
	if err != nil {
		return domainerrors.NewValidationError(fmt.Sprintf("document is not serializable: %v", err))
	}
	if len(raw) > maxDocumentBytes {
		return domainerrors.NewValidationError("document too large (limit: ~15MB)")
	}
	return nil
}

// Pipeline validates an aggregation pipeline: 1-100 stages, each keyed by
// at least one '$' operator.
func Pipeline(pipeline []map[string]any) error {
	if len(pipeline) == 0 {
		return domainerrors.NewValidationError("pipeline cannot be empty")
	}
	if len(pipeline) > maxPipelineStages {
		return domainerrors.NewValidationError(
			fmt.Sprintf("pipeline cannot exceed %d stages", maxPipelineStages))
	}
	for i, stage := range pipeline {
		if len(stage) == 0 {
			return domainerrors.NewValidationError(fmt.Sprintf("pipeline stage %d is empty", i))
		}
		hasOperator := false
		for op := range stage {
			if strings.HasPrefix(op, "$") {
				hasOperator = true
				break
			}
		}
		if !hasOperator {
			return domainerrors.NewValidationError(
				fmt.Sprintf("pipeline stage %d must contain an aggregation operator ($match, $group, ...)", i))
		}
	}
	return nil
}

// IndexKeys validates index key specifications: non-empty field names with
// a recognized direction.
func IndexKeys(keys []models.IndexKey) error {
	if len(keys) == 0 {
		return domainerrors.NewValidationError("index keys cannot be empty")
	}
	for _, key := range keys {
		if strings.TrimSpace(key.Field) == "" {
			return domainerrors.NewValidationError("index key field cannot be empty")
		}
		if !validIndexDirections[fmt.Sprint(key.Direction)] {
			return domainerrors.NewValidationError(
				fmt.Sprintf("invalid index direction '%v' for field '%s' (use 1, -1, 2d, 2dsphere, text, hashed)",
					key.Direction, key.Field))
		}
	}
	return nil
}

// Limit clamps a result limit into [1, maxListLimit], defaulting when
// unset.
func Limit(limit, defaultLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
