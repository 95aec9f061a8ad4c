// Package tools implements the tool catalogue: the registry of named
// operations, the connection gate, and the handlers themselves. Every
// handler returns a uniform result envelope; faults never escape to the
// transport.
package tools

import (
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/pkg/redaction"
)

// Result is the envelope returned by every tool invocation. It always
// carries status "success" or "error"; payload fields on success, error
// plus optional code and suggestion on failure.
type Result map[string]any

// Success builds a success envelope around the payload fields.
func Success(payload map[string]any) Result {
	out := Result{"status": "success"}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// Failure builds an error envelope. Domain errors contribute their code and
// suggestion; anything else is redacted and reported as an operation
// failure.
func Failure(err error) Result {
	out := Result{"status": "error"}
	if domainErr, ok := domainerrors.GetDomainError(err); ok {
		out["error"] = domainErr.Message
		out["code"] = domainErr.Code
		if domainErr.Suggestion != "" {
			out["suggestion"] = domainErr.Suggestion
		}
		return out
	}
	out["error"] = redaction.SanitizeError(err)
	out["code"] = domainerrors.ErrCodeOperationFailed
	return out
}

// IsSuccess reports whether the result is a success envelope.
func (r Result) IsSuccess() bool {
	return r["status"] == "success"
}
