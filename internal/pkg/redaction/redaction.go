// Package redaction masks credentials and other secrets before values are
// logged or returned to a caller. Every function is total: a value that
// cannot be parsed is masked best-effort rather than failing the operation
// that wanted to log it.
package redaction

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Mask is the token substituted for secret values.
const Mask = "***"

// credentialPattern matches the "user:password@" segment of a URI and is
// the fallback when net/url cannot parse the input.
var credentialPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

// sensitiveKeys are substrings that mark a map key as secret-bearing.
var sensitiveKeys = []string{
	"password", "passwd", "pwd", "secret", "token", "key", "auth",
	"credential", "apikey", "api_key", "accesskey", "access_key",
	"privatekey", "private_key",
}

// uriKeys are map keys whose values are connection strings; their values
// are sanitized rather than masked wholesale so the host part stays
// readable in logs.
var uriKeys = map[string]bool{
	"uri":               true,
	"connection_string": true,
	"mongodb_uri":       true,
}

// SanitizeURI masks the password portion of a connection URI, preserving
// the rest byte-for-byte. URIs without credentials are returned unchanged.
func SanitizeURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.User == nil {
		return credentialPattern.ReplaceAllString(uri, "://$1:"+Mask+"@")
	}

	password, set := parsed.User.Password()
	if !set || password == "" {
		return uri
	}

	// Replace only the password segment so everything else in the URI
	// survives byte-for-byte. The decoded password may not appear verbatim
	// when it was percent-encoded; fall back to the pattern in that case.
	masked := strings.Replace(uri, ":"+password+"@", ":"+Mask+"@", 1)
	if masked == uri {
		masked = credentialPattern.ReplaceAllString(uri, "://$1:"+Mask+"@")
	}
	return masked
}

// SanitizeMap returns a copy of data with secret-bearing values masked.
// Nested maps and slices are walked recursively; keys naming a connection
// string are routed through SanitizeURI instead of blanket masking.
func SanitizeMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		keyLower := strings.ToLower(key)

		switch {
		case isSensitiveKey(keyLower):
			if value == nil || value == "" {
				sanitized[key] = value
			} else {
				sanitized[key] = Mask
			}
		case uriKeys[keyLower]:
			if s, ok := value.(string); ok {
				sanitized[key] = SanitizeURI(s)
			} else {
				sanitized[key] = value
			}
		default:
			sanitized[key] = sanitizeValue(value)
		}
	}
	return sanitized
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return SanitizeMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(keyLower string) bool {
	for _, s := range sensitiveKeys {
		if strings.Contains(keyLower, s) {
			return true
		}
	}
	return false
}

// MaskPartial returns the first showN characters of value followed by the
// mask token. Values shorter than showN are fully masked.
func MaskPartial(value string, showN int) string {
	if value == "" || showN <= 0 || len(value) <= showN {
		return Mask
	}
	return value[:showN] + Mask
}

// SanitizeParams masks connection parameters for display: password fully,
// username partially, any embedded URI via SanitizeURI. Unlike SanitizeMap
// it leaves non-credential keys (auth_source, host, ...) readable.
func SanitizeParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}

	sanitized := make(map[string]any, len(params))
	for key, value := range params {
		sanitized[key] = value
	}

	if password, ok := params["password"].(string); ok && password != "" {
		sanitized["password"] = Mask
	}
	if username, ok := params["username"].(string); ok && username != "" {
		sanitized["username"] = MaskPartial(username, 2)
	}
	for key := range uriKeys {
		if uri, ok := params[key].(string); ok && uri != "" {
			sanitized[key] = SanitizeURI(uri)
		}
	}
	return sanitized
}

// SanitizeError rewrites an error message so any credential embedded in a
// URI inside the message is masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeURI(fmt.Sprint(err))
}
