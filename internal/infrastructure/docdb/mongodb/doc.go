package mongodb

import "go.mongodb.org/mongo-driver/bson"

// normalizeDoc converts a decoded BSON document to plain nested
// map[string]any / []any values. The driver decodes sub-documents as
// primitive.M, which callers outside this package cannot type-assert.
func normalizeDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeDoc(val)
	case map[string]any:
		return normalizeDoc(val)
	case bson.A:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = normalizeValue(item)
		}
		return items
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = normalizeValue(item)
		}
		return items
	default:
		return v
	}
}
