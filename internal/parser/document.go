package parser

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Document is one decoded JSON object from the raw archive. No schema is
// enforced upstream: any key may be absent or carry an unexpected type, so
// all field access goes through the lenient accessors below.
type Document map[string]any

// ErrNotAnObject signals caller misuse: the payload handed to the decoder was
// not the expected JSON shape. Data-shape problems inside a valid document
// never produce an error.
var ErrNotAnObject = errors.New("raw document is not a JSON object")

// DecodeDocument decodes a raw submission payload.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("[Parser] %w: %v", ErrNotAnObject, err)
	}
	return doc, nil
}

// DecodeForest decodes a raw comments payload: a JSON array of root comment
// objects, each with arbitrarily nested replies.
func DecodeForest(data []byte) ([]Document, error) {
	var forest []Document
	if err := json.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("[Parser] %w: %v", ErrNotAnObject, err)
	}
	return forest, nil
}

func (d Document) stringOr(key, def string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return def
}

func (d Document) intOr(key string, def int) int {
	switch v := d[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

func (d Document) int64Or(key string, def int64) int64 {
	switch v := d[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return def
}

func (d Document) floatOr(key string, def float64) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func (d Document) boolOr(key string, def bool) bool {
	if v, ok := d[key].(bool); ok {
		return v
	}
	return def
}

// optionalFloat distinguishes "known zero" from "not present": it returns nil
// when the key is absent or not numeric.
func (d Document) optionalFloat(key string) *float64 {
	switch v := d[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

// child returns the nested object at key, or nil. Accessors are safe to call
// on a nil Document, so lookups chain without intermediate checks.
func (d Document) child(key string) Document {
	switch v := d[key].(type) {
	case map[string]any:
		return Document(v)
	case Document:
		return v
	}
	return nil
}

func (d Document) list(key string) []any {
	if v, ok := d[key].([]any); ok {
		return v
	}
	return nil
}
