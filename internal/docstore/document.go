package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned on operations against a closed store or watcher.
	ErrClosed = errors.New("docstore closed")
)

// Document is one record of a collection. ID lives outside Data so the
// same payload can be addressed under different identities.
type Document struct {
	ID   string
	Data map[string]any
}

// Decode unmarshals the document payload into v.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// Encode converts an entity into a document payload.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}

// DecodeAll decodes every document of a snapshot into T.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Op identifies the kind of change behind a notification.
type Op string

const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
)

// Event is a change notification for one document.
type Event struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Op         Op     `json:"op"`
}

// FilterOp is a comparison operator of a query filter.
type FilterOp string

const (
	OpEq       FilterOp = "=="
	OpLte      FilterOp = "<="
	OpGte      FilterOp = ">="
	OpContains FilterOp = "array-contains"
)

// Filter constrains a query on one field.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Where builds a query filter.
func Where(field string, op FilterOp, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Matches reports whether a document satisfies every filter. Values are
// compared in their JSON shapes: numbers as float64, times as RFC3339
// strings (which order lexicographically).
func Matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		if !matchField(doc.Data[f.Field], f) {
			return false
		}
	}
	return true
}

func matchField(have any, f Filter) bool {
	switch f.Op {
	case OpEq:
		return compare(have, f.Value) == 0
	case OpLte:
		return have != nil && compare(have, f.Value) <= 0
	case OpGte:
		return have != nil && compare(have, f.Value) >= 0
	case OpContains:
		arr, ok := have.([]any)
		if !ok {
			return false
		}
		for _, el := range arr {
			if compare(el, f.Value) == 0 {
				return true
			}
		}
		return false
	}
	return false
}

// compare normalizes both sides to JSON scalar shapes before comparing.
func compare(a, b any) int {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(asString(a), asString(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
