package store

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Row is a single result row. Values keep their projection order; shadow
// columns are fetched to correlate child relations but are excluded from
// Keys, Public and the JSON/YAML encodings.
type Row struct {
	keys   []string
	values map[string]any
	shadow map[string]bool
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// Set assigns a value, appending the key if it is new.
func (r *Row) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key, shadow or not.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether the row carries key, shadow or not.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Hide marks keys as shadow columns. Keys the row does not carry are ignored.
func (r *Row) Hide(keys ...string) {
	for _, key := range keys {
		if !r.Has(key) {
			continue
		}
		if r.shadow == nil {
			r.shadow = make(map[string]bool)
		}
		r.shadow[key] = true
	}
}

// IsShadow reports whether key is hidden from the public shape.
func (r *Row) IsShadow(key string) bool {
	return r.shadow[key]
}

// Keys returns the public keys in order.
func (r *Row) Keys() []string {
	out := make([]string, 0, len(r.keys))
	for _, key := range r.keys {
		if !r.shadow[key] {
			out = append(out, key)
		}
	}
	return out
}

// Public converts the row and any nested rows into plain maps and slices
// holding only public keys.
func (r *Row) Public() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, key := range r.Keys() {
		out[key] = PublicValue(r.values[key])
	}
	return out
}

// PublicValue applies Row.Public to rows nested anywhere in v.
func PublicValue(v any) any {
	switch v := v.(type) {
	case *Row:
		if v == nil {
			return nil
		}
		return v.Public()
	case []*Row:
		out := make([]any, len(v))
		for i, row := range v {
			out[i] = PublicValue(row)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = PublicValue(elem)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the public keys in projection order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the public keys in projection order.
func (r *Row) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range r.Keys() {
		var value yaml.Node
		if err := value.Encode(r.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}
	return node, nil
}
