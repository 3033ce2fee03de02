package executor

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/store"
)

// Filter projects a decoded JSON value onto rel. Objects keep the keys rel
// lists as attributes plus the keys of nested relations, which are filtered
// recursively. Arrays are filtered element by element and other values are
// returned unchanged.
//
// Objects may be *store.Row, which keeps the source key order, or plain
// maps.
//
// A lone "*" attribute keeps every key, unless the object itself has a
// non-null "*" property; then "*" is an ordinary key.
func Filter(value any, rel *query.Relation) any {
	if list, ok := value.([]any); ok {
		out := make([]any, len(list))
		for i, elem := range list {
			out[i] = filterObject(elem, rel)
		}
		return out
	}
	return filterObject(value, rel)
}

func filterObject(value any, rel *query.Relation) any {
	switch obj := value.(type) {
	case *store.Row:
		if obj == nil {
			return value
		}
		if star, _ := obj.Get(query.Wildcard); rel.IsWildcard() && star == nil {
			return obj
		}
		out := store.NewRow()
		for _, key := range obj.Keys() {
			v, _ := obj.Get(key)
			if rel.HasAttribute(key) {
				out.Set(key, v)
			} else if child := rel.Child(key); child != nil {
				out.Set(key, Filter(v, child))
			}
		}
		return out
	case map[string]any:
		if rel.IsWildcard() && obj[query.Wildcard] == nil {
			return obj
		}
		out := make(map[string]any)
		for key, v := range obj {
			if rel.HasAttribute(key) {
				out[key] = v
				continue
			}
			if child := rel.Child(key); child != nil {
				out[key] = Filter(v, child)
			}
		}
		return out
	default:
		return value
	}
}

// decodeDocument decodes JSON text, keeping object keys in source order:
// objects become *store.Row, arrays []any, numbers float64.
func decodeDocument(data []byte) (any, error) {
	var raw jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	iter := json.BorrowIterator(data)
	defer json.ReturnIterator(iter)

	v := readOrdered(iter)
	if iter.Error != nil {
		return nil, iter.Error
	}
	return v, nil
}

func readOrdered(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		row := store.NewRow()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			row.Set(key, readOrdered(it))
			return it.Error == nil
		})
		return row
	case jsoniter.ArrayValue:
		list := []any{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			list = append(list, readOrdered(it))
			return it.Error == nil
		})
		return list
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return iter.ReadFloat64()
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		iter.ReportError("decode document", "unexpected value")
		return nil
	}
}
