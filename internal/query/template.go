package query

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultMarker separates literal segments when a template is written as a
// single string, e.g. on the command line.
const DefaultMarker = "${}"

// Template is a query split into literal segments with values interpolated
// between consecutive segments.
type Template struct {
	Segments []string
	Values   []any
}

// Interpolation is a value and its offset in the literal-only text.
type Interpolation struct {
	Value  any
	Offset int
}

// Text returns a template with no interpolations.
func Text(s string) Template {
	return Template{Segments: []string{s}}
}

// New returns a template from literal segments and the values between them.
func New(segments []string, values ...any) Template {
	return Template{Segments: segments, Values: values}
}

// Split builds a template from text containing marker once per value.
func Split(text, marker string, values ...any) (Template, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	segments := strings.Split(text, marker)
	if len(segments) != len(values)+1 {
		return Template{}, fmt.Errorf("query has %d %s markers but %d values were given",
			len(segments)-1, marker, len(values))
	}
	return Template{Segments: segments, Values: values}, nil
}

// Literal returns the concatenation of the literal segments.
func (t Template) Literal() string {
	return strings.Join(t.Segments, "")
}

// Interpolations returns the values with their offsets in the literal text.
// The offset of a value is the total length of the segments before it.
func (t Template) Interpolations() ([]Interpolation, error) {
	if len(t.Values) == 0 {
		return nil, nil
	}
	if len(t.Segments) != len(t.Values)+1 {
		return nil, fmt.Errorf("template has %d segments for %d values", len(t.Segments), len(t.Values))
	}

	out := make([]Interpolation, len(t.Values))
	offset := 0
	for i, v := range t.Values {
		offset += len(t.Segments[i])
		out[i] = Interpolation{Value: v, Offset: offset}
	}
	return out, nil
}

// sequence returns the elements of v when it is a slice or array other than
// a byte slice.
func sequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
