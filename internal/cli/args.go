package cli

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/subhero24/sql-graph-query/internal/query"
)

var argDecoder = jsoniter.Config{UseNumber: true}.Froze()

// parseArgValues decodes each --arg as JSON so numbers, booleans, null and
// arrays keep their type; anything that is not valid JSON binds as the raw
// string. JSON arrays become sequence interpolations.
func parseArgValues(raw []string) []any {
	values := make([]any, 0, len(raw))
	for _, s := range raw {
		var v any
		if err := argDecoder.UnmarshalFromString(s, &v); err != nil {
			values = append(values, s)
			continue
		}
		values = append(values, normalizeNumbers(v))
	}
	return values
}

func normalizeNumbers(v any) any {
	if s, ok := jsoniter.CastJsonNumber(v); ok {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	}

	switch v := v.(type) {
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeNumbers(v[k])
		}
		return v
	}
	return v
}

// buildTemplates splits every block on marker, handing out values in order:
// each block takes as many values as it has markers.
func buildTemplates(blocks []string, marker string, values []any) ([]query.Template, error) {
	marker = markerOrDefault(marker)

	templates := make([]query.Template, 0, len(blocks))
	next := 0
	for i, block := range blocks {
		n := strings.Count(block, marker)
		if next+n > len(values) {
			return nil, fmt.Errorf("block %d has %d %s markers but only %d values remain", i+1, n, marker, len(values)-next)
		}
		t, err := query.Split(block, marker, values[next:next+n]...)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
		next += n
	}
	if next != len(values) {
		return nil, fmt.Errorf("%d values given but the query has %d %s markers", len(values), next, marker)
	}
	return templates, nil
}

func markerOrDefault(marker string) string {
	if marker == "" {
		return query.DefaultMarker
	}
	return marker
}
