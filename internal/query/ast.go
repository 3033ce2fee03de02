// Package query parses the nested curly-brace query language into a
// Relation tree.
//
// A query is a template: literal text segments with values interpolated
// between them. Only the literal text is scanned; each interpolated value
// becomes a "?" placeholder (or a comma-joined run of them for sequences) in
// the raw SQL clause it falls in, with the value appended to that relation's
// bound variables.
//
//	users WHERE name = ${name} {
//		id
//		cars ORDER BY brand {
//			brand
//		}
//	}
package query

// Relation is a node of the query tree.
type Relation struct {
	// Type is the entity (table) name, empty for the synthetic root.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Table is the table targeted by a root mutation, when it can be
	// determined from the statement header.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`

	// SQL is the raw SQL for this level with interpolations replaced by
	// placeholders: a trailing clause for relations, the full
	// INSERT/UPDATE/REPLACE statement for a root mutation.
	SQL string `json:"sql,omitempty" yaml:"sql,omitempty"`

	// Variables are bound 1:1 to the placeholders in SQL, in source order.
	Variables []any `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Attributes are the requested column names or raw SQL expressions.
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Relations are the directly nested blocks, in declaration order.
	Relations []*Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Wildcard is the attribute selecting every property of a JSON sub-document.
const Wildcard = "*"

// IsRoot reports whether r is the synthetic root.
func (r *Relation) IsRoot() bool { return r.Type == "" }

// IsMutation reports whether r is a root INSERT/UPDATE/REPLACE.
func (r *Relation) IsMutation() bool { return r.IsRoot() && r.SQL != "" }

// HasAttribute reports whether name was requested as an attribute.
func (r *Relation) HasAttribute(name string) bool {
	for _, a := range r.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// Child returns the first nested relation with the given type, or nil.
func (r *Relation) Child(typ string) *Relation {
	for _, rel := range r.Relations {
		if rel.Type == typ {
			return rel
		}
	}
	return nil
}

// IsWildcard reports whether r selects every property: a lone "*" attribute
// and no nested relations.
func (r *Relation) IsWildcard() bool {
	return len(r.Relations) == 0 && len(r.Attributes) == 1 && r.Attributes[0] == Wildcard
}

func (r *Relation) addAttribute(name string) {
	if !r.HasAttribute(name) {
		r.Attributes = append(r.Attributes, name)
	}
}
