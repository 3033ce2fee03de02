package schema

import (
	"errors"
	"fmt"
	"strings"
)

// RelationErrorKind classifies why a relation could not be resolved.
type RelationErrorKind int

const (
	// NotFound means no foreign key joins the two tables.
	NotFound RelationErrorKind = iota + 1
	// Ambiguous means more than one foreign key joins the two tables.
	Ambiguous
)

// Sentinels for errors.Is.
var (
	ErrRelationNotFound  = errors.New("relation not found")
	ErrRelationAmbiguous = errors.New("relation ambiguous")
)

// RelationError reports a child relation whose join could not be resolved
// from foreign key metadata.
type RelationError struct {
	Kind RelationErrorKind
	From string
	To   string

	// Candidates lists the competing foreign key columns when Kind is
	// Ambiguous.
	Candidates []string
}

func (e *RelationError) Error() string {
	switch e.Kind {
	case Ambiguous:
		return fmt.Sprintf("multiple relations from %s to %s (%s)", e.From, e.To, strings.Join(e.Candidates, ", "))
	default:
		return fmt.Sprintf("no relations found from %s to %s", e.From, e.To)
	}
}

// Is matches the package sentinels by kind.
func (e *RelationError) Is(target error) bool {
	switch target {
	case ErrRelationNotFound:
		return e.Kind == NotFound
	case ErrRelationAmbiguous:
		return e.Kind == Ambiguous
	}
	return false
}
