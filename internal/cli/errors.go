package cli

import (
	"errors"

	"github.com/subhero24/sql-graph-query/internal/executor"
	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/schema"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Configuration errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Query errors
	ErrQueryNotFound       = "QUERY_NOT_FOUND"
	ErrQueryInvalid        = "QUERY_INVALID"
	ErrMutationUnsupported = "MUTATION_UNSUPPORTED"

	// Relation errors
	ErrRelationNotFound  = "RELATION_NOT_FOUND"
	ErrRelationAmbiguous = "RELATION_AMBIGUOUS"
	ErrTableNotFound     = "TABLE_NOT_FOUND"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
)

// executionErrorCode classifies an error returned while parsing or running
// a query. Anything unrecognized came from the database.
func executionErrorCode(err error) string {
	var parseErr *query.ParseError
	switch {
	case errors.As(err, &parseErr):
		return ErrQueryInvalid
	case errors.Is(err, schema.ErrRelationNotFound):
		return ErrRelationNotFound
	case errors.Is(err, schema.ErrRelationAmbiguous):
		return ErrRelationAmbiguous
	case errors.Is(err, executor.ErrNoAttributes):
		return ErrQueryInvalid
	case errors.Is(err, executor.ErrReturningUnsupported):
		return ErrMutationUnsupported
	default:
		return ErrDatabaseError
	}
}

func executionSuggestion(code string) string {
	switch code {
	case ErrQueryInvalid:
		return "Run 'sgq parse' to inspect how the query is read"
	case ErrRelationNotFound:
		return "Run 'sgq schema <table>' to list the foreign keys of a table"
	case ErrRelationAmbiguous:
		return "Several foreign keys join these tables; query the join column directly"
	case ErrMutationUnsupported:
		return "Mutations need a database with RETURNING (sqlite or postgres)"
	}
	return ""
}
