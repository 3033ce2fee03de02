// Package sqlutil holds small SQL text helpers shared by the store and the
// query compiler.
package sqlutil

import (
	"database/sql"
	"strconv"
	"strings"
)

// Placeholders returns n "?" placeholders joined by commas.
//
// Unlike an IN-clause helper this never substitutes NULL for an empty list:
// n == 0 yields an empty string so the caller's SQL is left as written.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// QuoteIdent quotes an identifier with the given quote character, doubling any
// embedded quote characters.
func QuoteIdent(name string, quote byte) string {
	q := string(quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// Rebind rewrites "?" placeholders as numbered "$n" placeholders. Question
// marks inside quoted literals, quoted identifiers and comments are left alone.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			end := skipQuoted(query, i, ch)
			sb.WriteString(query[i:end])
			i = end - 1
		case ch == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query)
			} else {
				end += i
			}
			sb.WriteString(query[i:end])
			i = end - 1
		case ch == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = len(query)
			} else {
				end += i + 4
			}
			sb.WriteString(query[i:end])
			i = end - 1
		case ch == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// skipQuoted returns the index just past the quoted run starting at i.
// Doubled quote characters are treated as escapes.
func skipQuoted(s string, i int, quote byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != quote {
			continue
		}
		if j+1 < len(s) && s[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

// ScanRows scans all rows into a slice using the provided scanner.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
