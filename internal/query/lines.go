package query

import (
	"strings"
	"unicode"
)

// Line is a trimmed, non-blank line of the literal text with its absolute
// byte offsets [Start, End).
type Line struct {
	Text  string
	Start int
	End   int
}

// ScanLines splits literal text into trimmed, non-blank lines.
func ScanLines(literal string) []Line {
	var lines []Line
	pos := 0
	for pos <= len(literal) {
		end := strings.IndexByte(literal[pos:], '\n')
		if end < 0 {
			end = len(literal)
		} else {
			end += pos
		}

		raw := literal[pos:end]
		left := strings.TrimLeftFunc(raw, unicode.IsSpace)
		text := strings.TrimRightFunc(left, unicode.IsSpace)
		if text != "" {
			start := pos + len(raw) - len(left)
			lines = append(lines, Line{Text: text, Start: start, End: start + len(text)})
		}

		pos = end + 1
	}
	return lines
}

// relationStart is a line of the form `<type><raw sql>{`.
type relationStart struct {
	typ   string
	sql   string
	start int // offset of sql in the literal text
	end   int
}

// matchRelationStart matches `<type><raw sql>{`. The type is the leading run
// of non-space characters; when that run reaches the final brace the brace
// is not part of it.
func matchRelationStart(line Line) (relationStart, bool) {
	if !strings.HasSuffix(line.Text, "{") {
		return relationStart{}, false
	}
	body := line.Text[:len(line.Text)-1]
	i := strings.IndexFunc(body, unicode.IsSpace)
	if i < 0 {
		i = len(body)
	}
	if i == 0 {
		return relationStart{}, false
	}
	return relationStart{
		typ:   body[:i],
		sql:   body[i:],
		start: line.Start + i,
		end:   line.Start + len(body),
	}, true
}

// matchRelationFinish matches a line holding only a closing brace.
func matchRelationFinish(line Line) bool {
	return line.Text == "}"
}

var mutationKeywords = []string{"INSERT", "UPDATE", "REPLACE"}

// isMutationHeader reports whether the line opens with INSERT, UPDATE or
// REPLACE followed by whitespace.
func isMutationHeader(line Line) bool {
	for _, kw := range mutationKeywords {
		if len(line.Text) > len(kw) &&
			strings.EqualFold(line.Text[:len(kw)], kw) &&
			unicode.IsSpace(rune(line.Text[len(kw)])) {
			return true
		}
	}
	return false
}

// mutationTable extracts the target table of an INSERT, UPDATE or REPLACE
// statement. It returns "" when the header does not name one plainly.
func mutationTable(sql string) string {
	words := strings.Fields(sql)
	if len(words) < 2 {
		return ""
	}

	i := 1
	if strings.EqualFold(words[i], "OR") {
		i += 2 // INSERT OR IGNORE / UPDATE OR REPLACE
	}
	if !strings.EqualFold(words[0], "UPDATE") {
		if i >= len(words) || !strings.EqualFold(words[i], "INTO") {
			return ""
		}
		i++
	}
	if i >= len(words) {
		return ""
	}
	return unquoteIdent(words[i])
}

func unquoteIdent(word string) string {
	if word == "" {
		return ""
	}
	switch open := word[0]; open {
	case '"', '`', '[':
		closing := open
		if open == '[' {
			closing = ']'
		}
		if end := strings.IndexByte(word[1:], closing); end >= 0 {
			return word[1 : end+1]
		}
		return ""
	}
	if end := strings.IndexAny(word, "(;"); end >= 0 {
		word = word[:end]
	}
	return word
}
