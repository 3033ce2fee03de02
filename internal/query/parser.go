package query

import (
	"fmt"
	"strings"

	"github.com/subhero24/sql-graph-query/internal/sqlutil"
)

// ParseError reports malformed query text. Offset is a byte position in the
// literal text of the template.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// parser owns the line and interpolation queues; both are consumed from the
// front as parsing proceeds.
type parser struct {
	lines   []Line
	interps []Interpolation
	end     int
}

// Parse parses a template into a tree rooted at a synthetic Relation.
func Parse(t Template) (*Relation, error) {
	interps, err := t.Interpolations()
	if err != nil {
		return nil, err
	}
	literal := t.Literal()
	p := &parser{lines: ScanLines(literal), interps: interps, end: len(literal)}
	return p.parseRoot()
}

// ParseString parses a query with no interpolated values.
func ParseString(s string) (*Relation, error) {
	return Parse(Text(s))
}

func (p *parser) parseRoot() (*Relation, error) {
	if len(p.lines) == 0 {
		return nil, &ParseError{Offset: 0, Msg: "empty query"}
	}

	root := &Relation{}
	first := p.lines[0]
	if isMutationHeader(first) {
		if !strings.HasSuffix(first.Text, "{") {
			return nil, &ParseError{Offset: first.Start, Msg: "mutation must end with '{' on its first line"}
		}
		p.lines = p.lines[1:]

		header := first.Text[:len(first.Text)-1]
		sql, vars, err := p.splice(header, first.Start, first.Start+len(header))
		if err != nil {
			return nil, err
		}
		root.SQL = sql
		root.Variables = vars
		root.Table = mutationTable(sql)
		if err := p.parseBody(root); err != nil {
			return nil, err
		}
	} else {
		for len(p.lines) > 0 {
			m, ok := matchRelationStart(p.lines[0])
			if !ok {
				// Stray top-level lines are not relations; skip them.
				p.lines = p.lines[1:]
				continue
			}
			rel, err := p.parseRelation(m)
			if err != nil {
				return nil, err
			}
			root.Relations = append(root.Relations, rel)
		}
	}

	if len(p.interps) > 0 {
		return nil, &ParseError{Offset: p.interps[0].Offset, Msg: "interpolated value is outside of any SQL clause"}
	}
	return root, nil
}

func (p *parser) parseRelation(m relationStart) (*Relation, error) {
	p.lines = p.lines[1:]

	sql, vars, err := p.splice(m.sql, m.start, m.end)
	if err != nil {
		return nil, err
	}
	rel := &Relation{Type: m.typ, SQL: sql, Variables: vars}
	if err := p.parseBody(rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// parseBody consumes attribute and nested relation lines up to the closing
// brace of rel.
func (p *parser) parseBody(rel *Relation) error {
	for len(p.lines) > 0 {
		line := p.lines[0]
		if m, ok := matchRelationStart(line); ok {
			child, err := p.parseRelation(m)
			if err != nil {
				return err
			}
			rel.Relations = append(rel.Relations, child)
			continue
		}

		p.lines = p.lines[1:]
		if matchRelationFinish(line) {
			return nil
		}
		rel.addAttribute(line.Text)
	}

	name := rel.Type
	if name == "" {
		name = "mutation"
	}
	return &ParseError{Offset: p.end, Msg: fmt.Sprintf("could not parse attributes of %s: missing '}'", name)}
}

// splice replaces the interpolations falling in [start, end] of the literal
// text with placeholders in sql, which is the text of that span. Every
// earlier splice in the same clause shifts later positions by the length of
// what it inserted.
func (p *parser) splice(sql string, start, end int) (string, []any, error) {
	var vars []any
	shift := 0
	for len(p.interps) > 0 {
		in := p.interps[0]
		if in.Offset > end {
			break
		}
		if in.Offset < start {
			return "", nil, &ParseError{Offset: in.Offset, Msg: "interpolated value is outside of any SQL clause"}
		}
		p.interps = p.interps[1:]

		var insert string
		if elems, ok := sequence(in.Value); ok {
			insert = sqlutil.Placeholders(len(elems))
			vars = append(vars, elems...)
		} else {
			insert = "?"
			vars = append(vars, in.Value)
		}

		at := in.Offset - start + shift
		sql = sql[:at] + insert + sql[at:]
		shift += len(insert)
	}
	return strings.TrimSpace(sql), vars, nil
}
