package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/subhero24/sql-graph-query/internal/slugs"
)

// codeBlockLanguage tags the fenced code blocks run from markdown files.
const codeBlockLanguage = "sgq"

// querySource is query text gathered from the command line, a file, stdin
// or the saved queries. Markdown files may hold several blocks.
type querySource struct {
	Name   string
	Blocks []string
}

// sourceError carries the error code for a query that could not be read.
type sourceError struct {
	code string
	err  error
}

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

// resolveSource picks the query to run:
//
//	--file path     the file (markdown files contribute their sgq blocks)
//	-               stdin
//	text with "{"   the argument itself
//	existing path   the file
//	anything else   a saved query name
func resolveSource(cmd *cobra.Command, file string, args []string) (*querySource, error) {
	if file != "" {
		return readSourceFile(file)
	}
	if len(args) == 0 {
		return nil, &sourceError{ErrMissingArgument, fmt.Errorf("no query given")}
	}

	arg := args[0]
	switch {
	case arg == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, &sourceError{ErrFileReadError, fmt.Errorf("failed to read stdin: %w", err)}
		}
		return &querySource{Name: "stdin", Blocks: []string{string(data)}}, nil
	case strings.Contains(arg, "{"):
		return &querySource{Name: "inline", Blocks: []string{arg}}, nil
	}

	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		return readSourceFile(arg)
	}

	if text, ok := getConfig().SavedQuery(arg); ok {
		return &querySource{Name: slugs.QueryName(arg), Blocks: []string{text}}, nil
	}
	return nil, &sourceError{ErrQueryNotFound, fmt.Errorf("no saved query named %q", arg)}
}

func readSourceFile(path string) (*querySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sourceError{ErrFileReadError, fmt.Errorf("failed to read %s: %w", path, err)}
	}

	if !isMarkdown(path) {
		return &querySource{Name: path, Blocks: []string{string(data)}}, nil
	}

	blocks := extractCodeBlocks(data, codeBlockLanguage)
	if len(blocks) == 0 {
		return nil, &sourceError{ErrQueryNotFound, fmt.Errorf("no %s code blocks in %s", codeBlockLanguage, path)}
	}
	return &querySource{Name: path, Blocks: blocks}, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// extractCodeBlocks returns the contents of every fenced code block tagged
// with language, in document order.
func extractCodeBlocks(source []byte, language string) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if strings.EqualFold(string(block.Language(source)), language) {
			var b strings.Builder
			lines := block.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			blocks = append(blocks, b.String())
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
