package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/subhero24/sql-graph-query/docs"
	"github.com/subhero24/sql-graph-query/internal/ui"
)

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `Read the long-form guides bundled into the sgq binary.

Without a topic, lists the available topics.`,
	Example: `  sgq docs
  sgq docs relations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	topics, err := listDocsTopics(builtindocs.FS)
	if err != nil {
		return handleError(out, ErrFileReadError, err, "")
	}

	if len(args) == 0 {
		if isJSONOutput() {
			outputSuccess(out, map[string]any{"topics": topics}, &Meta{Count: len(topics)})
			return nil
		}
		rows := make([][]string, 0, len(topics))
		for _, t := range topics {
			rows = append(rows, []string{t.ID, t.Title})
		}
		fmt.Fprintln(out, ui.RenderTable([]string{"TOPIC", "TITLE"}, rows))
		return nil
	}

	topic, ok := findDocsTopic(topics, args[0])
	if !ok {
		ids := make([]string, 0, len(topics))
		for _, t := range topics {
			ids = append(ids, t.ID)
		}
		return handleErrorMsg(out, ErrInvalidInput, fmt.Sprintf("unknown docs topic %q", args[0]),
			"Available topics: "+strings.Join(ids, ", "))
	}

	content, err := fs.ReadFile(builtindocs.FS, topic.Path)
	if err != nil {
		return handleError(out, ErrFileReadError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(out, map[string]any{
			"topic":   topic.ID,
			"title":   topic.Title,
			"content": string(content),
		}, nil)
		return nil
	}

	text := string(content)
	if display := ui.NewDisplayContext(); display.IsTTY {
		if rendered, err := ui.RenderMarkdown(text, display.TermWidth); err == nil {
			text = rendered
		}
	}
	fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(out)
	}
	return nil
}

// listDocsTopics returns one topic per Markdown file in fsys, titled by its
// first heading.
func listDocsTopics(fsys fs.FS) ([]docsTopic, error) {
	paths, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	topics := make([]docsTopic, 0, len(paths))
	for _, p := range paths {
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(path.Base(p), ".md")
		topics = append(topics, docsTopic{ID: id, Title: docsTitle(string(content), id), Path: p})
	}
	return topics, nil
}

func docsTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return fallback
}

func findDocsTopic(topics []docsTopic, name string) (docsTopic, bool) {
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), ".md"))
	for _, t := range topics {
		if t.ID == name {
			return t, true
		}
	}
	return docsTopic{}, false
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
