package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	cfgPath := writeConfig(t, "")

	env := mustSucceed(t, runJSON(t, "--config", cfgPath, "parse",
		"users WHERE id = ${} AND name IN (${}) {\n\tname\n\tcars {\n\t\tlicense\n\t}\n}",
		"--arg", "1", "--arg", `["John","Peter"]`))

	want := obj{"relations": arr{obj{
		"type":       "users",
		"sql":        "WHERE id = ? AND name IN (?,?)",
		"variables":  arr{float64(1), "John", "Peter"},
		"attributes": arr{"name"},
		"relations":  arr{obj{"type": "cars", "attributes": arr{"license"}}},
	}}}
	if diff := cmp.Diff(want, env.Data); diff != "" {
		t.Errorf("parse output mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommandCustomMarker(t *testing.T) {
	cfgPath := writeConfig(t, "")

	env := mustSucceed(t, runJSON(t, "--config", cfgPath, "parse",
		"users WHERE name = :v {\n\tid\n}", "--marker", ":v", "--arg", "John"))

	rels, _ := env.Data.(obj)["relations"].(arr)
	if len(rels) != 1 {
		t.Fatalf("expected one relation, got %v", env.Data)
	}
	if got := rels[0].(obj)["sql"]; got != "WHERE name = ?" {
		t.Errorf("sql = %v, want %q", got, "WHERE name = ?")
	}
}

func TestParseCommandInvalid(t *testing.T) {
	cfgPath := writeConfig(t, "")
	env := mustFail(t, runJSON(t, "--config", cfgPath, "parse", "users {\n\tname\n"), ErrQueryInvalid)
	if env.Error.Suggestion != "" {
		t.Errorf("unexpected suggestion %q", env.Error.Suggestion)
	}
}
