package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// testDB returns a fresh SQLite path in a temp dir.
func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "prefs.db")
}

// runCLI executes the root command against db and returns stdout and
// stderr.
func runCLI(t *testing.T, db string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--backend", "sqlite", "--db", db}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// seed stores a fixed set of preferences covering every kind.
func seed(t *testing.T, db string) {
	t.Helper()
	prefs := [][3]string{
		{"theme", `"dark"`, "string"},
		{"limits", `{"weekly":20,"daily":5}`, "object<int>"},
		{"recent", `[[1,2],[3]]`, "array<array<int>>"},
		{"avatar", `"3q2+7w=="`, "bytes"},
		{"home", `"https://example.com/?a=1&b=2"`, "url"},
		{"ratio", `0.50`, "float"},
		{"enabled", `true`, "bool"},
	}
	for _, p := range prefs {
		if _, _, err := runCLI(t, db, "set", p[0], p[1], "--kind", p[2]); err != nil {
			t.Fatalf("set %s failed: %v", p[0], err)
		}
	}
}

func yamlUnmarshal(s string, v any) error {
	return yaml.Unmarshal([]byte(s), v)
}
