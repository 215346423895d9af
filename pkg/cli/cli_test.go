package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/hypium-runner/pkg/resolver"
	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

func TestDiscoverFlows_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "login.yaml")
	if err := os.WriteFile(path, []byte("- tapOn: Login\n"), 0644); err != nil {
		t.Fatal(err)
	}

	flows, err := discoverFlows([]string{path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{path}, flows); diff != "" {
		t.Errorf("flows mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverFlows_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "config.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	flows, err := discoverFlows([]string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(sub, "c.yaml"),
	}
	if diff := cmp.Diff(want, flows); diff != "" {
		t.Errorf("flows mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverFlows_MissingPath(t *testing.T) {
	_, err := discoverFlows([]string{"/nonexistent/flow.yaml"})
	if err == nil {
		t.Error("expected error for missing path")
	}
}

func TestFlowArtifactName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"login.yaml", "login"},
		{"flows/checkout.yml", "checkout"},
		{"/abs/path/smoke.yaml", "smoke"},
	}

	for _, tt := range tests {
		if got := flowArtifactName(tt.path); got != tt.want {
			t.Errorf("flowArtifactName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSplitProperty(t *testing.T) {
	key, value, err := splitProperty("backgroundColor=#FF0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "backgroundColor" || value != "#FF0000" {
		t.Errorf("got %q=%q", key, value)
	}

	if _, _, err := splitProperty("noequals"); err == nil {
		t.Error("expected error for missing =")
	}
	if _, _, err := splitProperty("=value"); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestParseCoord(t *testing.T) {
	v, err := parseCoord("640")
	if err != nil || v != 640 {
		t.Errorf("parseCoord(640) = %d, %v", v, err)
	}
	if _, err := parseCoord("abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

const findDump = `pid[10]
| Canvas[1]
| | Text[2] name[Login]
| | Button[3] name[Submit]
pid[20]
| Canvas[4]
| | Text[5] name[Login]
`

func TestFindMatches_TextAcrossRoots(t *testing.T) {
	forest := rstree.Parse(findDump)

	matches := findMatches(forest, resolver.Conditions{Text: "Login"}, false)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Score != 100 {
			t.Errorf("expected score 100, got %d", m.Score)
		}
	}
	// Stable sort keeps root order for equal scores
	if matches[0].Node.ID != 2 || matches[1].Node.ID != 5 {
		t.Errorf("expected ids [2 5], got [%d %d]", matches[0].Node.ID, matches[1].Node.ID)
	}
}

func TestFindMatches_Combined(t *testing.T) {
	forest := rstree.Parse(findDump)

	matches := findMatches(forest, resolver.Conditions{Text: "Submit", Type: "Button"}, false)
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	if matches[0].Node.ID != 3 {
		t.Errorf("expected id 3 first, got %d", matches[0].Node.ID)
	}
}
