package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/layout"
)

// runCommand executes the CLI with args against a fresh command tree.
// Stderr is not a terminal under go test, so engine runs drain their
// progress silently instead of starting the bar.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func writeGraph(t *testing.T, dir string) string {
	t.Helper()
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Labels: []string{"Hub"}},
			{ID: "b"},
			{ID: "c"},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "a", To: "b"},
			{ID: "e2", From: "a", To: "c"},
		},
	}
	path := filepath.Join(dir, "graph.json")
	if err := graph.WriteGraphFile(g, path); err != nil {
		t.Fatalf("write graph: %v", err)
	}
	return path
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"layout", "focus", "stats", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)

	err := runCommand(t, "layout", input, "--no-cache", "--width", "400", "--height", "400")
	if err != nil {
		t.Fatalf("layout command failed: %v", err)
	}

	l, err := layout.ReadLayoutFile(filepath.Join(dir, "graph.layout.json"))
	if err != nil {
		t.Fatalf("read layout output: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("laid out %d nodes, want 3", len(l.Nodes))
	}
	for _, n := range l.Nodes {
		if n.X < 0 || n.X > 400 || n.Y < 0 || n.Y > 400 {
			t.Errorf("node %s at (%v, %v), outside the 400x400 viewport", n.ID, n.X, n.Y)
		}
	}
}

func TestLayoutCommandExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)
	out := filepath.Join(dir, "custom.json")

	if err := runCommand(t, "layout", input, "--no-cache", "-o", out); err != nil {
		t.Fatalf("layout command failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected output at %s: %v", out, err)
	}
}

func TestLayoutCommandCaches(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))
	input := writeGraph(t, dir)

	if err := runCommand(t, "layout", input); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	outPath := filepath.Join(dir, "graph.layout.json")
	first, err := layout.ReadLayoutFile(outPath)
	if err != nil {
		t.Fatalf("read first output: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "xdg", appName))
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache directory should have entries after a run: %v", err)
	}

	if err := os.Remove(outPath); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "layout", input); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second, err := layout.ReadLayoutFile(outPath)
	if err != nil {
		t.Fatalf("read second output: %v", err)
	}

	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Error("cached layout should match the computed one")
	}
}

func TestFocusCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)

	if err := runCommand(t, "focus", input, "--node", "a"); err != nil {
		t.Fatalf("focus command failed: %v", err)
	}

	l, err := layout.ReadLayoutFile(filepath.Join(dir, "graph.focus.json"))
	if err != nil {
		t.Fatalf("read focus output: %v", err)
	}
	hub, ok := l.NodeByID("a")
	if !ok {
		t.Fatal("focused node missing from output")
	}
	if hub.X != layout.DefaultWidth/2 || hub.Y != layout.DefaultHeight/2 {
		t.Errorf("focused node at (%v, %v), want viewport center (%v, %v)",
			hub.X, hub.Y, layout.DefaultWidth/2, layout.DefaultHeight/2)
	}
}

func TestFocusCommandSeedsFromLayout(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)

	if err := runCommand(t, "layout", input, "--no-cache"); err != nil {
		t.Fatalf("layout command failed: %v", err)
	}
	if err := runCommand(t, "focus", input, "--node", "b"); err != nil {
		t.Fatalf("focus command failed: %v", err)
	}

	l, err := layout.ReadLayoutFile(filepath.Join(dir, "graph.focus.json"))
	if err != nil {
		t.Fatalf("read focus output: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("focus output has %d nodes, want 3", len(l.Nodes))
	}
	b, ok := l.NodeByID("b")
	if !ok {
		t.Fatal("focused node missing from output")
	}
	if b.X != layout.DefaultWidth/2 || b.Y != layout.DefaultHeight/2 {
		t.Errorf("focused node at (%v, %v), want viewport center", b.X, b.Y)
	}
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)

	if err := runCommand(t, "stats", input); err != nil {
		t.Fatalf("stats command failed: %v", err)
	}
	if err := runCommand(t, "stats", input, "--json"); err != nil {
		t.Fatalf("stats --json failed: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"layout missing file", []string{"layout", filepath.Join(dir, "missing.json"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"layout unknown preset", []string{"layout", input, "--no-cache", "--preset", "nope"}, errors.ErrCodeInvalidPreset},
		{"layout negative viewport", []string{"layout", input, "--no-cache", "--width=-5"}, errors.ErrCodeInvalidParams},
		{"focus unknown node", []string{"focus", input, "--node", "zz"}, errors.ErrCodeNodeNotFound},
		{"stats missing file", []string{"stats", filepath.Join(dir, "missing.json")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCommand(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)

	path := filepath.Join(t.TempDir(), "forcefield.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \"localhost:9090\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := c.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Config.Server.Addr != "localhost:9090" {
		t.Errorf("Addr = %q, want %q", c.Config.Server.Addr, "localhost:9090")
	}

	if err := c.LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicit missing config should error")
	}
}
