package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-anvil/anvil/cmd/anvil/internal/layout"
	"github.com/go-anvil/anvil/pkg/anvil"
	"github.com/go-anvil/anvil/pkg/errors"
	"github.com/go-anvil/anvil/pkg/memtree"
	"github.com/go-anvil/anvil/pkg/uithread"
)

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagLogLevel, flagColor, flagDebug, renderStats = "", "", false, false
		errors.SetHandler(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := writeLayout(t, `
root:
  - type: text
    attrs: {text: Hello}
  - type: list
    children:
      - type: button
        attrs: {text: OK, background: "#ff0000"}
`)
	out, _, err := execute(t, "render", "--color", "never", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `group
├── text* text="Hello"
└── list*
    └── button* text="OK" background=red
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommandStats(t *testing.T) {
	path := writeLayout(t, "root:\n  - type: text\n")
	out, _, err := execute(t, "render", "--color", "never", "--stats", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "created 1, removed 0, applied 0, unclaimed 0") {
		t.Errorf("output %q should contain pass statistics", out)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		layout  string
		args    []string
		wantErr string
	}{
		{"unknown type", "root:\n  - type: slider\n", nil, "no node factory"},
		{"child under leaf", "root:\n  - type: text\n    children:\n      - type: text\n", nil, "cannot declare"},
		{"invalid layout", "root:\n  - {}\n", nil, "exactly one"},
		{"bad color flag", "root: []\n", []string{"--color", "pink"}, "--color"},
		{"bad level flag", "root: []\n", []string{"--log-level", "loud"}, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLayout(t, tt.layout)
			args := append([]string{"render"}, tt.args...)
			args = append(args, path)
			_, _, err := execute(t, args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("version should print something")
	}
}

func TestReloadKeepsIdentity(t *testing.T) {
	path := writeLayout(t, "root:\n  - type: text\n    attrs: {text: one}\n  - type: image\n")
	doc, err := layout.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	var out, logs bytes.Buffer
	s := &session{logger: newTestLogger(&logs)}
	a := newApp(s, uithread.Immediate{}, &out, false)
	a.install(doc)
	live := layout.NewLive(doc)
	root := memtree.NewGroup(memtree.TypeGroup)
	if err := a.engine.Mount(root, live); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	text := root.ChildAt(0)

	if err := os.WriteFile(path, []byte("root:\n  - type: text\n    attrs: {text: two}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.reload(live, path)

	if root.ChildCount() != 1 || root.ChildAt(0) != text {
		t.Fatalf("tree = %s, want the original text node only", memtree.String(root))
	}
	if got := text.(*memtree.View).Text(); got != "two" {
		t.Errorf("text = %q, want two", got)
	}
	if !strings.Contains(out.String(), `text* text="two"`) {
		t.Errorf("reload should reprint the tree, got %q", out.String())
	}

	// A broken file keeps the previous layout.
	if err := os.WriteFile(path, []byte("root: [{}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.reload(live, path)
	if !strings.Contains(logs.String(), "reload failed") {
		t.Errorf("logs %q should report the failed reload", logs.String())
	}
	if root.ChildCount() != 1 {
		t.Errorf("ChildCount = %d, want 1", root.ChildCount())
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	if !useColor("always", &buf) {
		t.Error("always should enable color")
	}
	if useColor("never", os.Stdout) {
		t.Error("never should disable color")
	}
	if useColor("auto", &buf) {
		t.Error("auto should disable color for non-terminals")
	}
}

func TestReloadTemplateBody(t *testing.T) {
	const body = "templates:\n  %d:\n    type: list\n    children:\n      - type: text\n        attrs: {text: %s}\nroot:\n  - template: %d\n"
	path := writeLayout(t, fmt.Sprintf(body, 1, "old", 1))
	doc, err := layout.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	var out, logs bytes.Buffer
	a := newApp(&session{logger: newTestLogger(&logs)}, uithread.Immediate{}, &out, false)
	a.install(doc)
	live := layout.NewLive(doc)
	root := memtree.NewGroup(memtree.TypeGroup)
	if err := a.engine.Mount(root, live); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	list := root.ChildAt(0)
	textOf := func() string {
		return root.ChildAt(0).(anvil.Container).ChildAt(0).(*memtree.View).Text()
	}

	// Same id: the existing instance is reused with its old body.
	if err := os.WriteFile(path, []byte(fmt.Sprintf(body, 1, "new", 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	a.reload(live, path)
	if root.ChildAt(0) != list || textOf() != "old" {
		t.Errorf("same template id should keep the instance, text = %q", textOf())
	}

	// A new id rebuilds the instance from the new body.
	if err := os.WriteFile(path, []byte(fmt.Sprintf(body, 2, "new", 2)), 0o644); err != nil {
		t.Fatal(err)
	}
	a.reload(live, path)
	if root.ChildAt(0) == list || textOf() != "new" {
		t.Errorf("new template id should rebuild the instance, text = %q", textOf())
	}
}
