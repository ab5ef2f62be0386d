package memtree

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/go-anvil/anvil/pkg/anvil"
)

// FormatOptions controls Format output.
type FormatOptions struct {
	// Owned marks engine-owned nodes with a trailing '*'. Nil marks none.
	Owned func(anvil.Node) bool
	// Color wraps node types in ANSI bold.
	Color bool
}

// Format writes an indented outline of the tree rooted at root.
func Format(w io.Writer, root anvil.Node, opts FormatOptions) error {
	var sb strings.Builder
	formatNode(&sb, root, "", "", opts)
	_, err := io.WriteString(w, sb.String())
	return err
}

// String returns the outline of root without ownership marks.
func String(root anvil.Node) string {
	var sb strings.Builder
	formatNode(&sb, root, "", "", FormatOptions{})
	return sb.String()
}

func formatNode(sb *strings.Builder, n anvil.Node, prefix, childPrefix string, opts FormatOptions) {
	sb.WriteString(prefix)
	name := string(n.NodeType())
	if opts.Color {
		name = "\x1b[1m" + name + "\x1b[0m"
	}
	sb.WriteString(name)
	if opts.Owned != nil && opts.Owned(n) {
		sb.WriteByte('*')
	}
	if e, ok := n.(Element); ok {
		for _, attr := range describe(e.Base()) {
			sb.WriteByte(' ')
			sb.WriteString(attr)
		}
	}
	sb.WriteByte('\n')

	c, ok := n.(anvil.Container)
	if !ok {
		return
	}
	count := c.ChildCount()
	for i := range count {
		branch, next := "├── ", "│   "
		if i == count-1 {
			branch, next = "└── ", "    "
		}
		formatNode(sb, c.ChildAt(i), childPrefix+branch, childPrefix+next, opts)
	}
}

func describe(v *View) []string {
	var attrs []string
	if v.text != "" {
		attrs = append(attrs, "text="+strconv.Quote(v.text))
	}
	if !v.visible {
		attrs = append(attrs, "visible=false")
	}
	if v.background != nil {
		attrs = append(attrs, "background="+FormatColor(v.background))
	}
	if v.onClick != nil {
		attrs = append(attrs, "onClick")
	}
	names := make([]string, 0, len(v.props))
	for name := range v.props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		attrs = append(attrs, fmt.Sprintf("%s=%v", name, v.props[name]))
	}
	return attrs
}
