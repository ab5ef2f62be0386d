// Package layout reads YAML layout descriptions and replays them as anvil
// render passes against a memtree host.
//
// A layout lists the children of the mounted root. Each entry declares a
// node by type or by template id, or marks a run of foreign children to skip:
//
//	templates:
//	  1:
//	    type: list
//	    children:
//	      - type: text
//	        attrs: {text: placeholder}
//	root:
//	  - type: text
//	    attrs:
//	      text: Inbox
//	      background: navy
//	  - skip: true
//	  - template: 1
package layout

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/go-anvil/anvil/pkg/anvil"
	"github.com/go-anvil/anvil/pkg/memtree"
)

// Node is one entry of a layout.
type Node struct {
	Type     anvil.NodeType `yaml:"type,omitempty"`
	Template int            `yaml:"template,omitempty"`
	Skip     bool           `yaml:"skip,omitempty"`
	Attrs    map[string]any `yaml:"attrs,omitempty"`
	Children []*Node        `yaml:"children,omitempty"`
}

// Document is a parsed layout file.
type Document struct {
	Templates map[int]*Node `yaml:"templates,omitempty"`
	Root      []*Node       `yaml:"root"`
}

// Parse decodes and validates a layout. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the layout file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate checks that every entry declares exactly one of type, template
// or skip and that referenced templates exist.
func (d *Document) Validate() error {
	for id, t := range d.Templates {
		where := fmt.Sprintf("templates[%d]", id)
		if id <= 0 {
			return fmt.Errorf("%s: template ids must be positive", where)
		}
		if t == nil || t.Type == "" || t.Template != 0 || t.Skip {
			return fmt.Errorf("%s: a template body needs a type", where)
		}
		if err := d.validateStatic(t.Children, where); err != nil {
			return err
		}
	}
	return d.validate(d.Root, "root")
}

func (d *Document) validate(nodes []*Node, where string) error {
	for i, n := range nodes {
		at := fmt.Sprintf("%s[%d]", where, i)
		if n == nil {
			return fmt.Errorf("%s: empty entry", at)
		}
		kinds := 0
		if n.Type != "" {
			kinds++
		}
		if n.Template != 0 {
			kinds++
			if _, ok := d.Templates[n.Template]; !ok {
				return fmt.Errorf("%s: unknown template %d", at, n.Template)
			}
		}
		if n.Skip {
			kinds++
			if len(n.Attrs) > 0 || len(n.Children) > 0 {
				return fmt.Errorf("%s: skip entries take no attrs or children", at)
			}
		}
		if kinds != 1 {
			return fmt.Errorf("%s: set exactly one of type, template or skip", at)
		}
		if err := d.validate(n.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

// validateStatic checks a template body, where only typed nodes are allowed.
func (d *Document) validateStatic(nodes []*Node, where string) error {
	for i, n := range nodes {
		at := fmt.Sprintf("%s.children[%d]", where, i)
		if n == nil || n.Type == "" || n.Template != 0 || n.Skip {
			return fmt.Errorf("%s: template bodies may only contain typed nodes", at)
		}
		if err := d.validateStatic(n.Children, at); err != nil {
			return err
		}
	}
	return nil
}

// View implements anvil.Renderable. Attributes are applied in name order.
func (d *Document) View(w *anvil.Walker) {
	declare(w, d.Root)
}

func declare(w *anvil.Walker, nodes []*Node) {
	for _, n := range nodes {
		switch {
		case n.Skip:
			w.Skip()
		case n.Template != 0:
			w.Template(n.Template, func() { body(w, n) })
		default:
			w.Node(n.Type, func() { body(w, n) })
		}
	}
}

func body(w *anvil.Walker, n *Node) {
	for _, name := range sortedKeys(n.Attrs) {
		w.Attr(name, n.Attrs[name])
	}
	declare(w, n.Children)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RegisterTemplates installs a builder for every template of d. Template
// bodies are built directly from memtree nodes with their attributes
// applied by setters, first claim wins.
func (d *Document) RegisterTemplates(reg *anvil.TypeRegistry, setters []anvil.AttributeSetter) {
	for id, t := range d.Templates {
		reg.RegisterTemplate(id, func(anvil.Container) anvil.Node {
			return build(t, setters)
		})
	}
}

func build(n *Node, setters []anvil.AttributeSetter) anvil.Node {
	var node anvil.Node
	if isContainer(n.Type) || len(n.Children) > 0 {
		g := memtree.NewGroup(n.Type)
		for _, c := range n.Children {
			g.AddChild(build(c, setters))
		}
		node = g
	} else {
		node = memtree.NewView(n.Type)
	}
	for _, name := range sortedKeys(n.Attrs) {
		for _, s := range setters {
			if s.Set(node, name, n.Attrs[name], nil) {
				break
			}
		}
	}
	return node
}

func isContainer(t anvil.NodeType) bool {
	return t == memtree.TypeGroup || t == memtree.TypeList
}

// Live is a Renderable whose document can be swapped from any goroutine.
// The next render pass picks up the latest document.
type Live struct {
	doc atomic.Pointer[Document]
}

// NewLive returns a Live holding doc.
func NewLive(doc *Document) *Live {
	l := &Live{}
	l.doc.Store(doc)
	return l
}

// Store replaces the current document.
func (l *Live) Store(doc *Document) {
	l.doc.Store(doc)
}

// Load returns the current document.
func (l *Live) Load() *Document {
	return l.doc.Load()
}

// View implements anvil.Renderable.
func (l *Live) View(w *anvil.Walker) {
	if doc := l.doc.Load(); doc != nil {
		doc.View(w)
	}
}
