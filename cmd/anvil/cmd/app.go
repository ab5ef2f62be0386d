package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-anvil/anvil/cmd/anvil/internal/layout"
	"github.com/go-anvil/anvil/pkg/anvil"
	"github.com/go-anvil/anvil/pkg/memtree"
	"github.com/go-anvil/anvil/pkg/uithread"
)

// app is an engine bound to the memtree host that prints the tree after
// every pass.
type app struct {
	session *session
	engine  *anvil.Engine
	stats   bool

	mu  sync.Mutex
	out io.Writer
}

func newApp(s *session, d uithread.Dispatcher, out io.Writer, stats bool) *app {
	a := &app{session: s, out: out, stats: stats}
	a.engine = anvil.NewEngine(anvil.Options{
		Dispatcher:  d,
		Logger:      s.logger,
		Setters:     memtree.Setters(),
		AfterRender: a.afterRender,
	})
	memtree.Register(a.engine.Types())
	return a
}

// install registers the templates of doc, replacing earlier definitions.
// Instances already in the tree are reused by id, so a new body only shows
// up in instances created after the reload.
func (a *app) install(doc *layout.Document) {
	setters := append(memtree.Setters(), anvil.MethodSetter{})
	doc.RegisterTemplates(a.engine.Types(), setters)
}

func (a *app) afterRender(root anvil.Node, stats anvil.PassStats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := memtree.Format(a.out, root, memtree.FormatOptions{
		Owned: a.engine.Owned,
		Color: a.session.color,
	})
	if err == nil && a.stats {
		_, err = fmt.Fprintf(a.out, "created %d, removed %d, applied %d, unclaimed %d in %s\n",
			stats.Created, stats.Removed, stats.Applied, stats.Unclaimed, stats.Duration)
	}
	if err != nil {
		a.session.logger.Error("failed to print tree", "err", err)
	}
}

// reload reads the layout at path into live and requests a render. Called
// off the UI thread the request is posted and coalesced with pending ones.
func (a *app) reload(live *layout.Live, path string) {
	doc, err := layout.Load(path)
	if err != nil {
		a.session.logger.Error("reload failed, keeping previous layout", "err", err)
		return
	}
	a.install(doc)
	live.Store(doc)
	a.session.logger.Debug("layout reloaded", "path", path)
	if err := a.engine.Render(); err != nil {
		a.session.logger.Error("render failed", "err", err)
	}
}
