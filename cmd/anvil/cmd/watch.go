package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/go-anvil/anvil/cmd/anvil/internal/layout"
	"github.com/go-anvil/anvil/pkg/memtree"
	"github.com/go-anvil/anvil/pkg/uithread"
)

var watchCmd = &cobra.Command{
	Use:   "watch <layout.yaml>",
	Short: "Re-render a layout whenever the file changes",
	Long: `Watch renders the layout like render, then keeps the mount alive and
re-renders it every time the file is written. Nodes whose type did not
change keep their identity across reloads.

Template instances are reused by id. Editing a template body affects only
instances created after the reload; change the entry's template id to
rebuild the ones already shown.

The tree is owned by a dedicated UI loop. File events arrive on another
goroutine and request renders that the engine coalesces onto that loop.

Examples:
  anvil watch layout.yaml
  anvil watch layout.yaml --debug`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	doc, err := layout.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loop := uithread.NewLoop()
	stop := loop.Start()
	defer stop()

	a := newApp(s, loop, cmd.OutOrStdout(), true)
	a.install(doc)
	live := layout.NewLive(doc)
	root := memtree.NewGroup(memtree.TypeGroup)

	var mountErr error
	if err := loop.Call(ctx, func() { mountErr = a.engine.Mount(root, live) }); err != nil {
		return err
	}
	if mountErr != nil {
		return mountErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	s.logger.Info("watching layout", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.reload(live, path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "err", err)
		}
	}
}
