package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-anvil/anvil/cmd/anvil/internal/layout"
	"github.com/go-anvil/anvil/pkg/memtree"
	"github.com/go-anvil/anvil/pkg/uithread"
)

var renderStats bool

var renderCmd = &cobra.Command{
	Use:   "render <layout.yaml>",
	Short: "Render a layout once and print the tree",
	Long: `Render mounts the layout on an empty memtree group, runs a single
render pass and prints the resulting tree.

Examples:
  anvil render layout.yaml
  anvil render layout.yaml --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&renderStats, "stats", false, "print pass statistics")
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	doc, err := layout.Load(args[0])
	if err != nil {
		return err
	}

	a := newApp(s, uithread.Immediate{}, cmd.OutOrStdout(), renderStats)
	a.install(doc)
	return a.engine.Mount(memtree.NewGroup(memtree.TypeGroup), doc)
}
