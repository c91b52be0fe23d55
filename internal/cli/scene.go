package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/pipeline"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// sceneCommand creates the scene command, a debugging aid that dumps the
// retained scene graph of a settled figure.
func (c *CLI) sceneCommand() *cobra.Command {
	var (
		output string
		svg    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "scene [figure.toml]",
		Short: "Dump the scene graph of a settled figure",
		Long: `Dump the retained scene graph of a settled figure as Graphviz DOT.

With --svg the DOT is laid out by Graphviz and written as SVG, which is useful
to inspect group order, placeholders and the legend block.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScene(cmd.Context(), args[0], opts, output, svg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render the graph with Graphviz")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height")

	return cmd
}

func (c *CLI) runScene(ctx context.Context, input string, opts pipeline.Options, output string, svg bool) error {
	doc, err := figfile.Load(input)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	opts.SetDefaults()

	fig, _, err := pipeline.Open(ctx, doc, opts)
	if err != nil {
		return err
	}
	defer fig.Close()

	dot, err := sceneDOT(ctx, fig)
	if err != nil {
		return err
	}
	data := []byte(dot)
	if svg {
		if data, err = scene.RenderDOT(ctx, dot); err != nil {
			return fmt.Errorf("graphviz: %w", err)
		}
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Scene written")
		printFile(output)
	}
	return nil
}

// sceneDOT reads the scene graph on the figure goroutine.
func sceneDOT(ctx context.Context, fig *figure.Figure) (string, error) {
	var dot string
	err := fig.Scene(ctx, func(root *scene.Node) {
		dot = scene.ToDOT(root)
	})
	return dot, err
}
