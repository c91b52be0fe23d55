package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figlayout/pkg/pipeline"
)

// renderCommand creates the render command for writing figure artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [figure.toml]",
		Short: "Render a figure to SVG, JSON or DOT",
		Long: `Render a figure document.

Formats:
  svg   the settled scene graph as an SVG document
  json  the settled layout (geometry, ranges, legend, mark states)
  dot   the scene graph structure as Graphviz DOT

With a single format, -o names the output file. With several formats, -o is
a base path and each format gets its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.Formats = formats
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height")

	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{pipeline.FormatSVG}, nil
	}
	return pipeline.ParseFormats(s)
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	data, format, err := readDocument(input)
	if err != nil {
		return fmt.Errorf("load figure %s: %w", input, err)
	}
	opts.Document, opts.Format = data, format
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(input, output, opts.Formats)
	for _, f := range opts.Formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[f], err)
		}
	}
	prog.done("Rendered " + input)

	printSuccess("Render complete")
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.MarkCount, result.Layout.Legend.Rows, result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its output file.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path. Without output it strips the
// input extension; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
