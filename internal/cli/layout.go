package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figlayout/pkg/pipeline"
)

// layoutCommand creates the layout command, which prints the settled geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [figure.toml]",
		Short: "Compute and print the settled layout of a figure",
		Long: `Compute the settled layout of a figure document.

The figure is opened at the requested container size (or the size in the
document), all marks are materialized and the relayout pass runs. The geometry,
per-scale pixel ranges and legend placement are printed as tables. With -o the
layout is also written as JSON (the same format as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	layout, cacheHit, err := runner.Layout(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printLayout(layout)

	if output != "" {
		out, err := pipeline.MarshalLayout(layout)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, out, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}
	printStats(len(layout.Marks), layout.Legend.Rows, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+filepath.Base(input))
	return nil
}

// printLayout prints the geometry, ranges and legend tables.
func printLayout(l pipeline.Layout) {
	g := l.Geometry
	fmt.Println(StyleTitle.Render("Geometry"))
	fmt.Println(renderTable(
		[]string{"", "width", "height"},
		[][]string{
			{"figure", px(g.Width), px(g.Height)},
			{"plot", px(g.PlotWidth), px(g.PlotHeight)},
		},
	))
	printKeyValue("margin", fmt.Sprintf("top %s  right %s  bottom %s  left %s",
		px(g.Margin.Top), px(g.Margin.Right), px(g.Margin.Bottom), px(g.Margin.Left)))
	printNewline()

	fmt.Println(StyleTitle.Render("Scales"))
	fmt.Println(renderTable(
		[]string{"scale", "orient", "padding", "unpadded", "padded", "extent"},
		rangeRows(l),
	))
	printNewline()

	lg := l.Legend
	fmt.Println(StyleTitle.Render("Legend"))
	if len(lg.Entries) == 0 {
		printDetail("no legend entries")
		return
	}
	rows := make([][]string, len(lg.Entries))
	for i, e := range lg.Entries {
		rows[i] = []string{fmt.Sprint(e.Index), e.ID, fmt.Sprint(e.Rows), px(e.LabelWidth)}
	}
	fmt.Println(renderTable([]string{"#", "mark", "rows", "label (em)"}, rows))
	printKeyValue("location", string(lg.Location))
	printKeyValue("block", px(lg.Width)+" x "+px(lg.Height))
}

func rangeRows(l pipeline.Layout) [][]string {
	ids := make([]string, 0, len(l.Ranges))
	for id := range l.Ranges {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		r := l.Ranges[id]
		rows = append(rows, []string{
			id,
			strings.ToUpper(r.Orientation),
			px(l.Padding[id]),
			pxRange(r.Unpadded),
			pxRange(r.Padded),
			px(r.Extent),
		})
	}
	return rows
}
