package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/pipeline"
	"github.com/hessam/chronos/pkg/store"
)

// renderCommand creates the render command for producing SVG/DOT/JSON output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		view       string
		formatsStr string
		detailed   bool
		background string
		noCache    bool
		flags      viewFlags
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render a story snapshot to SVG, DOT, or JSON",
		Long: `Render a story snapshot to SVG, DOT, or JSON.

Runs the full layout pipeline over the snapshot and writes one file per
requested format. The graph view supports svg, dot, and json; the timeline
view supports svg and json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				ViewMode:   layout.ViewMode(view),
				Formats:    parseFormats(formatsStr),
				Detailed:   detailed,
				Background: background,
			}
			flags.apply(&opts)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file base (default: input path without extension)")
	cmd.Flags().StringVar(&view, "view", string(layout.ViewGraph), "view to render: graph (default), timeline")
	cmd.Flags().StringVarP(&formatsStr, "formats", "F", "svg", "comma-separated output formats: svg, dot, json")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include zone, layer, and properties in node labels")
	cmd.Flags().StringVar(&background, "background", "", "SVG background color (default: transparent)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runRender executes layout and render for a snapshot file and writes each
// artifact next to the input.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := store.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Project = projectNameFor(input)
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s view...", opts.ViewMode))
	spinner.Start()

	result, err := runner.ComputeLayout(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := outputPathFor(input, output, "")
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(snap.Entities), len(snap.Relationships), renderHit)

	return nil
}
