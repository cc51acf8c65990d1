package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/pipeline"
	"github.com/hessam/chronos/pkg/store"
)

// layoutCommand creates the layout command for computing the causal graph view.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   viewFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Compute the causal graph layout for a story snapshot",
		Long: `Compute the causal graph layout for a story snapshot.

The layout command takes a snapshot file (produced by 'import' or exported
from the API) and partitions its entities into a causally layered zone and a
contextual zone, assigning a position to every visible entity. The output is
a layout.json file that can be rendered with the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], layout.ViewGraph, flags, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// timelineCommand creates the timeline command for computing the swimlane view.
func (c *CLI) timelineCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   viewFlags
	)

	cmd := &cobra.Command{
		Use:   "timeline [snapshot.json]",
		Short: "Compute the timeline swimlane layout for a story snapshot",
		Long: `Compute the timeline swimlane layout for a story snapshot.

Each timeline entity becomes a horizontal lane, the canonical lane collects
events with no timeline association, and events shared between timelines are
duplicated into every associated lane with dashed connectors between the
copies. Temporal conflicts (an effect placed at or before its cause in a
different lane) are flagged, never silently corrected.

The output is a timeline.json file renderable with the 'render' command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], layout.ViewTimeline, flags, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.timeline.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runLayout loads the snapshot, computes the requested view, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, mode layout.ViewMode, flags viewFlags, output string, noCache bool) error {
	snap, err := store.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Project:  projectNameFor(input),
		ViewMode: mode,
		Logger:   c.Logger,
	}
	flags.apply(&opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", mode))
	spinner.Start()

	result, err := runner.ComputeLayout(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	suffix := ".layout.json"
	if mode == layout.ViewTimeline {
		suffix = ".timeline.json"
	}
	outputPath := outputPathFor(input, output, suffix)

	if err := writeLayoutFile(result, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(snap.Entities), len(snap.Relationships), result.CacheInfo.LayoutHit)
	if mode == layout.ViewTimeline && result.Timeline.Summary.ConflictCount > 0 {
		printWarning("%d temporal conflict(s) flagged", result.Timeline.Summary.ConflictCount)
	}
	printNewline()
	printNextStep("Render", "chronos render "+input+" --view "+string(mode))

	return nil
}

// writeLayoutFile writes whichever layout the result holds as indented JSON.
func writeLayoutFile(result *pipeline.Result, path string) error {
	var payload any
	if result.Timeline != nil {
		payload = result.Timeline
	} else {
		payload = result.Graph
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
