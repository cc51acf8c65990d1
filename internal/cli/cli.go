// Package cli implements the chronos command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hessam/chronos/pkg/buildinfo"
	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/pipeline"
	"github.com/hessam/chronos/pkg/story"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "chronos"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "chronos",
		Short:        "Chronos lays out story graphs and timelines",
		Long:         `Chronos is a CLI tool for laying out story worlds: it turns entities, relationships, and timeline variants into causal graph diagrams and timeline swimlane charts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.timelineCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Storeless commands pass a
// nil store and feed snapshots through ComputeLayout directly.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(nil, cch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chronos/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// viewFlags are the layout-shaping flags shared by every command that runs
// an engine.
type viewFlags struct {
	selectedID string
	focusID    string
	search     string
	hideTypes  []string
	relTypes   []string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.selectedID, "select", "s", "", "entity ID to highlight with its causal neighborhood")
	cmd.Flags().StringVarP(&f.focusID, "focus", "f", "", "timeline ID to resolve variants against")
	cmd.Flags().StringVar(&f.search, "search", "", "keep only entities matching this text")
	cmd.Flags().StringSliceVar(&f.hideTypes, "hide-types", nil, "entity types to hide (e.g. note,theme)")
	cmd.Flags().StringSliceVar(&f.relTypes, "rel-types", nil, "relationship types to keep (default: all)")
}

func (f *viewFlags) apply(opts *pipeline.Options) {
	opts.SelectedID = f.selectedID
	opts.FocusTimelineID = f.focusID
	opts.Filters.Search = f.search
	for _, t := range f.hideTypes {
		opts.Filters.HiddenTypes = append(opts.Filters.HiddenTypes, story.EntityType(strings.TrimSpace(t)))
	}
	for _, t := range f.relTypes {
		opts.Filters.RelationshipTypes = append(opts.Filters.RelationshipTypes, strings.TrimSpace(t))
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// projectNameFor derives a project name from a snapshot file path. The
// pipeline only uses it for cache keys and log lines in file mode.
func projectNameFor(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputPathFor derives an output filename from the input snapshot path.
func outputPathFor(input, output, suffix string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix
}
