package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hessam/chronos/pkg/manifest"
	"github.com/hessam/chronos/pkg/store"
)

// importCommand creates the import command for TOML story manifests.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output   string
		project  string
		storeDir string
	)

	cmd := &cobra.Command{
		Use:   "import [story.toml]",
		Short: "Import a TOML story manifest into a snapshot",
		Long: `Import a TOML story manifest into a snapshot.

A manifest declares entities, relationships, and timeline variants in TOML.
The import validates the manifest (known entity types, unique IDs, resolvable
relationship endpoints) and writes the resulting snapshot either to a JSON
file or into a project store directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], output, project, storeDir)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot output file (default: <input>.json)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "project name (default: manifest name)")
	cmd.Flags().StringVar(&storeDir, "store", "", "write into this project store directory instead of a single file")

	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, input, output, project, storeDir string) error {
	m, err := manifest.Load(input)
	if err != nil {
		return fmt.Errorf("load manifest %s: %w", input, err)
	}

	snap := m.Snapshot()
	if project == "" {
		project = m.Name
	}
	if project == "" {
		project = projectNameFor(input)
	}

	if storeDir != "" {
		st, err := store.NewFileStore(storeDir)
		if err != nil {
			return fmt.Errorf("open store %s: %w", storeDir, err)
		}
		if err := st.SaveSnapshot(cmd.Context(), project, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		printSuccess("Imported %q into store", project)
		printDetail("Directory: %s", storeDir)
	} else {
		outputPath := outputPathFor(input, output, ".json")
		if err := store.WriteSnapshotFile(snap, outputPath); err != nil {
			return fmt.Errorf("write snapshot %s: %w", outputPath, err)
		}
		printSuccess("Imported %q", project)
		printFile(outputPath)
	}

	printStats(len(snap.Entities), len(snap.Relationships), false)
	if n := len(snap.Variants); n > 0 {
		printDetail("%d timeline variant(s)", n)
	}
	printNewline()
	printNextStep("Layout", "chronos layout "+outputPathFor(input, output, ".json"))

	return nil
}
