package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipsheet/clipsheet-agent/internal/export"
	"github.com/clipsheet/clipsheet-agent/internal/project"
	"github.com/clipsheet/clipsheet-agent/internal/timeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract [project_file]",
	Short: "Extract a sequence's clip sheet to CSV",
	Long: `Extract clip timing from one sequence of a Premiere Pro project and write
it as CSV. Without --sequence the project's first sequence is used.

Examples:
  clipsheet extract promo.prproj
  clipsheet extract promo.prproj -s "Main Edit" -o clips.csv
  clipsheet extract promo.prproj --per-instance --cap 0`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("sequence", "s", "", "Sequence name (default: first sequence in the project)")
	extractCmd.Flags().
		StringP("output", "o", "", "Output CSV path (default: <project>__<sequence>_timeline.csv)")
	extractCmd.Flags().
		Float64("fps", 0, "Override the detected frame rate")
	extractCmd.Flags().
		Float64("cap", 40, "Drop clips starting at or after this many seconds (0 disables)")
	extractCmd.Flags().
		Bool("per-instance", false, "Write one row per clip instance instead of the grouped view")
}

func runExtract(cmd *cobra.Command, args []string) error {
	projectPath := args[0]

	sequence, _ := cmd.Flags().GetString("sequence")
	outputPath, _ := cmd.Flags().GetString("output")
	fps, _ := cmd.Flags().GetFloat64("fps")
	capSeconds, _ := cmd.Flags().GetFloat64("cap")
	perInstance, _ := cmd.Flags().GetBool("per-instance")

	graph, err := project.Load(projectPath)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	if sequence == "" {
		sequences := graph.Sequences()
		if len(sequences) == 0 {
			return fmt.Errorf("project %s contains no sequences", projectPath)
		}
		sequence = sequences[0].Name
		logger.Info("no sequence given, using first", "sequence", sequence)
	}

	extractor := timeline.NewExtractor(graph, logger)
	result, err := extractor.Extract(sequence, timeline.Options{
		FPSOverride: fps,
		CapSeconds:  capSeconds,
	})
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
		outputPath = export.TimelineCSVName(base, result.SequenceName)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if perInstance {
		err = export.WritePerInstanceCSV(f, result.PerInstance)
	} else {
		err = export.WriteGroupedCSV(f, result.Grouped)
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Extracted %d clips (%d instances) from %q: %s\n",
		len(result.Grouped), len(result.PerInstance), result.SequenceName, absOutput)

	return nil
}
