package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipsheet/clipsheet-agent/internal/project"
)

var sequencesCmd = &cobra.Command{
	Use:   "sequences [project_file]",
	Short: "List the sequences in a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runSequences,
}

func init() {
	rootCmd.AddCommand(sequencesCmd)
}

func runSequences(cmd *cobra.Command, args []string) error {
	graph, err := project.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	sequences := graph.Sequences()
	if len(sequences) == 0 {
		fmt.Println("No sequences found.")
		return nil
	}

	for _, s := range sequences {
		fmt.Printf("%s\t%s\n", s.ID, s.Name)
	}
	return nil
}
