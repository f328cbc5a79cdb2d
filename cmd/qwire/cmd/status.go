package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamlens/qwire/internal/unitgen"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List generated parser units and whether they are running",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadGeneratorConfig()
	if err != nil {
		return fmt.Errorf("qwire status: %w", err)
	}

	gen := unitgen.NewGenerator(*cfg, unitgen.NewInitController(), unitgen.NewPrivilegeChecker(), setupLogger(cmd.ErrOrStderr()))

	statuses, err := gen.Status()
	if err != nil {
		return fmt.Errorf("qwire status: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(statuses) == 0 {
		fmt.Fprintln(out, "no generated units found")
		return nil
	}
	for _, st := range statuses {
		state := "inactive"
		if st.Active {
			state = "active"
		}
		fmt.Fprintf(out, "%s\t%s\n", st.UnitName, state)
	}
	return nil
}
