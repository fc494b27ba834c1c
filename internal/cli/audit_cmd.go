package cli

import (
	"fmt"
	"runtime"

	"gymovoo/workout-engine/internal/planner"

	"github.com/spf13/cobra"
)

type auditReport struct {
	Users      int                 `yaml:"users"`
	Failed     map[string]string   `yaml:"failed,omitempty"`
	Violations []planner.Violation `yaml:"violations,omitempty"`
}

func newAuditCmd(app *App) *cobra.Command {
	var answersPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Generate plans and check them against the profile they came from",
		Long: "audit generates plans for every user and verifies equipment containment, injury exclusion,\n" +
			"session counts, concrete prescriptions and that the smart plan extends the basic one.\n" +
			"It exits non-zero when any plan fails a check or cannot be generated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app.runBatch(cmd, answersPath, workers)
			if err != nil {
				return err
			}
			c, err := app.catalog()
			if err != nil {
				return err
			}

			report := auditReport{Users: len(results)}
			for _, res := range results {
				if res.Err != nil {
					if report.Failed == nil {
						report.Failed = make(map[string]string)
					}
					report.Failed[res.UserID] = res.Err.Error()
					continue
				}
				for _, v := range planner.AuditTiers(res.Plans.Basic, res.Plans.Smart, res.Profile, c) {
					v.Message = res.UserID + ": " + v.Message
					report.Violations = append(report.Violations, v)
				}
			}

			if err := writeYAML(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if len(report.Violations) > 0 || len(report.Failed) > 0 {
				return fmt.Errorf("audit failed: %d violations, %d users without plans", len(report.Violations), len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML or JSON file with a users list")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent generations")
	return cmd
}
