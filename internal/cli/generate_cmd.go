package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/service"

	"github.com/spf13/cobra"
)

type generateSummary struct {
	UserID      string `yaml:"userId"`
	Hash        string `yaml:"sourceAnswersHash,omitempty"`
	Sessions    int    `yaml:"sessions,omitempty"`
	Exercises   int    `yaml:"exercises,omitempty"`
	Warnings    int    `yaml:"warnings,omitempty"`
	Adjustments int    `yaml:"adjustments,omitempty"`
	File        string `yaml:"file,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

func newGenerateCmd(app *App) *cobra.Command {
	var answersPath, outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate basic and smart plans for every user in an answers file",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app.runBatch(cmd, answersPath, workers)
			if err != nil {
				return err
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}

			summaries := make([]generateSummary, 0, len(results))
			failed := 0
			for _, res := range results {
				s := generateSummary{UserID: res.UserID}
				if res.Err != nil {
					failed++
					s.Error = res.Err.Error()
					summaries = append(summaries, s)
					continue
				}
				s.Hash = res.Plans.Basic.SourceAnswersHash
				s.Sessions = len(res.Plans.Basic.Sessions)
				s.Exercises = res.Plans.Basic.ExerciseCount()
				s.Warnings = len(res.Plans.Warnings)
				s.Adjustments = len(res.Plans.Adjustments)
				if outDir != "" {
					s.File = filepath.Join(outDir, res.UserID+".json")
					if err := writePlanFile(s.File, res); err != nil {
						return err
					}
				}
				summaries = append(summaries, s)
			}

			if err := writeYAML(cmd.OutOrStdout(), map[string]any{"plans": summaries}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d users could not be planned", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML or JSON file with a users list")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write one JSON plan file per user")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent generations")
	return cmd
}

func (a *App) runBatch(cmd *cobra.Command, answersPath string, workers int) ([]service.BatchResult, error) {
	requests, err := readAnswers(answersPath)
	if err != nil {
		return nil, err
	}
	c, err := a.catalog()
	if err != nil {
		return nil, err
	}
	engine := planner.NewEngine(c, planner.WithLogger(a.logger(cmd)))
	return service.GenerateBatch(cmd.Context(), engine, requests, workers)
}

func writePlanFile(path string, res service.BatchResult) error {
	body, err := json.MarshalIndent(struct {
		UserID  string             `json:"userId"`
		Profile domain.UserProfile `json:"profile"`
		Plans   planner.PlanSet    `json:"plans"`
	}{res.UserID, res.Profile, res.Plans}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plans for %s: %w", res.UserID, err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
