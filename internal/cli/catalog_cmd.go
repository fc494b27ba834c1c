package cli

import (
	"sort"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"

	"github.com/spf13/cobra"
)

type catalogSummary struct {
	Exercises     int            `yaml:"exercises"`
	Categories    map[string]int `yaml:"categories"`
	Difficulties  map[string]int `yaml:"difficulties"`
	Muscles       map[string]int `yaml:"primaryMuscles"`
	Injuries      []string       `yaml:"contraindications"`
	Environment   string         `yaml:"environment,omitempty"`
	EquipmentIDs  []string       `yaml:"equipment,omitempty"`
	Eligible      []string       `yaml:"eligible,omitempty"`
	EquipmentUsed map[string]int `yaml:"equipmentUse"`
}

func newCatalogCmd(app *App) *cobra.Command {
	var location, level string
	var equipment []string
	var full bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the exercise catalog and print a summary",
		Long: "catalog loads and validates the exercise catalog. With --location it also lists the\n" +
			"exercises a user with that setup could be assigned. --full prints the catalog itself.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.catalog()
			if err != nil {
				return err
			}
			if full {
				return c.Encode(cmd.OutOrStdout())
			}

			summary := catalogSummary{
				Exercises:     c.Len(),
				Categories:    map[string]int{},
				Difficulties:  map[string]int{},
				Muscles:       map[string]int{},
				EquipmentUsed: map[string]int{},
			}
			injuries := map[string]bool{}
			for _, ex := range c.All() {
				summary.Categories[string(ex.Category)]++
				summary.Difficulties[string(ex.Difficulty)]++
				summary.Muscles[string(ex.PrimaryMuscle())]++
				for _, id := range ex.RequiredEquipment {
					summary.EquipmentUsed[id]++
				}
				for _, tag := range ex.Contraindications {
					injuries[tag] = true
				}
			}
			for tag := range injuries {
				summary.Injuries = append(summary.Injuries, tag)
			}
			sort.Strings(summary.Injuries)

			if location != "" {
				resolver := planner.NewEquipmentResolver(app.logger(cmd))
				profile, warnings, err := resolver.Resolve(domain.Location(location), domain.Selections(equipment...))
				if err != nil {
					return err
				}
				for _, w := range warnings {
					cmd.PrintErrln("warning:", w.String())
				}
				lvl := domain.Level(level)
				if !lvl.Valid() {
					return &domain.InvalidProfileError{Field: "level", Value: level}
				}
				summary.Environment = string(profile.Environment)
				summary.EquipmentIDs = profile.EquipmentIDs
				for _, ex := range c.All() {
					if planner.Eligible(ex, profile, lvl) {
						summary.Eligible = append(summary.Eligible, ex.ID)
					}
				}
			}
			return writeYAML(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "home_bodyweight, home_equipment or gym")
	cmd.Flags().StringSliceVar(&equipment, "equipment", nil, "equipment ids available at the location")
	cmd.Flags().StringVar(&level, "level", string(domain.LevelAdvanced), "experience level used for the eligibility list")
	cmd.Flags().BoolVar(&full, "full", false, "print the whole catalog as YAML")
	return cmd
}
