// Package cli implements plangen, the batch tool for generating and checking
// workout plans outside the HTTP service.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// App holds state shared by every subcommand.
type App struct {
	CatalogPath string
	Verbose     bool
}

// NewRootCmd creates the top-level "plangen" command.
func NewRootCmd() *cobra.Command {
	app := &App{}
	root := &cobra.Command{
		Use:           "plangen",
		Short:         "Generate and audit workout plans from questionnaire answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.CatalogPath, "catalog", "", "exercise catalog file (YAML or JSON); built-in catalog when empty")
	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "log engine decisions to stderr")

	root.AddCommand(
		newGenerateCmd(app),
		newAuditCmd(app),
		newCatalogCmd(app),
	)
	return root
}

func (a *App) catalog() (*catalog.Catalog, error) {
	if a.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(a.CatalogPath)
}

func (a *App) logger(cmd *cobra.Command) *slog.Logger {
	if !a.Verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// answersFile is the batch input: a list of users and their raw answers.
type answersFile struct {
	Users []service.BatchRequest `yaml:"users"`
}

func readAnswers(path string) ([]service.BatchRequest, error) {
	if path == "" {
		return nil, fmt.Errorf("--answers is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	// JSON documents are valid YAML, so one decoder serves both.
	var file answersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing answers %s: %w", path, err)
	}
	if len(file.Users) == 0 {
		return nil, fmt.Errorf("answers %s: no users", path)
	}
	for i, u := range file.Users {
		if u.UserID == "" {
			file.Users[i].UserID = fmt.Sprintf("user-%d", i+1)
			continue
		}
		// Ids become file names under --out.
		if strings.ContainsAny(u.UserID, `/\`) || u.UserID == "." || u.UserID == ".." {
			return nil, fmt.Errorf("answers %s: userId %q must not contain path separators", path, u.UserID)
		}
	}
	return file.Users, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
