package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/fixtures"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Upsert entries from a YAML or JSON file",
	Long: `Reads projects and experiences from a YAML or JSON file and upserts them
by slug. Every entry is validated before anything is written.

File layout:
  projects:
    - slug: pricing-engine
      title: Pricing engine
  experiences:
    - slug: data-analyst
      role: Data analyst`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Add missing entries from a fixtures file",
	Long: `Merges a fixtures file into the store: stored entries are kept as they
are and fixture entries whose slug is missing are appended. Without an
argument the configured storage.fixtures file is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}

	corpus, err := fixtures.ReadFile(args[0])
	if err != nil {
		return err
	}
	if err := portfolioService.Import(cmd.Context(), corpus); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Imported %d projects and %d experiences",
		len(corpus.Projects), len(corpus.Experiences))))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	target := seedService
	if target == nil {
		target = portfolioService
	}
	if target == nil {
		return errors.New("portfolio service not configured")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		path = settings.Storage.Fixtures
	}
	if path == "" {
		return errors.New("no fixtures file: pass one or set storage.fixtures")
	}

	corpus, err := fixtures.ReadFile(path)
	if err != nil {
		return err
	}
	projects, experiences, err := target.Seed(cmd.Context(), corpus)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Added %d projects and %d experiences", projects, experiences)))
	return nil
}
