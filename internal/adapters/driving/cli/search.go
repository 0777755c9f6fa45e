package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Ask a question about the portfolio",
	Long: `Answers a question from the portfolio and lists the related projects
and experiences. Without a configured LLM the ranked matches are listed
with no written answer. Use @slug to reference an entity explicitly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := strings.Join(args, " ")
	answer, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd.OutOrStdout(), answer)
	}
	return outputSearch(cmd, answer)
}

func outputSearch(cmd *cobra.Command, answer *domain.SearchAnswer) error {
	if answer.Answer != "" {
		cmd.Println(answer.Answer)
		cmd.Println()
	}

	if len(answer.RelatedProjects) == 0 && len(answer.RelatedExperiences) == 0 {
		cmd.Println("No related entries found.")
		return nil
	}

	rows := make([][]string, 0, len(answer.RelatedProjects)+len(answer.RelatedExperiences))
	for _, p := range answer.RelatedProjects {
		rows = append(rows, []string{string(domain.KindProject), p.Slug, truncate(p.Title, cellWidth), orDash(p.Company)})
	}
	for _, e := range answer.RelatedExperiences {
		rows = append(rows, []string{string(domain.KindExperience), e.Slug, truncate(e.Role, cellWidth), orDash(e.Company)})
	}

	cmd.Printf("Related (%s):\n", answer.Type)
	return renderTable(cmd.OutOrStdout(), []string{"Type", "Slug", "Title", "Company"}, rows)
}
