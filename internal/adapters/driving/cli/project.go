package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var (
	projectDrafts bool
	projectJSON   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage portfolio projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [slug]",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	projectListCmd.Flags().BoolVar(&projectDrafts, "drafts", false, "include drafts")
	projectListCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")
	projectShowCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")
	projectCmd.AddCommand(projectListCmd, projectShowCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}

	projects, err := portfolioService.ListProjects(cmd.Context(), projectDrafts)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	if projectJSON {
		return printJSON(cmd.OutOrStdout(), projects)
	}
	if len(projects) == 0 {
		cmd.Println("No projects.")
		return nil
	}

	rows := make([][]string, len(projects))
	for i, p := range projects {
		rows[i] = []string{p.Slug, truncate(p.Title, cellWidth), orDash(p.Company), orDash(p.Year), statusLabel(p.Status)}
	}
	return renderTable(cmd.OutOrStdout(), []string{"Slug", "Title", "Company", "Year", "Status"}, rows)
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}

	p, err := portfolioService.GetProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if projectJSON {
		return printJSON(cmd.OutOrStdout(), p)
	}

	cmd.Println(titleStyle.Render(p.Title))
	if p.Tagline != "" {
		cmd.Println(mutedStyle.Render(p.Tagline))
	}
	cmd.Println()
	printField(cmd, "Slug", p.Slug)
	printField(cmd, "Company", p.Company)
	printField(cmd, "Category", string(p.Category))
	printField(cmd, "Year", p.Year)
	printField(cmd, "Duration", p.Duration)
	printField(cmd, "Tags", strings.Join(p.Tags, ", "))
	printField(cmd, "Status", statusLabel(p.Status))
	printField(cmd, "Updated", p.UpdatedAt)
	if p.IsNDA {
		cmd.Println(warningStyle.Render("  Under NDA"))
	}
	cmd.Println()
	printSection(cmd, "Context", p.Context)
	printSection(cmd, "Problem", p.Problem)
	printSection(cmd, "Method", p.Method)
	printSection(cmd, "Result", p.Result)
	printSection(cmd, "Impact", p.Impact)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}
	if err := portfolioService.DeleteProject(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Deleted project %s", args[0])))
	return nil
}

func statusLabel(s domain.Status) string {
	if s.IsPublished() {
		return string(domain.StatusPublished)
	}
	return string(s)
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		return
	}
	cmd.Printf("  %-10s %s\n", label+":", value)
}

func printSection(cmd *cobra.Command, label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	cmd.Println(titleStyle.Render(label))
	cmd.Println(strings.TrimSpace(text))
	cmd.Println()
}
