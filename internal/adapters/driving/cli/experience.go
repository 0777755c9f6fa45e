package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	experienceDrafts bool
	experienceJSON   bool
)

var experienceCmd = &cobra.Command{
	Use:   "experience",
	Short: "Manage professional experiences",
}

var experienceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiences",
	Args:  cobra.NoArgs,
	RunE:  runExperienceList,
}

var experienceShowCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show an experience",
	Long: `Shows an experience as stored, confidential missions included.
Public surfaces (HTTP, MCP, model context) only ever see the placeholder.`,
	Args: cobra.ExactArgs(1),
	RunE: runExperienceShow,
}

var experienceDeleteCmd = &cobra.Command{
	Use:   "delete [slug]",
	Short: "Delete an experience",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperienceDelete,
}

func init() {
	experienceListCmd.Flags().BoolVar(&experienceDrafts, "drafts", false, "include drafts")
	experienceListCmd.Flags().BoolVar(&experienceJSON, "json", false, "output as JSON")
	experienceShowCmd.Flags().BoolVar(&experienceJSON, "json", false, "output as JSON")
	experienceCmd.AddCommand(experienceListCmd, experienceShowCmd, experienceDeleteCmd)
	rootCmd.AddCommand(experienceCmd)
}

func runExperienceList(cmd *cobra.Command, _ []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}

	experiences, err := portfolioService.ListExperiences(cmd.Context(), experienceDrafts)
	if err != nil {
		return fmt.Errorf("listing experiences: %w", err)
	}
	if experienceJSON {
		return printJSON(cmd.OutOrStdout(), experiences)
	}
	if len(experiences) == 0 {
		cmd.Println("No experiences.")
		return nil
	}

	rows := make([][]string, len(experiences))
	for i, e := range experiences {
		role := truncate(e.Role, cellWidth)
		if e.IsConfidential {
			role += " *"
		}
		rows[i] = []string{e.Slug, role, orDash(e.Company), orDash(e.Period), statusLabel(e.Status)}
	}
	if err := renderTable(cmd.OutOrStdout(), []string{"Slug", "Role", "Company", "Period", "Status"}, rows); err != nil {
		return err
	}
	for _, e := range experiences {
		if e.IsConfidential {
			cmd.Println(mutedStyle.Render("* confidential: missions are redacted on public surfaces"))
			break
		}
	}
	return nil
}

func runExperienceShow(cmd *cobra.Command, args []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}

	e, err := portfolioService.GetExperience(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if experienceJSON {
		return printJSON(cmd.OutOrStdout(), e)
	}

	cmd.Println(titleStyle.Render(e.Role))
	if e.Tagline != "" {
		cmd.Println(mutedStyle.Render(e.Tagline))
	}
	cmd.Println()
	printField(cmd, "Slug", e.Slug)
	printField(cmd, "Company", e.Company)
	printField(cmd, "Period", e.Period)
	printField(cmd, "Location", e.Location)
	printField(cmd, "Type", string(e.Type))
	printField(cmd, "Tools", strings.Join(e.Tools, ", "))
	printField(cmd, "Status", statusLabel(e.Status))
	printField(cmd, "Updated", e.UpdatedAt)
	cmd.Println()
	printSection(cmd, "Description", e.Description)

	if len(e.Missions) > 0 {
		label := "Missions"
		if e.IsConfidential {
			label += " (confidential)"
		}
		cmd.Println(titleStyle.Render(label))
		for _, m := range e.Missions {
			cmd.Printf("  - %s\n", m)
		}
	}
	return nil
}

func runExperienceDelete(cmd *cobra.Command, args []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}
	if err := portfolioService.DeleteExperience(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Deleted experience %s", args[0])))
	return nil
}
