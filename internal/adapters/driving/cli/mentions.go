package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var mentionsCmd = &cobra.Command{
	Use:   "mentions [prefix]",
	Short: "List entities that can be referenced with @slug",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMentions,
}

func init() {
	rootCmd.AddCommand(mentionsCmd)
}

func runMentions(cmd *cobra.Command, args []string) error {
	if portfolioService == nil {
		return errors.New("portfolio service not configured")
	}

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	candidates, err := portfolioService.MentionCandidates(cmd.Context(), prefix)
	if err != nil {
		return fmt.Errorf("listing mentions: %w", err)
	}
	if len(candidates) == 0 {
		cmd.Println("No matching entries.")
		return nil
	}

	rows := make([][]string, len(candidates))
	for i, c := range candidates {
		rows[i] = []string{"@" + c.Slug, string(c.Kind), truncate(c.Label, cellWidth)}
	}
	return renderTable(cmd.OutOrStdout(), []string{"Mention", "Type", "Label"}, rows)
}
