package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Print the context assembled for a query",
	Long: `Prints the exact context block a language model would receive for the
query, followed by its token estimate, resolved mentions and any unknown
@slug references.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	r, err := retrievalService.Retrieve(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("building context: %w", err)
	}

	cmd.Println(r.Context)
	cmd.Println()

	status := fmt.Sprintf("%d tokens, %d projects, %d experiences", r.Tokens, len(r.Projects), len(r.Experiences))
	if r.Trimmed {
		status += " (trimmed to budget)"
	}
	cmd.Println(mutedStyle.Render(status))

	if len(r.Mentioned) > 0 {
		refs := make([]string, len(r.Mentioned))
		for i, ref := range r.Mentioned {
			refs[i] = fmt.Sprintf("%s:%s", ref.Kind, ref.Slug)
		}
		cmd.Println(mutedStyle.Render("Mentioned: " + strings.Join(refs, ", ")))
	}
	if len(r.Unmatched) > 0 {
		cmd.Println(warningStyle.Render("Unknown mentions: @" + strings.Join(r.Unmatched, ", @")))
	}
	return nil
}
