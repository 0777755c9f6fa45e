// Package cli provides the folio command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	ephemeral bool
	configDir string
)

// Services wired by bootstrap, or injected by SetServices.
var (
	portfolioService driving.PortfolioService
	retrievalService driving.RetrievalService
	searchService    driving.SearchService
	chatService      driving.ChatService
	settingsService  driving.SettingsService

	// seedService writes to the primary store only, bypassing the
	// fixtures fallback so that seeding sees what is really stored.
	seedService driving.PortfolioService
)

// runtime holds the resources opened by bootstrap.
var runtime *app

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio retrieval and assistant backend",
	Long: `Folio ranks portfolio projects and experiences against free-text
questions, resolves @slug mentions, flags companies that appear as both a
job and a project, and assembles the context handed to a language model.

It serves the public site over HTTP, exposes the same retrieval to AI
assistants over MCP and manages the stored portfolio from the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "use in-memory settings and storage")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default ~/.folio)")
}

// Execute runs the root command.
func Execute() error {
	defer closeRuntime()
	return rootCmd.Execute()
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ServiceSet groups the driving ports used by the commands.
type ServiceSet struct {
	Portfolio driving.PortfolioService
	Retrieval driving.RetrievalService
	Search    driving.SearchService
	Chat      driving.ChatService
	Settings  driving.SettingsService
	// Seed defaults to Portfolio when nil.
	Seed driving.PortfolioService
}

// SetServices injects services and skips bootstrap. It returns a function
// restoring the previous services.
func SetServices(s ServiceSet) func() {
	prev := ServiceSet{
		Portfolio: portfolioService,
		Retrieval: retrievalService,
		Search:    searchService,
		Chat:      chatService,
		Settings:  settingsService,
		Seed:      seedService,
	}
	apply := func(s ServiceSet) {
		portfolioService = s.Portfolio
		retrievalService = s.Retrieval
		searchService = s.Search
		chatService = s.Chat
		settingsService = s.Settings
		seedService = s.Seed
	}
	apply(s)
	return func() { apply(prev) }
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if !needsServices(cmd) || portfolioService != nil {
		return nil
	}
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	runtime = a
	return nil
}

// needsServices is false for commands that run without any wiring.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case versionCmd.Name(), "help", "completion":
		return false
	}
	return true
}

func closeRuntime() {
	if runtime == nil {
		return
	}
	runtime.Close()
	runtime = nil
	SetServices(ServiceSet{})
}
