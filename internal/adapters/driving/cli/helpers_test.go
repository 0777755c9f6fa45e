package cli

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/core/services"
)

// fakeLLM answers searches with a fixed JSON reply and streams chat deltas.
type fakeLLM struct {
	reply    string
	deltas   []string
	err      error
	messages []driven.ChatMessage
}

func (f *fakeLLM) Generate(_ context.Context, _, _ string, _ driven.GenerateOptions) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return strings.Join(f.deltas, ""), f.err
}

func (f *fakeLLM) ChatStream(
	_ context.Context,
	messages []driven.ChatMessage,
	_ driven.ChatOptions,
	onDelta func(string) error,
) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	var sb strings.Builder
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return sb.String(), err
		}
		sb.WriteString(d)
	}
	return sb.String(), nil
}

func (f *fakeLLM) ModelName() string          { return "fake" }
func (f *fakeLLM) Ping(_ context.Context) error { return f.err }
func (f *fakeLLM) Close() error                 { return nil }

func testCorpus() domain.Corpus {
	return domain.Corpus{
		Projects: []domain.Project{
			{
				Slug: "pricing-engine", Title: "Pricing engine", Company: "Acme", Year: "2024",
				Category: domain.CategoryData, Tagline: "Dynamic pricing for retail",
				Result: "Cut churn by 12%", UpdatedAt: "2024-03-01",
			},
			{Slug: "draft-project", Title: "Unfinished", Company: "Globex", Status: domain.StatusDraft},
		},
		Experiences: []domain.Experience{
			{
				Slug: "data-analyst", Role: "Data analyst", Company: "Acme Inc", Period: "2023",
				Type: domain.ExperienceWork, Missions: []string{"Owned weekly reporting"},
			},
			{
				Slug: "secret-role", Role: "Strategy lead", Company: "Initech", Type: domain.ExperienceWork,
				IsConfidential: true, Missions: []string{"Hidden mission"},
			},
		},
	}
}

// testEnv is a fully wired set of services over an in-memory store.
type testEnv struct {
	store    *memory.EntityStore
	config   *memory.ConfigStore
	llm      *fakeLLM
	settings *services.SettingsService
}

// setupTestServices injects services over a seeded memory store and
// returns a cleanup restoring the previous ones.
func setupTestServices() (*testEnv, func()) {
	env := &testEnv{
		store:  memory.NewSeededEntityStore(testCorpus()),
		config: memory.NewConfigStore(),
		llm: &fakeLLM{
			reply:  `{"answer":"Pricing work at Acme.","relatedProjects":["pricing-engine"],"relatedExperiences":[],"type":"projects"}`,
			deltas: []string{"Hi ", "there"},
		},
	}
	env.settings = services.NewSettingsService(env.config, nil)

	portfolio := services.NewPortfolioService(env.store)
	retrieval := services.NewRetrievalService(portfolio, nil, nil, domain.DefaultAppSettings().Retrieval)
	restore := SetServices(ServiceSet{
		Portfolio: portfolio,
		Retrieval: retrieval,
		Search:    services.NewSearchService(retrieval, portfolio, env.llm),
		Chat:      services.NewChatService(retrieval, env.llm),
		Settings:  env.settings,
	})
	return env, restore
}

// execute runs the root command with args and returns its output.
func execute(stdin string, args ...string) (string, error) {
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	var in io.Reader = strings.NewReader(stdin)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags clears flag values left over from a previous run.
func resetFlags() {
	searchJSON = false
	projectDrafts = false
	projectJSON = false
	experienceDrafts = false
	experienceJSON = false
	chatMessage = ""
	serveAddr = ""
	verbose = false
	ephemeral = false
	configDir = ""
}

// noopPortfolio satisfies the bootstrap guard without any behaviour.
type noopPortfolio struct {
	driving.PortfolioService
}

// chatWithoutLLM builds a chat service with no model configured.
func chatWithoutLLM() *services.ChatService {
	portfolio := services.NewPortfolioService(memory.NewSeededEntityStore(testCorpus()))
	retrieval := services.NewRetrievalService(portfolio, nil, nil, domain.DefaultAppSettings().Retrieval)
	return services.NewChatService(retrieval, nil)
}
