package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// contextPlaceholder is where the retrieved context is inserted.
const contextPlaceholder = "%s"

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// Files are only created on first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSearchSystem: `You answer questions about a personal portfolio of projects (deliverables) and experiences (jobs).
Use only the context below. Entries listed as explicitly mentioned are authoritative.
If the user references something listed as unknown, say you do not recognise it.
Never attribute a project outcome to a job or a job responsibility to a project.

Reply with a single JSON object and nothing else:
{"answer": "<2-4 sentences>", "relatedProjects": ["<slug>"], "relatedExperiences": ["<slug>"], "type": "projects|experiences|mixed|general"}

Context:
%s`,

	driven.PromptChatSystem: `You are the assistant of a personal portfolio. You help visitors understand the projects (deliverables) and experiences (jobs) below.

Rules:
1. Use only the context below; do not invent employers, dates or figures.
2. Entries listed as explicitly mentioned are authoritative for this turn.
3. If the user references something listed as unknown, say you do not recognise it.
4. When a company appears both as a job and as a project, keep project outcomes and job responsibilities apart.
5. Confidential missions stay confidential; do not speculate about them.
6. Answer in the language of the user, concisely.

Context:
%s`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.folio/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := HomeDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Names returns the known prompt names, sorted.
func Names() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the prompt template for the given name.
// A user file that is missing or lost its context placeholder gives way
// to the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	defaultPrompt, known := defaultPrompts[name]
	if !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Debug("Prompt store unavailable, using default %s: %v", name, s.initErr)
		return defaultPrompt, nil
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O.
	prompt, err := s.loadFromFile(name)
	switch {
	case err != nil:
		logger.Debug("Load prompt file %s: %v", name, err)
		prompt = defaultPrompt
	case strings.Count(prompt, contextPlaceholder) != 1:
		logger.Warn("Prompt %s must contain exactly one %s placeholder, using default", name, contextPlaceholder)
		prompt = defaultPrompt
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, default files and README.
// Existing files are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# Folio Prompts

System prompts sent to the language model by folio.

## Files

- ` + "`search_system.txt`" + ` - Answers a search query with a JSON object
- ` + "`chat_system.txt`" + ` - Persona and rules of the portfolio assistant

## Customisation

Edit any file to change the model's behaviour. Changes take effect on the
next command, or after restarting ` + "`folio serve`" + `.

## Placeholder

Each prompt must contain exactly one ` + "`%s`" + `, replaced by the retrieved
portfolio context. A prompt without it is ignored in favour of the default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
