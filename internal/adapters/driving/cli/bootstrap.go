package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/folio/internal/adapters/driven/ai"
	"github.com/custodia-labs/folio/internal/adapters/driven/config/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/fallback"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/fixtures"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/folio/internal/adapters/driven/tokens"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/retrieval"
	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/logger"
)

// storeConnectTimeout bounds the initial connection to a remote store.
const storeConnectTimeout = 5 * time.Second

// app owns the adapters opened for one command run.
type app struct {
	settings domain.AppSettings
	store    driven.EntityStore
	primary  driven.EntityStore
	prompts  driven.PromptStore
	llm      *ai.InitResult
	cache    *retrieval.IndexCache
}

// Close releases the store and the LLM client.
func (a *app) Close() {
	if a.llm != nil {
		a.llm.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
}

// watchable returns the store as a WatchableStore when fixtures are configured.
func (a *app) watchable() (driven.WatchableStore, bool) {
	w, ok := a.store.(driven.WatchableStore)
	return w, ok
}

// watchFixtures reloads the fixtures file on every write until ctx is done.
// Edits may keep the cache fingerprint, so each reload drops the index.
func (a *app) watchFixtures(ctx context.Context) {
	w, ok := a.watchable()
	if !ok {
		return
	}
	go func() {
		err := w.Watch(ctx, a.fixturesChanged)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Fixtures watch stopped: %v", err)
		}
	}()
}

func (a *app) fixturesChanged() {
	if a.cache != nil {
		a.cache.Invalidate()
	}
	logger.Info("Fixtures changed, serving the new content")
}

// bootstrap wires settings, storage, the LLM and the services.
func bootstrap(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Section("Bootstrap")
	start := time.Now()
	defer logger.Since("bootstrap", start)

	var configStore driven.ConfigStore
	if ephemeral {
		configStore = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(configDir)
		if err != nil {
			return nil, fmt.Errorf("opening settings: %w", err)
		}
		configStore = fileStore
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	a := &app{settings: *settings}
	a.store, a.primary, err = openStore(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}

	a.llm = ai.Init(&settings.LLM, false)
	for _, w := range a.llm.Warnings {
		logger.Warn("%s", w)
	}

	if !ephemeral {
		dir := ""
		if configDir != "" {
			dir = filepath.Join(configDir, "prompts")
		}
		prompts, err := file.NewPromptStore(dir)
		if err != nil {
			logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
		} else {
			a.prompts = prompts
		}
	}

	portfolio := services.NewPortfolioService(a.store)
	a.cache = retrieval.NewIndexCache()
	assembler := retrieval.NewAssembler(a.cache)
	var counter driven.TokenCounter = tokens.NewCounter()
	if ephemeral {
		counter = tokens.Estimator{}
	}
	retrievalSvc := services.NewRetrievalService(portfolio, assembler, counter, settings.Retrieval)

	search := services.NewSearchService(retrievalSvc, portfolio, a.llm.LLMService)
	chat := services.NewChatService(retrievalSvc, a.llm.LLMService)
	if a.prompts != nil {
		search.SetPromptStore(a.prompts)
		chat.SetPromptStore(a.prompts)
	}

	seed := portfolio
	if a.primary != nil && a.primary != a.store {
		seed = services.NewPortfolioService(a.primary)
		seed.OnChange(a.cache.Invalidate)
	}

	SetServices(ServiceSet{
		Seed:      seed,
		Portfolio: portfolio,
		Retrieval: retrievalSvc,
		Search:    search,
		Chat:      chat,
		Settings:  settingsSvc,
	})
	return a, nil
}

// openStore opens the configured primary store and, when a fixtures file
// is set, layers it underneath as the read fallback. The primary is nil
// when only the fixtures could be opened.
func openStore(ctx context.Context, cfg domain.StorageSettings) (store, primary driven.EntityStore, err error) {
	var secondary driven.EntityStore
	if cfg.Fixtures != "" {
		fx, err := fixtures.NewStore(cfg.Fixtures)
		if err != nil {
			return nil, nil, fmt.Errorf("loading fixtures: %w", err)
		}
		secondary = fx
	}

	primary, err = openPrimary(ctx, cfg)
	if err != nil {
		if secondary == nil || !errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, nil, err
		}
		logger.Warn("Primary store unavailable, serving fixtures read-only: %v", err)
		return secondary, nil, nil
	}
	if secondary == nil {
		return primary, primary, nil
	}
	return fallback.NewStore(primary, secondary), primary, nil
}

func openPrimary(ctx context.Context, cfg domain.StorageSettings) (driven.EntityStore, error) {
	backend := cfg.Backend
	if ephemeral {
		backend = domain.StorageMemory
	}
	logger.Debug("Storage backend: %s", backend)

	switch backend {
	case domain.StorageMemory:
		return memory.NewEntityStore(), nil
	case domain.StorageSQLite, "":
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return store, nil
	case domain.StorageRedis:
		ctx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
		defer cancel()
		return redis.NewStore(ctx, redis.Config{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, backend)
	}
}
