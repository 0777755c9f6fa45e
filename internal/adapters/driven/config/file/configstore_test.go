package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, HomeDirName, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("http.addr", ":9090"))
	require.NoError(t, store.Set("retrieval.token_budget", 1500))
	require.NoError(t, store.Set("debug.enabled", true))
	require.NoError(t, store.Set("http.allowed_origins", []string{"https://a.dev"}))

	assert.Equal(t, ":9090", store.GetString("http.addr"))
	assert.Equal(t, 1500, store.GetInt("retrieval.token_budget"))
	assert.True(t, store.GetBool("debug.enabled"))
	assert.Equal(t, []string{"https://a.dev"}, store.GetStringSlice("http.allowed_origins"))

	// Wrong types read as zero values.
	assert.Equal(t, 0, store.GetInt("http.addr"))
	assert.Empty(t, store.GetString("retrieval.token_budget"))
	assert.False(t, store.GetBool("http.addr"))
	assert.Nil(t, store.GetStringSlice("http.addr"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := newTestConfigStore(t)

	val, ok := store.Get("missing.key")

	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_WritesSections(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("storage.backend", "redis"))
	require.NoError(t, store.Set("storage.redis_db", 2))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[llm]")
	assert.Contains(t, content, "[storage]")
	assert.Contains(t, content, "provider = 'anthropic'")
	assert.NotContains(t, content, "storage.backend")
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o"))
	require.NoError(t, store.Set("retrieval.max_companies", 5))
	require.NoError(t, store.Set("http.allowed_origins", []string{"https://a.dev", "https://b.dev"}))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", reopened.GetString("llm.model"))
	assert.Equal(t, 5, reopened.GetInt("retrieval.max_companies"))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, reopened.GetStringSlice("http.allowed_origins"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[storage]
backend = "sqlite"
fixtures = "/srv/portfolio.yaml"

[http]
rate_per_minute = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "sqlite", store.GetString("storage.backend"))
	assert.Equal(t, "/srv/portfolio.yaml", store.GetString("storage.fixtures"))
	assert.Equal(t, 10, store.GetInt("http.rate_per_minute"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[broken"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_KeyConflict(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("llm", "flat"))
	assert.Error(t, store.Set("llm.provider", "openai"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix permissions only")
	}
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("llm.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("http.addr", ":8081"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Save())

	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestConfigStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.token_budget", n)
			_ = store.GetInt("retrieval.token_budget")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("retrieval.token_budget")
	assert.True(t, ok)
}

func TestNestKeys(t *testing.T) {
	tree, err := nestKeys(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, tree)

	flat := make(map[string]any)
	flattenInto(flat, tree, "")
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flat)
}
