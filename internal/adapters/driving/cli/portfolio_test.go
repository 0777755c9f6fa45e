package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestContextCmd_PrintsContext(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "context", "pricing", "@pricing-engine", "@ghost")

	require.NoError(t, err)
	assert.Contains(t, out, "Pricing engine")
	assert.Contains(t, out, "tokens")
	assert.Contains(t, out, "Mentioned: project:pricing-engine")
	assert.Contains(t, out, "Unknown mentions: @ghost")
}

func TestContextCmd_ShowsDisambiguation(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "context", "what did you do at acme")

	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.NotContains(t, out, "Hidden mission")
}

func TestMentionsCmd(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "mentions")
	require.NoError(t, err)
	assert.Contains(t, out, "@pricing-engine")
	assert.Contains(t, out, "@data-analyst")
	assert.NotContains(t, out, "draft-project")

	out, err = execute("", "mentions", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching entries.")
}

func TestProjectListCmd(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "pricing-engine")
	assert.NotContains(t, out, "draft-project")

	out, err = execute("", "project", "list", "--drafts")
	require.NoError(t, err)
	assert.Contains(t, out, "draft-project")
}

func TestProjectListCmd_JSON(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "project", "list", "--json")

	require.NoError(t, err)
	var projects []domain.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "pricing-engine", projects[0].Slug)
}

func TestProjectShowCmd(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "project", "show", "pricing-engine")

	require.NoError(t, err)
	assert.Contains(t, out, "Pricing engine")
	assert.Contains(t, out, "Dynamic pricing for retail")
	assert.Contains(t, out, "Cut churn by 12%")
}

func TestProjectShowCmd_NotFound(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	_, err := execute("", "project", "show", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectDeleteCmd(t *testing.T) {
	env, restore := setupTestServices()
	defer restore()

	out, err := execute("", "project", "delete", "pricing-engine")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project pricing-engine")
	projects, err := env.store.LoadProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestExperienceListCmd_MarksConfidential(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "experience", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "secret-role")
	assert.Contains(t, out, "Strategy lead *")
	assert.Contains(t, out, "confidential")
}

func TestExperienceShowCmd(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	out, err := execute("", "experience", "show", "secret-role")

	require.NoError(t, err)
	assert.Contains(t, out, "Missions (confidential)")
	assert.Contains(t, out, "Hidden mission")
}

func TestExperienceDeleteCmd_NotFound(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	_, err := execute("", "experience", "delete", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func writeFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportCmd_Upserts(t *testing.T) {
	env, restore := setupTestServices()
	defer restore()
	path := writeFixtures(t, `
projects:
  - slug: pricing-engine
    title: Pricing engine v2
    company: Acme
    category: data
  - slug: churn-model
    title: Churn model
    company: Globex
    category: data
`)

	out, err := execute("", "import", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 projects and 0 experiences")
	projects, err := env.store.LoadProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Pricing engine v2", projects[0].Title)
	assert.Equal(t, "churn-model", projects[2].Slug)
}

func TestImportCmd_InvalidEntry(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()
	path := writeFixtures(t, `
projects:
  - slug: "Not A Slug"
    title: Broken
`)

	_, err := execute("", "import", path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportCmd_MissingFile(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	_, err := execute("", "import", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestSeedCmd_AppendsMissing(t *testing.T) {
	env, restore := setupTestServices()
	defer restore()
	path := writeFixtures(t, `
projects:
  - slug: pricing-engine
    title: Should not replace
  - slug: churn-model
    title: Churn model
experiences: []
`)

	out, err := execute("", "seed", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 projects and 0 experiences")
	projects, err := env.store.LoadProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Pricing engine", projects[0].Title)
}

func TestSeedCmd_UsesConfiguredFixtures(t *testing.T) {
	env, restore := setupTestServices()
	defer restore()
	path := writeFixtures(t, "projects:\n  - slug: churn-model\n    title: Churn model\n")
	require.NoError(t, env.settings.Set("storage.fixtures", path))

	out, err := execute("", "seed")

	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 projects")
}

func TestSeedCmd_NoFixtures(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	_, err := execute("", "seed")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no fixtures file")
}
