package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_Embedded(t *testing.T) {
	migrations, err := Up()

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "collections")
}

func TestLoad_OrdersByVersionAndSkipsDown(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":    {Data: []byte("SELECT 10;")},
		"002_second.up.sql":   {Data: []byte("SELECT 2;")},
		"002_second.down.sql": {Data: []byte("SELECT -2;")},
	}

	migrations, err := load(fsys)

	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "010_later.up.sql", migrations[1].Name)
}

func TestLoad_RejectsBadNames(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no version": {"collections.up.sql": {Data: []byte("SELECT 1;")}},
		"duplicate": {
			"001_a.up.sql": {Data: []byte("SELECT 1;")},
			"001_b.up.sql": {Data: []byte("SELECT 1;")},
		},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(fsys)
			assert.Error(t, err)
		})
	}
}
