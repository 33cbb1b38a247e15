package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - coding\n  - writing\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"coding", "writing"}, got)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories, got)
}

func TestLoad_EmptyCatalogIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: []\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedYAMLIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t not yaml ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	got := Merge([]string{"writing", "coding"}, []string{"zines", "coding"})
	assert.Equal(t, []string{"coding", "writing", "zines"}, got)
}

func TestMerge_SkipsEmptyStrings(t *testing.T) {
	got := Merge([]string{"coding"}, []string{"", "writing"})
	assert.Equal(t, []string{"coding", "writing"}, got)
}

func TestMerge_NoUserCategories(t *testing.T) {
	got := Merge([]string{"writing", "coding"}, nil)
	assert.Equal(t, []string{"coding", "writing"}, got)
}
