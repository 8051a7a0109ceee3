package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "mailinglist.json")
	store := NewMailingListStore(path)

	require.NoError(t, store.Save([]string{"a@x.com", "b@x.com"}, []string{"c@x.com"}))

	list := store.Load()
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, list.To)
	assert.Equal(t, []string{"c@x.com"}, list.Cc)
	assert.False(t, list.UpdatedAt.IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	store := NewMailingListStore(filepath.Join(t.TempDir(), "nope.json"))

	list := store.Load()

	assert.Empty(t, list.To)
	assert.Empty(t, list.Cc)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailinglist.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	list := NewMailingListStore(path).Load()

	assert.Empty(t, list.To)
}

func TestSave_ReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailinglist.json")
	store := NewMailingListStore(path)

	require.NoError(t, store.Save([]string{"old@x.com"}, []string{"oldcc@x.com"}))
	require.NoError(t, store.Save([]string{"new@x.com"}, nil))

	list := store.Load()
	assert.Equal(t, []string{"new@x.com"}, list.To)
	assert.Empty(t, list.Cc)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewMailingListStore(filepath.Join(dir, "mailinglist.json"))

	require.NoError(t, store.Save([]string{"a@x.com"}, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mailinglist.json", entries[0].Name())
}
