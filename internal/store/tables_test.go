package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/store"
)

func TestTableStore_EmbeddedDefaults(t *testing.T) {
	tables := store.NewTableStore("", logging.NewNopLogger())

	words, err := tables.LoadNoiseWords()
	require.NoError(t, err)
	assert.Contains(t, words, "оплата")

	mcc, err := tables.LoadMCCTable()
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFood, mcc["5411"])
	assert.Equal(t, models.CategoryTransport, mcc["4121"])

	bank, err := tables.LoadBankCategories()
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFood, bank["супермаркеты"])
}

func TestTableStore_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	override := "noise_words:\n  - \"custom noise\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noise_words.yaml"), []byte(override), 0o644))

	tables := store.NewTableStore(dir, logging.NewNopLogger())

	words, err := tables.LoadNoiseWords()
	require.NoError(t, err)
	assert.Equal(t, []string{"custom noise"}, words)

	// Tables without an override file still come from the embedded copy.
	mcc, err := tables.LoadMCCTable()
	require.NoError(t, err)
	assert.NotEmpty(t, mcc)
}
