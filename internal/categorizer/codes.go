// Package categorizer assigns categories to transaction descriptions
// using an ordered set of sources: the static MCC table first (no AI
// call), then batched AI text completion, with the bank's own category
// column as a final hint. Categorization failures are soft: a failed
// batch degrades to the default category, never aborting the upload.
package categorizer

import "strings"

// CodeCategoryTable maps 4-digit merchant category codes to categories.
// Immutable after construction; injected so tests can substitute tables.
type CodeCategoryTable struct {
	codes map[string]string
}

// NewCodeCategoryTable builds a table from a code->category map.
func NewCodeCategoryTable(codes map[string]string) *CodeCategoryTable {
	copied := make(map[string]string, len(codes))
	for code, category := range codes {
		copied[code] = category
	}
	return &CodeCategoryTable{codes: copied}
}

// Lookup returns the category for an MCC code.
func (t *CodeCategoryTable) Lookup(code string) (string, bool) {
	category, ok := t.codes[code]
	return category, ok
}

// BankCategoryMap maps a bank's own category vocabulary (as it appears
// in a statement's category column) to the internal category enum.
type BankCategoryMap struct {
	names map[string]string
}

// NewBankCategoryMap builds a map with case-insensitive lookup.
func NewBankCategoryMap(names map[string]string) *BankCategoryMap {
	copied := make(map[string]string, len(names))
	for name, category := range names {
		copied[strings.ToLower(strings.TrimSpace(name))] = category
	}
	return &BankCategoryMap{names: copied}
}

// Lookup resolves a bank category cell value.
func (m *BankCategoryMap) Lookup(bankCategory string) (string, bool) {
	category, ok := m.names[strings.ToLower(strings.TrimSpace(bankCategory))]
	return category, ok
}
