package store

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"akazakov/snapstat/internal/logging"
)

//go:embed defaults/*.yaml
var defaultTables embed.FS

// TableStore loads the static lookup tables (noise words, MCC map, bank
// category map). A file of the same name in the data directory overrides
// the embedded default, so deployments can extend the vocabularies
// without a rebuild. Loaded tables are immutable and injected into
// components at startup.
type TableStore struct {
	dir    string
	logger logging.Logger
}

// NewTableStore creates a TableStore over the given data directory. An
// empty dir means embedded defaults only.
func NewTableStore(dir string, logger logging.Logger) *TableStore {
	return &TableStore{dir: dir, logger: logger}
}

// LoadNoiseWords returns the merchant-key noise vocabulary.
func (s *TableStore) LoadNoiseWords() ([]string, error) {
	var doc struct {
		NoiseWords []string `yaml:"noise_words"`
	}
	if err := s.load("noise_words.yaml", &doc); err != nil {
		return nil, err
	}
	return doc.NoiseWords, nil
}

// LoadMCCTable returns the merchant category code to category table.
func (s *TableStore) LoadMCCTable() (map[string]string, error) {
	var doc struct {
		MCCCategories map[string]string `yaml:"mcc_categories"`
	}
	if err := s.load("mcc_categories.yaml", &doc); err != nil {
		return nil, err
	}
	return doc.MCCCategories, nil
}

// LoadBankCategories returns the bank-vocabulary to category table.
func (s *TableStore) LoadBankCategories() (map[string]string, error) {
	var doc struct {
		BankCategories map[string]string `yaml:"bank_categories"`
	}
	if err := s.load("bank_categories.yaml", &doc); err != nil {
		return nil, err
	}
	return doc.BankCategories, nil
}

func (s *TableStore) load(name string, out interface{}) error {
	if s.dir != "" {
		path := filepath.Join(s.dir, name)
		if data, err := os.ReadFile(path); err == nil {
			s.logger.WithField("path", path).Debug("Loaded lookup table override")
			if err := yaml.Unmarshal(data, out); err != nil {
				return fmt.Errorf("could not parse %s: %w", path, err)
			}
			return nil
		}
	}
	data, err := defaultTables.ReadFile("defaults/" + name)
	if err != nil {
		return fmt.Errorf("missing embedded table %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not parse embedded table %s: %w", name, err)
	}
	return nil
}
