package store

import (
	"context"
	"sync"

	"akazakov/snapstat/internal/models"
)

// MemoryStore is an in-memory Store used by tests and by callers that do
// not want the learning loop to persist anything.
type MemoryStore struct {
	mu          sync.RWMutex
	corrections []models.CategoryCorrection
	mappings    map[string]models.MerchantCategoryMapping
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mappings: make(map[string]models.MerchantCategoryMapping)}
}

func (s *MemoryStore) AppendCorrection(_ context.Context, correction models.CategoryCorrection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections = append(s.corrections, correction)
	return nil
}

func (s *MemoryStore) CountCorrections(_ context.Context, userID, merchantKey, category string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, c := range s.corrections {
		if c.UserID != userID || c.MerchantKey != merchantKey {
			continue
		}
		if category != "" && c.CorrectedCategory != category {
			continue
		}
		count++
	}
	return count, nil
}

func (s *MemoryStore) GetMapping(_ context.Context, userID, merchantKey string) (*models.MerchantCategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.mappings[userID+"\x00"+merchantKey]; ok {
		copied := m
		return &copied, nil
	}
	return nil, nil
}

func (s *MemoryStore) UpsertMapping(_ context.Context, mapping models.MerchantCategoryMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[mapping.UserID+"\x00"+mapping.MerchantKey] = mapping
	return nil
}
