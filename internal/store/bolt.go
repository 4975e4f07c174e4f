package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"akazakov/snapstat/internal/models"
)

var (
	correctionsBucket = []byte("corrections")
	mappingsBucket    = []byte("mappings")
)

// BoltStore implements Store on an embedded bolt database. Corrections
// are keyed by (user, merchant, sequence) so a prefix scan yields one
// merchant's log; mappings are keyed by (user, merchant) alone, which
// makes the upsert a plain put.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(correctionsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(mappingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// correctionPrefix scopes a scan to one user's merchant.
func correctionPrefix(userID, merchantKey string) []byte {
	return []byte(userID + "\x00" + merchantKey + "\x00")
}

func mappingKey(userID, merchantKey string) []byte {
	return []byte(userID + "\x00" + merchantKey)
}

func (s *BoltStore) AppendCorrection(_ context.Context, correction models.CategoryCorrection) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(correctionsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := append(correctionPrefix(correction.UserID, correction.MerchantKey),
			[]byte(fmt.Sprintf("%016d", seq))...)
		value, err := json.Marshal(correction)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
}

func (s *BoltStore) CountCorrections(_ context.Context, userID, merchantKey, category string) (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(correctionsBucket).Cursor()
		prefix := correctionPrefix(userID, merchantKey)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if category == "" {
				count++
				continue
			}
			var correction models.CategoryCorrection
			if err := json.Unmarshal(v, &correction); err != nil {
				return fmt.Errorf("corrupt correction record: %w", err)
			}
			if correction.CorrectedCategory == category {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (s *BoltStore) GetMapping(_ context.Context, userID, merchantKey string) (*models.MerchantCategoryMapping, error) {
	var mapping *models.MerchantCategoryMapping
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(mappingsBucket).Get(mappingKey(userID, merchantKey))
		if value == nil {
			return nil
		}
		var m models.MerchantCategoryMapping
		if err := json.Unmarshal(value, &m); err != nil {
			return fmt.Errorf("corrupt mapping record: %w", err)
		}
		mapping = &m
		return nil
	})
	return mapping, err
}

func (s *BoltStore) UpsertMapping(_ context.Context, mapping models.MerchantCategoryMapping) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		value, err := json.Marshal(mapping)
		if err != nil {
			return err
		}
		return tx.Bucket(mappingsBucket).Put(mappingKey(mapping.UserID, mapping.MerchantKey), value)
	})
}
