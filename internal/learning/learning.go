// Package learning implements the correction feedback loop: user
// corrections are logged append-only, and once enough consistent
// corrections accumulate for a merchant the category is promoted into a
// per-user mapping that overrides future AI guesses.
package learning

import (
	"context"
	"fmt"
	"time"

	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/normalize"
	"akazakov/snapstat/internal/store"
)

// Promotion thresholds. A category is learned for a merchant once at
// least MinCorrections corrections chose it and they make up at least
// MinAgreement of all corrections for that merchant.
const (
	MinCorrections = 3
	MinAgreement   = 0.70
	MaxConfidence  = 0.95
)

// Correction describes a user's category change on one transaction.
type Correction struct {
	TransactionID string
	Description   string
	AICategory    string
	AIConfidence  float64
	FinalCategory string
}

// Service is the learning store facade consumed by the pipelines.
type Service struct {
	store      store.Store
	normalizer *normalize.Normalizer
	logger     logging.Logger
}

// NewService creates a learning Service.
func NewService(s store.Store, normalizer *normalize.Normalizer, logger logging.Logger) *Service {
	return &Service{store: s, normalizer: normalizer, logger: logger}
}

// LogCorrection records a correction and re-evaluates promotion for the
// merchant. It is a no-op when the AI's suggestion matches the final
// category, since nothing was corrected.
func (s *Service) LogCorrection(ctx context.Context, userID string, c Correction) error {
	if c.AICategory == "" || c.AICategory == c.FinalCategory {
		return nil
	}

	merchantKey := s.normalizer.MerchantKey(c.Description)
	entry := models.CategoryCorrection{
		UserID:            userID,
		TransactionID:     c.TransactionID,
		OriginalCategory:  c.AICategory,
		CorrectedCategory: c.FinalCategory,
		Confidence:        c.AIConfidence,
		MerchantKey:       merchantKey,
		CreatedAt:         time.Now(),
	}
	if err := s.store.AppendCorrection(ctx, entry); err != nil {
		return fmt.Errorf("failed to log correction: %w", err)
	}

	return s.promote(ctx, userID, merchantKey, c.FinalCategory)
}

// promote tallies this user's corrections for the merchant and upserts
// the learned mapping when the thresholds are met. The count-then-upsert
// sequence is not atomic across concurrent callers; a slightly stale
// count on the mapping is tolerated because the mapping is a soft hint,
// not a source of truth.
func (s *Service) promote(ctx context.Context, userID, merchantKey, category string) error {
	categoryCount, err := s.store.CountCorrections(ctx, userID, merchantKey, category)
	if err != nil {
		return fmt.Errorf("failed to count corrections: %w", err)
	}
	totalCount, err := s.store.CountCorrections(ctx, userID, merchantKey, "")
	if err != nil {
		return fmt.Errorf("failed to count corrections: %w", err)
	}
	if totalCount == 0 {
		return nil
	}

	ratio := float64(categoryCount) / float64(totalCount)
	if categoryCount < MinCorrections || ratio < MinAgreement {
		return nil
	}

	confidence := ratio
	if confidence > MaxConfidence {
		confidence = MaxConfidence
	}

	mapping := models.MerchantCategoryMapping{
		UserID:          userID,
		MerchantKey:     merchantKey,
		LearnedCategory: category,
		CorrectionCount: categoryCount,
		Confidence:      confidence,
		LastUpdated:     time.Now(),
	}
	if err := s.store.UpsertMapping(ctx, mapping); err != nil {
		return fmt.Errorf("failed to upsert merchant mapping: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "merchant", Value: merchantKey},
		logging.Field{Key: "category", Value: category},
		logging.Field{Key: "count", Value: categoryCount},
		logging.Field{Key: "confidence", Value: confidence},
	).Info("Promoted learned merchant category")
	return nil
}

// GetLearnedCategory returns the learned (category, confidence) for a
// description, or ok=false when no mapping exists.
func (s *Service) GetLearnedCategory(ctx context.Context, userID, description string) (string, float64, bool) {
	merchantKey := s.normalizer.MerchantKey(description)
	mapping, err := s.store.GetMapping(ctx, userID, merchantKey)
	if err != nil {
		s.logger.WithError(err).WithField("merchant", merchantKey).Warn("Learned category lookup failed")
		return "", 0, false
	}
	if mapping == nil {
		return "", 0, false
	}
	return mapping.LearnedCategory, mapping.Confidence, true
}

// ApplyLearnedOverride replaces (category, confidence) with the learned
// mapping when one exists and its confidence strictly exceeds the
// input's. Equal confidence does not override. Both pipelines call this
// as the last step before a transaction is finalized.
func (s *Service) ApplyLearnedOverride(ctx context.Context, userID, description, category string, confidence float64) (string, float64) {
	learned, learnedConfidence, ok := s.GetLearnedCategory(ctx, userID, description)
	if !ok || learnedConfidence <= confidence {
		return category, confidence
	}
	s.logger.WithFields(
		logging.Field{Key: "from", Value: category},
		logging.Field{Key: "to", Value: learned},
		logging.Field{Key: "confidence", Value: learnedConfidence},
	).Debug("Applying learned category override")
	return learned, learnedConfidence
}
