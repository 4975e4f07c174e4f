package learning_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akazakov/snapstat/internal/learning"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/normalize"
	"akazakov/snapstat/internal/store"
)

func newService() (*learning.Service, *store.MemoryStore) {
	s := store.NewMemoryStore()
	n := normalize.NewNormalizer([]string{"оплата", "покупка"})
	return learning.NewService(s, n, logging.NewNopLogger()), s
}

func correct(t *testing.T, svc *learning.Service, user, description, from, to string, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		err := svc.LogCorrection(context.Background(), user, learning.Correction{
			TransactionID: fmt.Sprintf("tx-%d", i),
			Description:   description,
			AICategory:    from,
			AIConfidence:  0.7,
			FinalCategory: to,
		})
		require.NoError(t, err)
	}
}

func TestLogCorrection_NoOpWhenNothingChanged(t *testing.T) {
	svc, mem := newService()

	err := svc.LogCorrection(context.Background(), "u1", learning.Correction{
		Description:   "Пятёрочка",
		AICategory:    "Food",
		FinalCategory: "Food",
	})
	require.NoError(t, err)

	count, err := mem.CountCorrections(context.Background(), "u1", "пятёрочка", "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPromotion_ThresholdReached(t *testing.T) {
	svc, _ := newService()
	correct(t, svc, "u1", "Оплата Пятёрочка", "Other", "Food", 3)

	category, confidence, ok := svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка")
	require.True(t, ok)
	assert.Equal(t, "Food", category)
	assert.InDelta(t, 0.95, confidence, 1e-9, "a unanimous merchant caps at the maximum confidence")
}

func TestPromotion_TooFewCorrections(t *testing.T) {
	svc, _ := newService()
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 2)

	_, _, ok := svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка")
	assert.False(t, ok)
}

func TestPromotion_AgreementRatio(t *testing.T) {
	svc, _ := newService()
	// 3 of 5 for Food is 60%, below the agreement threshold.
	correct(t, svc, "u1", "Пятёрочка", "Other", "Shopping", 2)
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 3)

	_, _, ok := svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка")
	assert.False(t, ok)

	// One more Food correction: 4 of 6 is still below 70%.
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 1)
	_, _, ok = svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка")
	assert.False(t, ok)

	// 6 of 8 reaches 75% and promotes with the ratio as confidence.
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 2)
	category, confidence, ok := svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка")
	require.True(t, ok)
	assert.Equal(t, "Food", category)
	assert.InDelta(t, 0.75, confidence, 1e-9)
}

func TestPromotion_ThreeOfFour(t *testing.T) {
	svc, _ := newService()
	correct(t, svc, "u1", "Пятёрочка", "Other", "Shopping", 1)
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 3)

	category, confidence, ok := svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка")
	require.True(t, ok)
	assert.Equal(t, "Food", category)
	assert.InDelta(t, 0.75, confidence, 1e-9)
}

func TestPromotion_KeyedByNormalizedMerchant(t *testing.T) {
	svc, _ := newService()
	// Differently noisy descriptions of the same merchant accumulate
	// under one key.
	correct(t, svc, "u1", "Оплата ПЯТЁРОЧКА", "Other", "Food", 1)
	correct(t, svc, "u1", "покупка Пятёрочка", "Other", "Food", 1)
	correct(t, svc, "u1", "пятёрочка", "Other", "Food", 1)

	_, _, ok := svc.GetLearnedCategory(context.Background(), "u1", "Пятёрочка 123,45")
	assert.True(t, ok)
}

func TestPromotion_IsolatedPerUser(t *testing.T) {
	svc, _ := newService()
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 3)

	_, _, ok := svc.GetLearnedCategory(context.Background(), "u2", "Пятёрочка")
	assert.False(t, ok)
}

func TestApplyLearnedOverride(t *testing.T) {
	svc, _ := newService()
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 3)

	category, confidence := svc.ApplyLearnedOverride(context.Background(), "u1", "Пятёрочка", "Other", 0.5)
	assert.Equal(t, "Food", category)
	assert.InDelta(t, 0.95, confidence, 1e-9)
}

func TestApplyLearnedOverride_EqualConfidenceDoesNotOverride(t *testing.T) {
	svc, _ := newService()
	correct(t, svc, "u1", "Пятёрочка", "Other", "Food", 3)

	category, confidence := svc.ApplyLearnedOverride(context.Background(), "u1", "Пятёрочка", "Shopping", 0.95)
	assert.Equal(t, "Shopping", category)
	assert.InDelta(t, 0.95, confidence, 1e-9)
}

func TestApplyLearnedOverride_NoMapping(t *testing.T) {
	svc, _ := newService()

	category, confidence := svc.ApplyLearnedOverride(context.Background(), "u1", "неизвестно", "Other", 0.3)
	assert.Equal(t, "Other", category)
	assert.InDelta(t, 0.3, confidence, 1e-9)
}
