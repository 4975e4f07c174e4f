package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akazakov/snapstat/internal/extractor"
	"akazakov/snapstat/internal/learning"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/normalize"
	"akazakov/snapstat/internal/pipeline"
	"akazakov/snapstat/internal/retry"
	"akazakov/snapstat/internal/store"
)

// stubVisionModel answers with canned responses in call order.
type stubVisionModel struct {
	responses []string
	calls     int
}

func (s *stubVisionModel) VisionComplete(context.Context, []byte, string, string) (string, error) {
	s.calls++
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func newImagePipeline(vision *stubVisionModel, learn *learning.Service) *pipeline.ImagePipeline {
	logger := logging.NewNopLogger()
	return pipeline.NewImagePipeline(vision,
		retry.New(time.Millisecond, logger),
		extractor.New(models.ExpenseCategories(), logger),
		learn, logger)
}

func TestParseImage(t *testing.T) {
	vision := &stubVisionModel{responses: []string{
		"```json\n{\"transactions\": [{\"amount\": 99.99, \"description\": \"Кофейня\", \"category\": \"Food\", \"date\": \"2026-01-15\", \"confidence\": 0.9}]}\n```",
	}}
	p := newImagePipeline(vision, nil)

	result, err := p.ParseImage(context.Background(), "", []byte("fake image"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Кофейня", result.Transactions[0].Description)
	assert.Equal(t, 1, vision.calls)
}

func TestParseImage_MalformedResponseRetries(t *testing.T) {
	vision := &stubVisionModel{responses: []string{
		"sorry, I can't read this",
		`{"transactions": [{"amount": 10, "description": "retried"}]}`,
	}}
	p := newImagePipeline(vision, nil)

	result, err := p.ParseImage(context.Background(), "", []byte("fake image"), "image/png")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "retried", result.Transactions[0].Description)
	assert.Equal(t, 2, vision.calls, "an unparseable response triggers a fresh completion")
}

func TestParseImage_AppliesLearnedOverride(t *testing.T) {
	mem := store.NewMemoryStore()
	learn := learning.NewService(mem, normalize.NewNormalizer(nil), logging.NewNopLogger())
	for range [3]struct{}{} {
		require.NoError(t, learn.LogCorrection(context.Background(), "u1", learning.Correction{
			Description:   "Кофейня",
			AICategory:    models.CategoryOther,
			FinalCategory: models.CategoryFood,
		}))
	}

	vision := &stubVisionModel{responses: []string{
		`{"transactions": [{"amount": 10, "description": "Кофейня", "category": "Other", "confidence": 0.6}]}`,
	}}
	p := newImagePipeline(vision, learn)

	result, err := p.ParseImage(context.Background(), "u1", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, models.CategoryFood, result.Transactions[0].Category)
	assert.InDelta(t, 0.95, result.Transactions[0].Confidence, 1e-9)
}

func TestParseImage_ChartResponse(t *testing.T) {
	vision := &stubVisionModel{responses: []string{`{
		"transactions": [{"amount": 1, "description": "noise"}],
		"chart": {"type": "pie", "total": 4500, "period": "2026-01", "period_type": "month",
			"categories": [{"name": "Food", "value": 3000}, {"name": "Transport", "value": 1500}]}
	}`}}
	p := newImagePipeline(vision, nil)

	result, err := p.ParseImage(context.Background(), "", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.NotNil(t, result.Chart)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, "4500", result.TotalAmount.String())
}

func TestParseImageSingle(t *testing.T) {
	vision := &stubVisionModel{responses: []string{`{"amount": 250, "description": "Чек", "category": "Shopping"}`}}
	p := newImagePipeline(vision, nil)

	tx, err := p.ParseImageSingle(context.Background(), "", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "250", tx.Amount.String())
	assert.Equal(t, models.CategoryShopping, tx.Category)
}

func TestParseImageSingle_BadAmountExhaustsRetries(t *testing.T) {
	vision := &stubVisionModel{responses: []string{`{"amount": "unreadable", "description": "x"}`}}
	p := newImagePipeline(vision, nil)

	_, err := p.ParseImageSingle(context.Background(), "", []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, retry.MaxAttempts, vision.calls)
}
