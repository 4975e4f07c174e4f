package categorizer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akazakov/snapstat/internal/categorizer"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/retry"
)

type stubTextModel struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubTextModel) TextComplete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newCategorizer(text *stubTextModel, batchSize int) *categorizer.Categorizer {
	codes := categorizer.NewCodeCategoryTable(map[string]string{
		"5411": models.CategoryFood,
		"4121": models.CategoryTransport,
	})
	return categorizer.New(text, retry.New(time.Millisecond, logging.NewNopLogger()), codes,
		models.ExpenseCategories(), models.IncomeCategories(), batchSize, logging.NewNopLogger())
}

func TestCategorizeDescriptions_MCCShortCircuit(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Shopping"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(),
		[]string{"PYATEROCHKA MCC: 5411", "YANDEX TAXI MCC: 4121"}, false)

	assert.Equal(t, categorizer.Outcome{Category: models.CategoryFood}, result["PYATEROCHKA MCC: 5411"])
	assert.Equal(t, categorizer.Outcome{Category: models.CategoryTransport}, result["YANDEX TAXI MCC: 4121"])
	assert.Zero(t, stub.calls, "MCC hits must never reach the AI")
}

func TestCategorizeDescriptions_MCCIgnoredForIncome(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Salary"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"ACME LLC MCC: 5411"}, true)

	assert.Equal(t, models.CategorySalary, result["ACME LLC MCC: 5411"].Category)
	assert.Equal(t, 1, stub.calls, "income descriptions skip the MCC table")
}

func TestCategorizeDescriptions_UnknownMCCGoesToAI(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Bills"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"SOMETHING MCC: 9999"}, false)

	assert.Equal(t, models.CategoryBills, result["SOMETHING MCC: 9999"].Category)
	assert.Equal(t, 1, stub.calls)
}

func TestCategorizeDescriptions_PositionalMatching(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Food", "2": "Transport"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"кафе", "метро"}, false)

	assert.Equal(t, categorizer.Outcome{Category: models.CategoryFood}, result["кафе"])
	assert.Equal(t, categorizer.Outcome{Category: models.CategoryTransport}, result["метро"])
}

func TestCategorizeDescriptions_MissingNumberDegrades(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Food"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"кафе", "загадка"}, false)

	assert.False(t, result["кафе"].Degraded)
	assert.Equal(t, categorizer.Outcome{Category: models.CategoryOther, Degraded: true}, result["загадка"])
}

func TestCategorizeDescriptions_UnknownCategoryDegrades(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Groceries"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"кафе"}, false)

	assert.Equal(t, categorizer.Outcome{Category: models.CategoryOther, Degraded: true}, result["кафе"])
}

func TestCategorizeDescriptions_FailedBatchDegradesAll(t *testing.T) {
	stub := &stubTextModel{err: errors.New("model offline")}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"кафе", "метро"}, false)

	for desc, outcome := range result {
		assert.Equal(t, models.CategoryOther, outcome.Category, desc)
		assert.True(t, outcome.Degraded, desc)
	}
	assert.Equal(t, retry.MaxAttempts, stub.calls, "the batch is retried before degrading")
}

func TestCategorizeDescriptions_BatchSplitting(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Food", "2": "Food"}`}
	c := newCategorizer(stub, 2)

	descriptions := make([]string, 5)
	for i := range descriptions {
		descriptions[i] = fmt.Sprintf("магазин %d", i)
	}
	result := c.CategorizeDescriptions(context.Background(), descriptions, false)

	assert.Len(t, result, 5)
	assert.Equal(t, 3, stub.calls, "five descriptions at batch size two need three prompts")
}

func TestCategorizeDescriptions_DuplicatesCollapse(t *testing.T) {
	stub := &stubTextModel{response: `{"1": "Food"}`}
	c := newCategorizer(stub, 0)

	result := c.CategorizeDescriptions(context.Background(), []string{"кафе", "кафе", "кафе"}, false)

	assert.Len(t, result, 1)
	assert.Equal(t, 1, stub.calls)
}

func TestBankCategoryMap_Lookup(t *testing.T) {
	m := categorizer.NewBankCategoryMap(map[string]string{"Супермаркеты": models.CategoryFood})

	category, ok := m.Lookup("  супермаркеты ")
	require.True(t, ok)
	assert.Equal(t, models.CategoryFood, category)

	_, ok = m.Lookup("неизвестно")
	assert.False(t, ok)
}
