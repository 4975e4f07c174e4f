package models_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"akazakov/snapstat/internal/models"
)

func TestCategorySet_Validate(t *testing.T) {
	expenses := models.ExpenseCategories()

	assert.Equal(t, models.CategoryFood, expenses.Validate("Food"))
	assert.Equal(t, models.CategoryOther, expenses.Validate("food"), "membership is case sensitive")
	assert.Equal(t, models.CategoryOther, expenses.Validate("Groceries"))
	assert.Equal(t, models.CategoryOther, expenses.Validate(""))
	assert.Equal(t, models.CategoryOther, expenses.Validate("Salary"), "income names are not expense members")
}

func TestCategorySet_Defaults(t *testing.T) {
	assert.Equal(t, models.CategoryOther, models.ExpenseCategories().Default())
	assert.Equal(t, models.CategoryOtherIncome, models.IncomeCategories().Default())

	assert.True(t, models.ExpenseCategories().Contains(models.CategoryOther))
	assert.True(t, models.IncomeCategories().Contains(models.CategorySalary))
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.8, models.ClampConfidence(0.8))
	assert.Equal(t, 0.0, models.ClampConfidence(-0.5))
	assert.Equal(t, 1.0, models.ClampConfidence(1.5))
	assert.Equal(t, models.DefaultConfidence, models.ClampConfidence(math.NaN()))
}

func TestConfidenceFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
	}{
		{name: "float", input: 0.9, want: 0.9},
		{name: "int", input: 1, want: 1.0},
		{name: "json number", input: json.Number("0.75"), want: 0.75},
		{name: "numeric string", input: " 0.6 ", want: 0.6},
		{name: "overflowing value clamps", input: 42.0, want: 1.0},
		{name: "garbage string", input: "high", want: models.DefaultConfidence},
		{name: "nil", input: nil, want: models.DefaultConfidence},
		{name: "bool", input: true, want: models.DefaultConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, models.ConfidenceFromAny(tt.input), 1e-9)
		})
	}
}

func TestColumnMapping_Valid(t *testing.T) {
	assert.True(t, models.ColumnMapping{Date: 0, Amount: 1, Description: 2}.Valid())
	assert.False(t, models.ColumnMapping{Date: -1, Amount: 1, Description: 2}.Valid())
	assert.False(t, models.ColumnMapping{Date: 1, Amount: 1, Description: 2}.Valid(), "indices must be distinct")
}
