package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"akazakov/snapstat/internal/models"
)

func TestValidPeriod(t *testing.T) {
	valid := []string{"2026", "2026-01", "2026-01 to 2026-03"}
	for _, period := range valid {
		assert.True(t, models.ValidPeriod(period), period)
	}

	invalid := []string{"", "January 2026", "январь", "2026-1", "2026-01 to", "2026 to 2026-01", "last month"}
	for _, period := range invalid {
		assert.False(t, models.ValidPeriod(period), period)
	}
}
