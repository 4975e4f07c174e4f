package models

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// ChartType classifies the kind of diagram recognized on a screenshot.
type ChartType string

const (
	ChartPie   ChartType = "pie"
	ChartBar   ChartType = "bar"
	ChartLine  ChartType = "line"
	ChartOther ChartType = "other"
)

// PeriodType classifies the time span a chart summarizes.
type PeriodType string

const (
	PeriodMonth  PeriodType = "month"
	PeriodYear   PeriodType = "year"
	PeriodWeek   PeriodType = "week"
	PeriodCustom PeriodType = "custom"
)

// periodPattern accepts "YYYY", "YYYY-MM" and "YYYY-MM to YYYY-MM".
var periodPattern = regexp.MustCompile(`^(\d{4}(-\d{2})?|\d{4}-\d{2} to \d{4}-\d{2})$`)

// ValidPeriod reports whether a chart period string follows one of the
// structured forms. Free-form text (e.g. a month name the model failed
// to convert) is rejected.
func ValidPeriod(period string) bool {
	return periodPattern.MatchString(period)
}

// ChartCategory is one slice/bar of a recognized spending chart.
// Percentage is nil when the chart did not display one.
type ChartCategory struct {
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	Percentage *float64        `json:"percentage,omitempty"`
}

// ChartSummary is the aggregate view extracted from a screenshot that
// shows a spending diagram instead of (or alongside) a transaction list.
// When a chart is recognized, the transactions from the same response
// are discarded: the screenshot summarizes, it does not itemize.
type ChartSummary struct {
	Type       ChartType       `json:"type"`
	Categories []ChartCategory `json:"categories"`
	Total      decimal.Decimal `json:"total"`
	Period     string          `json:"period"`
	PeriodType PeriodType      `json:"period_type"`
	Confidence float64         `json:"confidence"`
}
