package sheet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"akazakov/snapstat/internal/amountutils"
	"akazakov/snapstat/internal/dateutils"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
)

// RawRow is one usable statement line before categorization.
type RawRow struct {
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
	BankCategory string
	Type         models.TransactionType
}

// ExtractRows walks the data rows under the header and keeps the usable
// ones. Rows with an empty amount or description cell are skipped, as
// are zero amounts, since zero-valued statement lines are no-ops.
// The amount's sign selects the transaction type (negative means
// expense); the stored amount is always the absolute value.
func ExtractRows(dataRows [][]string, mapping models.ColumnMapping, bankCategoryCol int, logger logging.Logger) []RawRow {
	maxCol := mapping.Date
	if mapping.Amount > maxCol {
		maxCol = mapping.Amount
	}
	if mapping.Description > maxCol {
		maxCol = mapping.Description
	}

	rows := make([]RawRow, 0, len(dataRows))
	for _, row := range dataRows {
		if len(row) <= maxCol {
			continue
		}

		amountCell := strings.TrimSpace(row[mapping.Amount])
		descCell := strings.TrimSpace(row[mapping.Description])
		if amountCell == "" || descCell == "" {
			continue
		}

		amount, err := amountutils.ParseSigned(amountCell)
		if err != nil || amount.IsZero() {
			continue
		}

		txType := models.TypeExpense
		if amount.IsPositive() {
			txType = models.TypeIncome
		}

		bankCategory := ""
		if bankCategoryCol >= 0 && bankCategoryCol < len(row) {
			bankCategory = strings.TrimSpace(row[bankCategoryCol])
		}

		dateCell := strings.TrimSpace(row[mapping.Date])
		date, ok := dateutils.Parse(dateCell)
		if !ok {
			logger.Warn("unparseable date, substituting current time",
				logging.Field{Key: "value", Value: dateCell})
			date = time.Now()
		}

		rows = append(rows, RawRow{
			Date:         date,
			Amount:       amount.Abs(),
			Description:  descCell,
			BankCategory: bankCategory,
			Type:         txType,
		})
	}
	return rows
}
