package aiclient

import (
	"fmt"
	"strings"
)

// VisionPrompt instructs the vision model to extract every transaction
// and any spending chart from a bank-app screenshot as strict JSON.
const VisionPrompt = `You are a financial data extraction assistant.
Your task is to extract ALL financial information from bank app screenshots, including transactions AND charts/diagrams.

## Extract transactions:
For EACH transaction visible in a list, extract:
- amount: The transaction amount (numeric value only, without currency symbol)
- description: The merchant name or transaction description
- date: The EXACT date shown for THIS specific transaction in ISO 8601 format: YYYY-MM-DDTHH:MM:SS. If time is unknown, use 12:00:00.
- category: One of EXACTLY these values: Food, Transport, Entertainment, Shopping, Bills, Health, Other
- confidence: Your confidence level (0.0 to 1.0)

CRITICAL DATE RULES:
- Each transaction MUST have its OWN date as shown on the screenshot
- If a group header shows a date and several transactions follow, all those transactions have that date
- NEVER assign the same date to all transactions unless they truly occurred on the same day
- If only a month/year is visible (no specific day), distribute transactions across the month (1st, 5th, 10th, 15th, 20th, 25th)

## Extract charts/diagrams:
If you see a pie chart, bar chart, or any spending diagram showing category breakdowns, extract:
- type: "pie", "bar", "line", or "other"
- categories: Array of {name, value, percentage (optional)}
- total: Total amount shown in the chart
- period: Time period in STRUCTURED format ONLY: "YYYY-MM" for a month, "YYYY" for a year, "YYYY-MM to YYYY-MM" for a range
- period_type: "month", "year", "week", or "custom"
- confidence: Your confidence level (0.0 to 1.0)

NEVER return local-language text as the period value; always use the structured YYYY or YYYY-MM format.

IMPORTANT:
- Extract ALL visible transactions from lists
- If the image shows ONLY a chart (no transaction list), return an empty transactions array

Respond with a JSON object in this exact format:
{
    "transactions": [
        {"amount": 123.45, "description": "Store Name", "date": "2026-01-15T14:30:00", "category": "Shopping", "confidence": 0.95}
    ],
    "total_amount": 123.45,
    "chart": {
        "type": "pie",
        "categories": [{"name": "Food", "value": 5000.50, "percentage": 45.5}],
        "total": 11000.50,
        "period": "2026-01",
        "period_type": "month",
        "confidence": 0.90
    }
}

If no chart is visible, omit the "chart" field or set it to null.
If you cannot extract some information, make reasonable assumptions and lower the confidence score.`

const categorizeExpensePrompt = `You are a financial categorization assistant.
Given numbered transaction descriptions from a bank statement, assign each a category.

Categories (use EXACTLY these values): Food, Transport, Entertainment, Shopping, Bills, Health, Other

Respond with a JSON object mapping each NUMBER to its category:
{"1": "Food", "2": "Transport", "3": "Shopping"}
`

const categorizeIncomePrompt = `You are a financial categorization assistant.
Given numbered income transaction descriptions from a bank statement, assign each a category.

Categories (use EXACTLY these values): Salary, Transfer, Cashback, Investment, OtherIncome

Respond with a JSON object mapping each NUMBER to its category:
{"1": "Salary", "2": "Transfer", "3": "Cashback"}
`

const columnDetectPrompt = `You are a data extraction assistant.
Given the first rows of a bank statement spreadsheet, identify which columns contain:
- date: transaction date
- amount: transaction amount
- description: merchant name or payment description

Respond with JSON:
{"date": <column_index>, "amount": <column_index>, "description": <column_index>}

Column indices are 0-based. Here are the rows:
`

// CategorizePrompt builds the numbered-list prompt for a batch of
// merchant names. Responses are matched back positionally by number.
func CategorizePrompt(merchants []string, income bool) string {
	template := categorizeExpensePrompt
	if income {
		template = categorizeIncomePrompt
	}
	var sb strings.Builder
	sb.WriteString(template)
	sb.WriteString("\n")
	for i, merchant := range merchants {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, merchant)
	}
	return sb.String()
}

// ColumnDetectPrompt builds the fallback column-detection prompt from a
// header row plus sample data rows.
func ColumnDetectPrompt(rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(columnDetectPrompt)
	for i, row := range rows {
		fmt.Fprintf(&sb, "Row %d: %v\n", i, row)
	}
	return sb.String()
}
