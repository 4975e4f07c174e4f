package normalize

import (
	"regexp"
	"strings"
)

// maxMerchantLen caps the plain-description fallback of ExtractMerchant.
const maxMerchantLen = 80

var (
	mccPattern = regexp.MustCompile(`MCC:\s*(\d{4})`)

	// Sber verbose format: "Операция по карте: ..., место совершения
	// операции: RU/City/MERCHANT.NAME, MCC: 1234"
	placePattern = regexp.MustCompile(`(?i)место совершения операции:\s*(?:[A-Z]{2}/[^/,]+/)?(.+?)(,\s*MCC:|$)`)

	servicePattern = regexp.MustCompile(`(?:Оплата услуг|Перевод|Платёж|Платеж):\s*([^,]+)`)

	dotsUnderscores = regexp.MustCompile(`[._]+`)
)

// ExtractMerchant pulls a clean merchant name and an optional 4-digit MCC
// code out of a verbose statement description. Plain descriptions come
// back as-is, truncated.
func ExtractMerchant(description string) (merchant string, mcc string) {
	if m := mccPattern.FindStringSubmatch(description); m != nil {
		mcc = m[1]
	}

	if m := placePattern.FindStringSubmatch(description); m != nil {
		name := strings.TrimSpace(dotsUnderscores.ReplaceAllString(m[1], " "))
		if name != "" {
			return name, mcc
		}
	}

	if m := servicePattern.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1]), mcc
	}

	return truncateRunes(strings.TrimSpace(description), maxMerchantLen), mcc
}
