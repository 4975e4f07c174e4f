// Package normalize turns raw transaction descriptions into stable
// merchant keys. The key is a grouping handle for learned categories and
// is never shown to the end user.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	"akazakov/snapstat/internal/models"
)

var (
	// "ооо пятёрочка" -> "пятёрочка". RE2 has no \b for Cyrillic, so the
	// boundary is expressed as start-of-string or a non-letter rune.
	legalPrefixes = regexp.MustCompile(`(^|[^\p{L}\d])(ооо|ип|ао|пао|зао|нко|ук)\s+`)

	cardNumber   = regexp.MustCompile(`\d{4}[-\s*]\d{4}[-\s*]\d{4}[-\s*]\d{4}`)
	decimalValue = regexp.MustCompile(`\d+[.,]\d+`)
	dateValue    = regexp.MustCompile(`\d{2}[./-]\d{2}[./-]\d{2,4}`)

	trailingRef = regexp.MustCompile(`[#№]\s*\d+$`)
	trailingNo  = regexp.MustCompile(`\bno\s*\d+$`)

	// "пятёрочка, mcc: 5411" -> "пятёрочка". The code identifies the
	// merchant's industry, not the merchant.
	mccMarker = regexp.MustCompile(`\bmcc:?\s*\d{4}\b`)

	// "яндекс.еда" -> "яндекс еда", "delivery/club" -> "delivery club".
	interWordPunct = regexp.MustCompile(`([\p{L}\d])[./\\]([\p{L}\d])`)

	strayPunct = regexp.MustCompile(`[«»"'*` + "`" + `]`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Normalizer strips transactional noise from descriptions. The noise
// vocabulary is injected so tests can substitute alternate tables.
type Normalizer struct {
	noiseWords []string // sorted longest first
}

// NewNormalizer builds a Normalizer over the given noise vocabulary.
// Words are matched longest-first so that phrase entries win over their
// own stems.
func NewNormalizer(noiseWords []string) *Normalizer {
	words := make([]string, len(noiseWords))
	copy(words, noiseWords)
	sort.Slice(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})
	return &Normalizer{noiseWords: words}
}

// MerchantKey normalizes a description into its merchant key. The
// function is pure, total and idempotent.
func (n *Normalizer) MerchantKey(description string) string {
	text := strings.ToLower(strings.TrimSpace(description))

	for _, word := range n.noiseWords {
		text = strings.ReplaceAll(text, word, "")
	}

	text = legalPrefixes.ReplaceAllString(text, "$1")

	text = mccMarker.ReplaceAllString(text, "")
	text = cardNumber.ReplaceAllString(text, "")
	text = decimalValue.ReplaceAllString(text, "")
	text = dateValue.ReplaceAllString(text, "")

	text = trailingRef.ReplaceAllString(strings.TrimSpace(text), "")
	text = trailingNo.ReplaceAllString(strings.TrimSpace(text), "")

	// Loop until stable: a single ReplaceAll cannot rewrite "a.b.c"
	// completely because the middle rune is consumed by the first match.
	for {
		replaced := interWordPunct.ReplaceAllString(text, "$1 $2")
		if replaced == text {
			break
		}
		text = replaced
	}

	text = strayPunct.ReplaceAllString(text, "")
	text = spaceRun.ReplaceAllString(text, " ")
	text = strings.Trim(text, " ,;:")

	return truncateRunes(text, models.MaxDescriptionLen)
}

// truncateRunes cuts a string to at most n runes without splitting a
// multi-byte character, trimming any trailing space the cut exposes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
