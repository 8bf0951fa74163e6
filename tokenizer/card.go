package tokenizer

import (
	"regexp"
	"strings"
)

// The two basic card families have one internal name per character color
// (Strike_R, Strike_G, ...). They collapse to a single canonical name before
// any upgrade-level splitting.
var basicCardPattern = regexp.MustCompile(`^(Strike|Defend)_\w(\+1)?$`)

// NormalizeCardName rewrites color-specific Strike/Defend variants to their
// canonical names. All other names pass through unchanged.
func NormalizeCardName(card string) string {
	m := basicCardPattern.FindStringSubmatch(card)
	if m == nil {
		return card
	}
	return m[1] + m[2]
}

// TokenizeCard splits a card name into its base name followed by masked-digit
// tokens for the upgrade level. A "+" with a non-numeric suffix is not an
// error; the whole string degrades to a simple name token.
func TokenizeCard(card string) []string {
	card = NormalizeCardName(card)

	if name, level, ok := strings.Cut(card, "+"); ok && level != "" && isDigits(level) {
		return append([]string{name}, EncodeNumber(level)...)
	}
	return []string{card}
}
