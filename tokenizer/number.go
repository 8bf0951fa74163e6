package tokenizer

import (
	"log"
	"strconv"
)

// Digit tokens mask the lower place values with this placeholder so the token
// length itself encodes magnitude: "1934" -> "1XXX" "9XX" "3X" "4".
const digitMask = 'X'

// EncodeNumber converts a digit string into one masked-digit token per digit.
// An empty string yields no tokens. Non-digit characters are logged and still
// produce one token each; their content beyond digits is implementation-defined.
func EncodeNumber(number string) []string {
	if number == "" {
		return nil
	}
	if !isDigits(number) {
		log.Printf("tokenizer: %q is not purely digits", number)
	}

	runes := []rune(number)
	tokens := make([]string, len(runes))
	for i, digit := range runes {
		token := make([]rune, 0, len(runes)-i)
		token = append(token, digit)
		for j := i + 1; j < len(runes); j++ {
			token = append(token, digitMask)
		}
		tokens[i] = string(token)
	}
	return tokens
}

// EncodeAmount truncates a numeric amount to an integer and encodes it.
func EncodeAmount(amount float64) []string {
	return EncodeNumber(strconv.Itoa(int(amount)))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
