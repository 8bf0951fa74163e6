package tokenizer

import (
	"log"
	"sort"
	"strings"
)

// Verb and unit tokens of the output alphabet. Multi-token categories emit
// the verb and the entity as separate tokens; single-token categories wrap
// the verb and its argument into one token (see GoTo, Battle, EventName,
// PlayerChose).
const (
	VerbAcquire   = "ACQUIRE"
	VerbRemove    = "REMOVE"
	VerbUpgrade   = "UPGRADE"
	VerbTransform = "TRANSFORM"
	VerbSkip      = "SKIP"
	VerbGain      = "GAIN"
	VerbLose      = "LOSE"
	VerbIncrease  = "INCREASE"
	VerbDecrease  = "DECREASE"

	UnitHealth    = "HEALTH"
	UnitMaxHealth = "MAX HEALTH"
	UnitGold      = "GOLD"

	TokenTo            = "TO"
	TokenSkipCard      = "SKIP CARD"
	TokenSkipRelic     = "SKIP RELIC"
	TokenAscensionMode = "ASCENSION MODE"
	TokenNeowBonus     = "NEOW BONUS"
	TokenNeowCost      = "NEOW COST"

	VerbPotionUsed      = "POTION USED"
	VerbPotionMaybeUsed = "POTION POTENTIALLY USED"

	// Campfire choice tokens.
	TokenRest    = "REST"
	TokenSmith   = "SMITH"
	TokenLift    = "LIFT"
	TokenDig     = "DIG"
	TokenRecall  = "RECALL"
	TokenUpgrade = "Upgrade"

	// The skip sentinel as it appears in card-choice records.
	skipSentinel = "SKIP"
)

// GoTo wraps a map node into a single path token.
func GoTo(node string) string { return "GO_TO " + node }

// Battle wraps a raw enemy-group string into a single battle token. The
// group may encode several enemies; that is opaque at this layer.
func Battle(enemies string) string { return "BATTLE " + enemies }

// EventName wraps an event name into a single token.
func EventName(name string) string { return "EVENT " + name }

// PlayerChose wraps a player's event choice into a single token.
func PlayerChose(choice string) string { return "PLAYER CHOSE " + choice }

// DamageTaken tokenizes a health loss: LOSE [N] HEALTH.
func DamageTaken(amount float64) []string {
	return amountTokens(VerbLose, amount, UnitHealth)
}

// HealthHealed tokenizes a heal: GAIN [N] HEALTH.
func HealthHealed(amount float64) []string {
	return amountTokens(VerbGain, amount, UnitHealth)
}

// MaxHealthGained tokenizes a max-HP increase: INCREASE [N] MAX HEALTH.
func MaxHealthGained(amount float64) []string {
	return amountTokens(VerbIncrease, amount, UnitMaxHealth)
}

// MaxHealthLost tokenizes a max-HP decrease: DECREASE [N] MAX HEALTH.
func MaxHealthLost(amount float64) []string {
	return amountTokens(VerbDecrease, amount, UnitMaxHealth)
}

// GoldGained tokenizes a gold gain: ACQUIRE [N] GOLD.
func GoldGained(amount float64) []string {
	return amountTokens(VerbAcquire, amount, UnitGold)
}

// GoldLost tokenizes a gold loss: LOSE [N] GOLD.
func GoldLost(amount float64) []string {
	return amountTokens(VerbLose, amount, UnitGold)
}

func amountTokens(verb string, amount float64, unit string) []string {
	tokens := append([]string{verb}, EncodeAmount(amount)...)
	return append(tokens, unit)
}

// AcquireCard tokenizes a card acquisition: ACQUIRE plus the card tokens.
func AcquireCard(card string) []string {
	return append([]string{VerbAcquire}, TokenizeCard(card)...)
}

// RemoveCard tokenizes a card removal.
func RemoveCard(card string) []string {
	return append([]string{VerbRemove}, TokenizeCard(card)...)
}

// UpgradeCard tokenizes a card upgrade.
func UpgradeCard(card string) []string {
	return append([]string{VerbUpgrade}, TokenizeCard(card)...)
}

// TransformCard tokenizes a single card transformation (the replacement card,
// if recorded, arrives as a separate acquisition).
func TransformCard(card string) []string {
	return append([]string{VerbTransform}, TokenizeCard(card)...)
}

// SkipCard tokenizes a card that was offered but not picked.
func SkipCard(card string) []string {
	return append([]string{VerbSkip}, TokenizeCard(card)...)
}

// TransformPair tokenizes an old/new card pair: TRANSFORM old... TO new...
func TransformPair(oldCard, newCard string) []string {
	tokens := append([]string{VerbTransform}, TokenizeCard(oldCard)...)
	tokens = append(tokens, TokenTo)
	return append(tokens, TokenizeCard(newCard)...)
}

// TransformPairs tokenizes a flat list of old/new card pairs. An odd trailing
// element has no partner; it is logged and dropped.
func TransformPairs(cards []string) []string {
	if len(cards)%2 != 0 {
		log.Printf("tokenizer: cards_transformed has odd length %d, dropping trailing %q", len(cards), cards[len(cards)-1])
	}
	var tokens []string
	for i := 0; i+1 < len(cards); i += 2 {
		if cards[i] == "" || cards[i+1] == "" {
			continue
		}
		tokens = append(tokens, TransformPair(cards[i], cards[i+1])...)
	}
	return tokens
}

// AcquireRelic tokenizes a relic acquisition. Relics are never leveled, so
// the name stays whole.
func AcquireRelic(relic string) []string {
	return []string{VerbAcquire, relic}
}

// RemoveRelic tokenizes a relic loss.
func RemoveRelic(relic string) []string {
	return []string{VerbRemove, relic}
}

// AcquirePotion tokenizes a potion acquisition.
func AcquirePotion(potion string) []string {
	return []string{VerbAcquire, potion}
}

// CanonicalizeKnowingSkullChoice collapses the many narrative variants of a
// Knowing Skull outcome into one canonical string: split on spaces, dedup,
// sort, rejoin. An empty or whitespace-only choice becomes the literal SKIP.
func CanonicalizeKnowingSkullChoice(choice string) string {
	trimmed := strings.TrimSpace(choice)
	if trimmed == "" {
		return skipSentinel
	}

	seen := make(map[string]struct{})
	var words []string
	for _, word := range strings.Split(trimmed, " ") {
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

// PlayerChoice tokenizes an event choice, canonicalizing Knowing Skull
// outcomes first.
func PlayerChoice(choice, eventName string) string {
	if eventName == "Knowing Skull" {
		choice = CanonicalizeKnowingSkullChoice(choice)
	}
	return PlayerChose(choice)
}
