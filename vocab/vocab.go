// Package vocab builds the closed token alphabet a sequence model trains
// against. Every token the tokenizer can emit from the catalog's entity sets
// must be a member; membership failures downstream mean the catalog and the
// vocabulary were built from different inputs.
package vocab

import (
	"sort"
	"strings"

	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/tokenizer"
)

// maxDigitPlaces bounds the masked-digit alphabet. Floors stay under 1000
// and gold under 100000 in unmodified runs, so five places cover every
// number the tokenizer encodes.
const maxDigitPlaces = 5

// Vocabulary is the ordered token alphabet. Tokens are unique and sorted
// lexicographically; each token's ordinal is its position.
type Vocabulary struct {
	Tokens []string
	Index  map[string]int
}

// Build assembles the vocabulary from the catalog. Given the same catalog the
// result is identical across runs: the token set is deduplicated and sorted
// before ordinals are assigned.
func Build(catalog *gamedata.Catalog) *Vocabulary {
	set := make(map[string]struct{})
	add := func(tokens ...string) {
		for _, tok := range tokens {
			set[tok] = struct{}{}
		}
	}

	add(digitTokens()...)

	add(
		tokenizer.VerbAcquire, tokenizer.VerbRemove, tokenizer.VerbUpgrade,
		tokenizer.VerbTransform, tokenizer.VerbSkip,
		tokenizer.VerbGain, tokenizer.VerbLose,
		tokenizer.VerbIncrease, tokenizer.VerbDecrease,
		tokenizer.UnitHealth, tokenizer.UnitMaxHealth, tokenizer.UnitGold,
		tokenizer.TokenTo, tokenizer.TokenSkipCard, tokenizer.TokenSkipRelic,
		tokenizer.TokenAscensionMode, tokenizer.TokenNeowBonus, tokenizer.TokenNeowCost,
		tokenizer.VerbPotionUsed, tokenizer.VerbPotionMaybeUsed,
		tokenizer.TokenRest, tokenizer.TokenSmith, tokenizer.TokenLift,
		tokenizer.TokenDig, tokenizer.TokenRecall, tokenizer.TokenUpgrade,
	)

	// Entity names are tokens of their own in multi-token categories. Names
	// already carrying an upgrade separator are excluded: upgrade level is
	// encoded with digit tokens, never in the name.
	for _, card := range catalog.Cards {
		if strings.Contains(card, "+") {
			continue
		}
		add(tokenizer.NormalizeCardName(card))
	}
	for _, curse := range catalog.Curses {
		add(curse)
	}
	add(catalog.Potions...)
	add(catalog.Relics...)
	add(catalog.Characters...)
	add(catalog.NeowBonuses...)
	add(catalog.NeowCosts...)

	// Single-token categories wrap the verb and the entity together, so the
	// product over the closed entity set goes in whole.
	for _, node := range catalog.PathNodes {
		add(tokenizer.GoTo(node))
	}
	for _, group := range catalog.Enemies {
		add(tokenizer.Battle(group))
	}
	for _, event := range catalog.Events {
		add(tokenizer.EventName(event))
	}

	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	index := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		index[tok] = i
	}
	return &Vocabulary{Tokens: tokens, Index: index}
}

// digitTokens returns the masked-digit alphabet: every digit followed by up
// to maxDigitPlaces-1 mask characters.
func digitTokens() []string {
	var tokens []string
	for digit := '0'; digit <= '9'; digit++ {
		for places := 0; places < maxDigitPlaces; places++ {
			tokens = append(tokens, string(digit)+strings.Repeat("X", places))
		}
	}
	return tokens
}

// Contains reports vocabulary membership.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.Index[token]
	return ok
}

// Ordinal returns the token's position in the sorted alphabet.
func (v *Vocabulary) Ordinal(token string) (int, bool) {
	i, ok := v.Index[token]
	return i, ok
}

// Len returns the alphabet size.
func (v *Vocabulary) Len() int {
	return len(v.Tokens)
}
