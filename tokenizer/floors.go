package tokenizer

import (
	"log"
	"strings"

	"github.com/spiretools/runlex/runlog"
)

// FloorTokens maps a floor number to the ordered tokens produced on that
// floor. When a floor recurs within a category, new tokens append after the
// existing ones, preserving the order of appearance in the source list. The
// path assembler is the one exception (see ParsePath).
type FloorTokens map[int][]string

// Append adds tokens to a floor, creating the floor on first use.
func (ft FloorTokens) Append(floor int, tokens ...string) {
	if len(tokens) == 0 {
		return
	}
	ft[floor] = append(ft[floor], tokens...)
}

// entryFloor extracts and coerces the floor number of one list entry.
func entryFloor(entry runlog.Record) (int, bool) {
	floor, ok := runlog.AsFloor(entry["floor"])
	if !ok {
		log.Printf("tokenizer: entry has missing or non-numeric floor: %v", entry)
	}
	return floor, ok
}

// ParseCardChoices assembles card-reward decisions by floor. A picked value
// equal to the skip sentinel (case-insensitive) emits the single SKIP CARD
// token; offered-but-not-picked cards emit SKIP plus the card tokens. An
// entry with neither field produces no tokens.
func ParseCardChoices(choices []runlog.Record) FloorTokens {
	out := make(FloorTokens)
	for _, choice := range choices {
		floor, ok := entryFloor(choice)
		if !ok {
			continue
		}

		var tokens []string
		if picked, ok := choice.Str("picked"); ok {
			if strings.EqualFold(picked, skipSentinel) {
				tokens = append(tokens, TokenSkipCard)
			} else {
				tokens = append(tokens, AcquireCard(picked)...)
			}
		}
		if notPicked, skipped := choice.StringList("not_picked"); len(notPicked) > 0 || skipped > 0 {
			if skipped > 0 {
				log.Printf("tokenizer: floor %d: skipped %d non-string not_picked cards", floor, skipped)
			}
			for _, card := range notPicked {
				tokens = append(tokens, SkipCard(card)...)
			}
		}

		out.Append(floor, tokens...)
	}
	return out
}

// ParseDamageTaken assembles battle encounters and health losses by floor.
// An entry with an enemies string emits a battle token; a non-zero damage
// amount emits LOSE tokens. Zero deltas are omitted.
func ParseDamageTaken(entries []runlog.Record) FloorTokens {
	out := make(FloorTokens)
	for _, entry := range entries {
		floor, ok := entryFloor(entry)
		if !ok {
			continue
		}

		var tokens []string
		if entry.Has("enemies") {
			enemies, ok := entry.Str("enemies")
			if !ok {
				log.Printf("tokenizer: floor %d: non-string enemies field, skipping entry", floor)
				continue
			}
			if enemies == "" {
				log.Printf("tokenizer: floor %d: empty enemies string", floor)
			}
			tokens = append(tokens, Battle(enemies))
		}
		if damage, ok := entry.Float("damage"); ok && damage != 0 {
			tokens = append(tokens, DamageTaken(damage)...)
		}

		out.Append(floor, tokens...)
	}
	return out
}

// ParsePotionsObtained assembles potion pickups by floor.
func ParsePotionsObtained(entries []runlog.Record) FloorTokens {
	out := make(FloorTokens)
	for _, entry := range entries {
		floor, ok := entryFloor(entry)
		if !ok {
			continue
		}
		name, ok := entry.Str("key")
		if !ok || name == "" {
			log.Printf("tokenizer: floor %d: missing or empty potion name, skipping entry", floor)
			continue
		}
		out.Append(floor, AcquirePotion(name)...)
	}
	return out
}

// ParsePurchases assembles shop purchases by floor from the two parallel
// lists in the record. A length mismatch is logged and parsing stops at the
// shorter list.
func ParsePurchases(items []string, floors []int) FloorTokens {
	return parseZippedItems(items, floors, VerbAcquire, "purchased")
}

// ParsePurges assembles paid card removals by floor.
func ParsePurges(items []string, floors []int) FloorTokens {
	return parseZippedItems(items, floors, VerbRemove, "purged")
}

func parseZippedItems(items []string, floors []int, verb, what string) FloorTokens {
	if len(items) != len(floors) {
		log.Printf("tokenizer: %d %s items but %d floors; pairing up to the shorter list", len(items), what, len(floors))
	}

	out := make(FloorTokens)
	for i := 0; i < len(items) && i < len(floors); i++ {
		if items[i] == "" {
			log.Printf("tokenizer: empty %s item at index %d, skipping", what, i)
			continue
		}
		out.Append(floors[i], append([]string{verb}, TokenizeCard(items[i])...)...)
	}
	return out
}

// ParseCampfireChoices assembles rest-site decisions by floor. SMITH and
// PURGE carry a card in the entry's data field; the other keys stand alone.
// An unknown key is a malformed element: logged and skipped.
func ParseCampfireChoices(choices []runlog.Record) FloorTokens {
	out := make(FloorTokens)
	for _, choice := range choices {
		floor, ok := entryFloor(choice)
		if !ok {
			continue
		}
		key, ok := choice.Str("key")
		if !ok {
			log.Printf("tokenizer: floor %d: campfire choice without key, skipping", floor)
			continue
		}

		switch key {
		case "REST":
			out.Append(floor, TokenRest)
		case "SMITH":
			card, ok := choice.Str("data")
			if !ok {
				log.Printf("tokenizer: floor %d: SMITH choice without card, skipping", floor)
				continue
			}
			out.Append(floor, append([]string{TokenSmith, TokenUpgrade}, TokenizeCard(card)...)...)
		case "LIFT":
			out.Append(floor, TokenLift)
		case "DIG":
			out.Append(floor, TokenDig)
		case "PURGE":
			card, ok := choice.Str("data")
			if !ok {
				log.Printf("tokenizer: floor %d: PURGE choice without card, skipping", floor)
				continue
			}
			out.Append(floor, RemoveCard(card)...)
		case "RECALL":
			out.Append(floor, TokenRecall)
		default:
			log.Printf("tokenizer: floor %d: unknown campfire choice key %q, skipping", floor, key)
		}
	}
	return out
}

// ParseBossRelics assembles boss-relic decisions. Boss-relic entries carry no
// floor of their own; the Nth decision is assigned to the floor of the Nth
// BOSS node in the path, in order. Decisions beyond the recorded BOSS floors
// are logged and dropped.
func ParseBossRelics(entries []runlog.Record, path []any) FloorTokens {
	bossFloors := BossFloors(path)

	out := make(FloorTokens)
	for i, entry := range entries {
		if i >= len(bossFloors) {
			log.Printf("tokenizer: boss relic decision %d has no matching BOSS node in path, skipping", i)
			continue
		}
		floor := bossFloors[i]

		var tokens []string
		if picked, ok := entry.Str("picked"); ok && picked != "" {
			if strings.EqualFold(picked, skipSentinel) {
				tokens = append(tokens, TokenSkipRelic)
			} else {
				tokens = append(tokens, AcquireRelic(picked)...)
			}
		}
		notPicked, skipped := entry.StringList("not_picked")
		if skipped > 0 {
			log.Printf("tokenizer: floor %d: skipped %d non-string not_picked relics", floor, skipped)
		}
		for _, relic := range notPicked {
			tokens = append(tokens, VerbSkip, relic)
		}

		out.Append(floor, tokens...)
	}
	return out
}
