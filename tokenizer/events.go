package tokenizer

import (
	"fmt"
	"log"

	"github.com/spiretools/runlex/runlog"
)

// Generic-event fields are tokenized in a fixed order because downstream
// consumers slice the resulting tuples positionally: name, player choice,
// health healed, damage taken, max-HP gained, max-HP lost, gold lost, gold
// gained, then the card/relic/potion lists.

// ParseEvents assembles ?-room events by floor. A missing or empty event
// name fails that entry alone; malformed elements inside the list fields are
// logged and skipped without aborting the entry.
func ParseEvents(events []runlog.Record) FloorTokens {
	out := make(FloorTokens)
	for i, event := range events {
		floor, ok := entryFloor(event)
		if !ok {
			continue
		}
		tokens, err := tokenizeEvent(event)
		if err != nil {
			log.Printf("tokenizer: event entry %d (floor %d): %v, skipping", i, floor, err)
			continue
		}
		out.Append(floor, tokens...)
	}
	return out
}

func tokenizeEvent(event runlog.Record) ([]string, error) {
	name, ok := event.Str("event_name")
	if !ok || name == "" {
		return nil, fmt.Errorf("missing or invalid event name")
	}
	tokens := []string{EventName(name)}

	if choice, ok := event.Str("player_choice"); ok {
		tokens = append(tokens, PlayerChoice(choice, name))
	} else if event.Has("player_choice") {
		log.Printf("tokenizer: event %q: player_choice is not a string, skipping choice", name)
	}

	// Zero deltas are omitted, never tokenized as zero.
	for _, amount := range []struct {
		key      string
		tokenize func(float64) []string
	}{
		{"damage_healed", HealthHealed},
		{"damage_taken", DamageTaken},
		{"max_hp_gain", MaxHealthGained},
		{"max_hp_loss", MaxHealthLost},
		{"gold_loss", GoldLost},
		{"gold_gain", GoldGained},
	} {
		if v, ok := event.Float(amount.key); ok && v != 0 {
			tokens = append(tokens, amount.tokenize(v)...)
		}
	}

	for _, list := range []struct {
		key      string
		tokenize func(string) []string
	}{
		{"cards_transformed", TransformCard},
		{"cards_upgraded", UpgradeCard},
		{"cards_removed", RemoveCard},
		{"cards_obtained", AcquireCard},
		{"relics_obtained", AcquireRelic},
		{"relics_lost", RemoveRelic},
		{"potions_obtained", AcquirePotion},
	} {
		if !event.Has(list.key) {
			continue
		}
		values, skipped := event.StringList(list.key)
		if skipped > 0 {
			log.Printf("tokenizer: event %q: skipped %d non-string %s entries", name, skipped, list.key)
		}
		for _, value := range values {
			if value == "" {
				log.Printf("tokenizer: event %q: empty %s entry, skipping", name, list.key)
				continue
			}
			tokens = append(tokens, list.tokenize(value)...)
		}
	}

	return tokens, nil
}
