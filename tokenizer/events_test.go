package tokenizer

import (
	"reflect"
	"testing"

	"github.com/spiretools/runlex/runlog"
)

func TestParseEvents(t *testing.T) {
	events := []runlog.Record{
		{
			"floor":         6.0,
			"event_name":    "Big Fish",
			"player_choice": "BANANA",
			"damage_healed": 12.0,
			"damage_taken":  0.0,
		},
		{
			"floor":           13.0,
			"event_name":      "The Cleric",
			"player_choice":   "Card Removal",
			"gold_loss":       75.0,
			"cards_removed":   []any{"Strike_R"},
			"relics_obtained": []any{"Happy Flower"},
		},
	}
	got := ParseEvents(events)

	want := FloorTokens{
		6: {"EVENT Big Fish", "PLAYER CHOSE BANANA", "GAIN", "1X", "2", "HEALTH"},
		13: {"EVENT The Cleric", "PLAYER CHOSE Card Removal",
			"LOSE", "7X", "5", "GOLD",
			"REMOVE", "Strike",
			"ACQUIRE", "Happy Flower"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEvents = %v, want %v", got, want)
	}
}

func TestParseEventsStringAmounts(t *testing.T) {
	// Some clients write event deltas as strings.
	events := []runlog.Record{{
		"floor":      13.0,
		"event_name": "The Cleric",
		"gold_gain":  "75",
	}}
	got := ParseEvents(events)
	want := FloorTokens{
		13: {"EVENT The Cleric", "ACQUIRE", "7X", "5", "GOLD"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEvents = %v, want %v", got, want)
	}
}

func TestParseEventsFieldOrder(t *testing.T) {
	// Every delta and list populated; the output order is fixed regardless of
	// map iteration order.
	events := []runlog.Record{{
		"floor":             6.0,
		"event_name":        "Purifier",
		"player_choice":     "One",
		"damage_healed":     1.0,
		"damage_taken":      2.0,
		"max_hp_gain":       3.0,
		"max_hp_loss":       4.0,
		"gold_loss":         5.0,
		"gold_gain":         6.0,
		"cards_transformed": []any{"Regret"},
		"cards_upgraded":    []any{"Bash"},
		"cards_removed":     []any{"Doubt"},
		"cards_obtained":    []any{"Loop"},
		"relics_obtained":   []any{"Tiny Chest"},
		"relics_lost":       []any{"Happy Flower"},
		"potions_obtained":  []any{"Energy Potion"},
	}}
	got := ParseEvents(events)

	want := FloorTokens{6: {
		"EVENT Purifier", "PLAYER CHOSE One",
		"GAIN", "1", "HEALTH",
		"LOSE", "2", "HEALTH",
		"INCREASE", "3", "MAX HEALTH",
		"DECREASE", "4", "MAX HEALTH",
		"LOSE", "5", "GOLD",
		"ACQUIRE", "6", "GOLD",
		"TRANSFORM", "Regret",
		"UPGRADE", "Bash",
		"REMOVE", "Doubt",
		"ACQUIRE", "Loop",
		"ACQUIRE", "Tiny Chest",
		"REMOVE", "Happy Flower",
		"ACQUIRE", "Energy Potion",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEvents = %v, want %v", got, want)
	}
}

func TestParseEventsSkipsNamelessEntry(t *testing.T) {
	events := []runlog.Record{
		{"floor": 6.0, "player_choice": "BANANA"},
		{"floor": 7.0, "event_name": "Living Wall", "player_choice": "Forget"},
	}
	got := ParseEvents(events)

	want := FloorTokens{7: {"EVENT Living Wall", "PLAYER CHOSE Forget"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEvents = %v, want %v", got, want)
	}
}

func TestParseEventsKnowingSkull(t *testing.T) {
	events := []runlog.Record{
		{"floor": 22.0, "event_name": "Knowing Skull", "player_choice": "Gold Potion Gold"},
	}
	got := ParseEvents(events)

	want := FloorTokens{22: {"EVENT Knowing Skull", "PLAYER CHOSE Gold Potion"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEvents = %v, want %v", got, want)
	}
}
