package tokenizer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/runlog"
)

func testTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	catalog, err := gamedata.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return New(catalog)
}

func TestTokenizeRunPrelude(t *testing.T) {
	tk := testTokenizer(t)
	rec := runlog.Record{
		"character_chosen":  "IRONCLAD",
		"is_ascension_mode": true,
		"ascension_level":   17.0,
		"neow_bonus":        "THREE_CARDS",
		"neow_cost":         "NONE",
	}
	rt, err := tk.TokenizeRun(rec)
	if err != nil {
		t.Fatalf("TokenizeRun: %v", err)
	}

	want := []string{"IRONCLAD", "ASCENSION MODE", "1X", "7"}
	for i := 0; i < 5; i++ {
		want = append(want, "ACQUIRE", "Strike")
	}
	for i := 0; i < 4; i++ {
		want = append(want, "ACQUIRE", "Defend")
	}
	want = append(want, "ACQUIRE", "Bash")
	want = append(want, "ACQUIRE", "Burning Blood")
	want = append(want, "ACQUIRE", "9", "9", "GOLD")
	want = append(want, "NEOW BONUS", "THREE_CARDS", "NEOW COST", "NONE")

	if !reflect.DeepEqual(rt.Prelude, want) {
		t.Errorf("prelude = %v, want %v", rt.Prelude, want)
	}
}

func TestTokenizeRunMissingCharacter(t *testing.T) {
	tk := testTokenizer(t)
	if _, err := tk.TokenizeRun(runlog.Record{}); err == nil {
		t.Fatal("expected error for missing character")
	}
}

func TestTokenizeRunNoAscension(t *testing.T) {
	tk := testTokenizer(t)
	rt, err := tk.TokenizeRun(runlog.Record{"character_chosen": "WATCHER"})
	if err != nil {
		t.Fatalf("TokenizeRun: %v", err)
	}
	for _, tok := range rt.Prelude {
		if tok == TokenAscensionMode {
			t.Fatal("prelude contains ASCENSION MODE for a non-ascension run")
		}
	}
	if rt.Prelude[0] != "WATCHER" {
		t.Errorf("prelude starts with %q", rt.Prelude[0])
	}
}

func TestStartingLoadouts(t *testing.T) {
	cards, err := StartingCards("DEFECT")
	if err != nil {
		t.Fatalf("StartingCards: %v", err)
	}
	if len(cards) != 20 {
		t.Errorf("DEFECT starting deck has %d tokens, want 20", len(cards))
	}

	relic, err := StartingRelic("THE_SILENT")
	if err != nil {
		t.Fatalf("StartingRelic: %v", err)
	}
	if !reflect.DeepEqual(relic, []string{"ACQUIRE", "Ring of the Snake"}) {
		t.Errorf("relic = %v", relic)
	}

	if _, err := StartingCards("SCHOLAR"); err == nil {
		t.Error("expected error for unknown character deck")
	}
}

func TestTokenizeRunSequence(t *testing.T) {
	tk := testTokenizer(t)
	rec := runlog.Record{
		"character_chosen": "IRONCLAD",
		"path_per_floor":   []any{"M", "?", "R"},
		"damage_taken": []any{
			map[string]any{"floor": 1.0, "enemies": "2 Louse", "damage": 6.0},
		},
		"event_choices": []any{
			map[string]any{"floor": 2.0, "event_name": "Big Fish", "player_choice": "BANANA", "damage_healed": 5.0},
		},
		"card_choices": []any{
			map[string]any{"floor": 1.0, "picked": "Wallop", "not_picked": []any{"Bash"}},
		},
		"campfire_choices": []any{
			map[string]any{"floor": 3.0, "key": "REST"},
		},
	}
	rt, err := tk.TokenizeRun(rec)
	if err != nil {
		t.Fatalf("TokenizeRun: %v", err)
	}

	seq := rt.Sequence()
	wantTail := []string{
		"GO_TO M",
		"BATTLE 2 Louse", "LOSE", "6", "HEALTH",
		"ACQUIRE", "Wallop", "SKIP", "Bash",
		"GO_TO ?",
		"EVENT Big Fish", "PLAYER CHOSE BANANA", "GAIN", "5", "HEALTH",
		"GO_TO R",
		"REST",
	}
	tail := seq[len(seq)-len(wantTail):]
	if !reflect.DeepEqual(tail, wantTail) {
		t.Errorf("sequence tail = %v, want %v", tail, wantTail)
	}
	if seq[0] != "IRONCLAD" {
		t.Errorf("sequence starts with %q", seq[0])
	}
}

func TestTokenizeRunTransforms(t *testing.T) {
	tk := testTokenizer(t)
	rec := runlog.Record{
		"character_chosen":  "IRONCLAD",
		"cards_transformed": []any{"Regret", "Apotheosis+1", "Doubt"},
		"damage_taken": []any{
			map[string]any{"floor": 1.0, "enemies": "Cultist", "damage": 4.0},
		},
	}
	rt, err := tk.TokenizeRun(rec)
	if err != nil {
		t.Fatalf("TokenizeRun: %v", err)
	}

	want := []string{"TRANSFORM", "Regret", "TO", "Apotheosis", "1"}
	if !reflect.DeepEqual(rt.Transforms, want) {
		t.Errorf("transforms = %v, want %v", rt.Transforms, want)
	}

	// Transforms sit between the prelude and the first floor.
	seq := rt.Sequence()
	at := len(rt.Prelude)
	if !reflect.DeepEqual(seq[at:at+len(want)], want) {
		t.Errorf("sequence after prelude = %v, want %v", seq[at:at+len(want)], want)
	}
	if seq[at+len(want)] != "BATTLE Cultist" {
		t.Errorf("token after transforms = %q, want BATTLE Cultist", seq[at+len(want)])
	}
}

func TestSequenceFloorOrder(t *testing.T) {
	rt := &RunTokens{
		Prelude: []string{"DEFECT"},
		Damage: FloorTokens{
			10: {"BATTLE Jaw Worm"},
			2:  {"BATTLE Cultist"},
		},
		Events: FloorTokens{5: {"EVENT Liars Game"}},
	}
	got := rt.Sequence()
	want := []string{"DEFECT", "BATTLE Cultist", "EVENT Liars Game", "BATTLE Jaw Worm"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequence = %v, want %v", got, want)
	}
}

func TestSequenceJoinable(t *testing.T) {
	tk := testTokenizer(t)
	rt, err := tk.TokenizeRun(runlog.Record{"character_chosen": "DEFECT"})
	if err != nil {
		t.Fatalf("TokenizeRun: %v", err)
	}
	joined := strings.Join(rt.Sequence(), " | ")
	if !strings.HasPrefix(joined, "DEFECT | ACQUIRE | Strike") {
		t.Errorf("joined sequence starts with %q", joined[:40])
	}
}
