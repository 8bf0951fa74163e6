package runlog

import "testing"

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"character_chosen": "IRONCLAD",
		"floor_reached":    51.0,
		"is_beta":          true,
		"master_deck":      []any{"Strike", "Bash", 7.0},
		"damage_taken":     []any{map[string]any{"floor": 1.0}, "bogus"},
	}

	if s, ok := r.Str("character_chosen"); !ok || s != "IRONCLAD" {
		t.Errorf("Str = %q, %v", s, ok)
	}
	if _, ok := r.Str("floor_reached"); ok {
		t.Error("Str should reject numeric value")
	}
	if n, ok := r.Int("floor_reached"); !ok || n != 51 {
		t.Errorf("Int = %d, %v", n, ok)
	}
	if !r.Bool("is_beta") {
		t.Error("Bool should report true")
	}
	if r.Bool("missing") {
		t.Error("Bool should default to false for missing key")
	}

	values, skipped := r.StringList("master_deck")
	if len(values) != 2 || skipped != 1 {
		t.Errorf("StringList = %v, skipped %d", values, skipped)
	}

	entries, skipped := r.Entries("damage_taken")
	if len(entries) != 1 || skipped != 1 {
		t.Errorf("Entries = %v, skipped %d", entries, skipped)
	}
}

func TestAsNumberCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 500.0, 500, true},
		{"digit string", "500", 500, true},
		{"decimal string", "10.9", 10.9, true},
		{"padded string", " 75 ", 75, true},
		{"word string", "fifty", 0, false},
		{"empty string", "", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := AsNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: AsNumber(%v) = %v, %v; want %v, %v", tc.name, tc.in, got, ok, tc.want, tc.ok)
		}
	}

	// Float goes through the same coercion, so string amounts resolve too.
	r := Record{"gold_gain": "75"}
	if v, ok := r.Float("gold_gain"); !ok || v != 75 {
		t.Errorf("Float on string amount = %v, %v", v, ok)
	}
}

func TestRecordID(t *testing.T) {
	withID := Record{"play_id": "abc-123"}
	if withID.ID() != "abc-123" {
		t.Errorf("ID = %q, want abc-123", withID.ID())
	}

	generated := Record{}.ID()
	if generated == "" {
		t.Error("expected generated id for record without play_id")
	}
}

func TestParseListOfWrappers(t *testing.T) {
	data := []byte(`[
		{"event": {"character_chosen": "WATCHER"}},
		{"event": {"character_chosen": "DEFECT"}},
		{"event": "not a mapping"},
		"not a wrapper"
	]`)

	records, skipped, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped wrappers, got %d", skipped)
	}
	if name, _ := records[0].Str("character_chosen"); name != "WATCHER" {
		t.Errorf("first record character = %q", name)
	}
}

func TestParseSingleWrapper(t *testing.T) {
	records, skipped, err := Parse([]byte(`{"event": {"floor_reached": 12}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 1 || skipped != 0 {
		t.Fatalf("records=%d skipped=%d", len(records), skipped)
	}
}

func TestParseRejectsScalars(t *testing.T) {
	if _, _, err := Parse([]byte(`42`)); err == nil {
		t.Error("expected error for scalar content")
	}
}
