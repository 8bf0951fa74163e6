package tokenizer

import (
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	path := []any{"M", "?", nil, "$", "BOSS"}
	got := ParsePath(path)

	want := ActPaths{
		0: {1: {"GO_TO M"}, 2: {"GO_TO ?"}},
		1: {4: {"GO_TO $"}, 5: {"GO_TO BOSS"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePath = %v, want %v", got, want)
	}
}

func TestParsePathSkipsMalformedEntries(t *testing.T) {
	path := []any{"M", 7.0, "", "T"}
	got := ParsePath(path)

	// The floor counter still advances past skipped entries.
	want := ActPaths{0: {1: {"GO_TO M"}, 4: {"GO_TO T"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePath = %v, want %v", got, want)
	}
}

func TestBossFloors(t *testing.T) {
	path := []any{"M", "E", "BOSS", nil, "M", "BOSS", nil}
	got := BossFloors(path)
	want := []int{3, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BossFloors = %v, want %v", got, want)
	}
}

func TestActPathsFlatten(t *testing.T) {
	ap := ActPaths{
		0: {1: {"GO_TO M"}},
		1: {4: {"GO_TO $"}},
	}
	got := ap.Flatten()
	want := FloorTokens{1: {"GO_TO M"}, 4: {"GO_TO $"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}
