package tokenizer

import (
	"reflect"
	"testing"
)

func TestAmountCategories(t *testing.T) {
	cases := []struct {
		name string
		got  []string
		want []string
	}{
		{"damage", DamageTaken(10), []string{"LOSE", "1X", "0", "HEALTH"}},
		{"heal", HealthHealed(7), []string{"GAIN", "7", "HEALTH"}},
		{"max hp gain", MaxHealthGained(5), []string{"INCREASE", "5", "MAX HEALTH"}},
		{"max hp loss", MaxHealthLost(3), []string{"DECREASE", "3", "MAX HEALTH"}},
		{"gold gain", GoldGained(275), []string{"ACQUIRE", "2XX", "7X", "5", "GOLD"}},
		{"gold loss", GoldLost(99), []string{"LOSE", "9X", "9", "GOLD"}},
	}
	for _, tc := range cases {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestCardCategories(t *testing.T) {
	got := AcquireCard("Searing Blow+2")
	want := []string{"ACQUIRE", "Searing Blow", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AcquireCard = %v, want %v", got, want)
	}

	got = SkipCard("Strike_R+1")
	want = []string{"SKIP", "Strike", "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SkipCard = %v, want %v", got, want)
	}
}

func TestWrappedTokens(t *testing.T) {
	if got := GoTo("BOSS"); got != "GO_TO BOSS" {
		t.Errorf("GoTo = %q", got)
	}
	if got := Battle("2 Louse"); got != "BATTLE 2 Louse" {
		t.Errorf("Battle = %q", got)
	}
	if got := EventName("Big Fish"); got != "EVENT Big Fish" {
		t.Errorf("EventName = %q", got)
	}
	if got := PlayerChose("BANANA"); got != "PLAYER CHOSE BANANA" {
		t.Errorf("PlayerChose = %q", got)
	}
}

func TestTransformPairs(t *testing.T) {
	got := TransformPairs([]string{"Regret", "Apotheosis+1"})
	want := []string{"TRANSFORM", "Regret", "TO", "Apotheosis", "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TransformPairs = %v, want %v", got, want)
	}

	// An odd trailing element is ignored.
	got = TransformPairs([]string{"Regret", "Loop", "Doubt"})
	want = []string{"TRANSFORM", "Regret", "TO", "Loop"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TransformPairs (odd) = %v, want %v", got, want)
	}

	if got := TransformPairs(nil); got != nil {
		t.Errorf("TransformPairs(nil) = %v, want nil", got)
	}
}

func TestCanonicalizeKnowingSkullChoice(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "SKIP"},
		{"   ", "SKIP"},
		{"Gold Gold Potion", "Gold Potion"},
		{"Potion Gold", "Gold Potion"},
		{"Card", "Card"},
	}
	for _, tc := range cases {
		if got := CanonicalizeKnowingSkullChoice(tc.in); got != tc.want {
			t.Errorf("CanonicalizeKnowingSkullChoice(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlayerChoice(t *testing.T) {
	if got := PlayerChoice("Potion Gold Potion", "Knowing Skull"); got != "PLAYER CHOSE Gold Potion" {
		t.Errorf("Knowing Skull choice = %q", got)
	}
	// Other events pass the choice through untouched.
	if got := PlayerChoice("Potion Gold Potion", "Big Fish"); got != "PLAYER CHOSE Potion Gold Potion" {
		t.Errorf("non-skull choice = %q", got)
	}
}
