package gamedata

import "testing"

func TestLoadCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	if len(c.Cards) == 0 || len(c.Potions) == 0 || len(c.Events) == 0 {
		t.Fatal("catalog is missing entity sets")
	}

	if !c.KnownCard("Bash") {
		t.Error("expected Bash to be a known card")
	}
	if !c.KnownCard("Regret") {
		t.Error("expected curses to count as known cards")
	}
	if c.KnownCard("Totally Modded Card") {
		t.Error("unexpected card reported as known")
	}
}

func TestCatalogLookups(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	if !c.KnownCharacter("IRONCLAD") {
		t.Error("IRONCLAD should be a known character")
	}
	if !c.PlaceholderCharacter("SCHOLAR") {
		t.Error("SCHOLAR should be a placeholder character")
	}
	if !c.InvalidNeowCost("") {
		t.Error("empty Neow cost should be invalid")
	}
	if !c.InvalidNeowCost("BASIC_CARDS") {
		t.Error("BASIC_CARDS should be an invalid Neow cost")
	}
	if c.InvalidNeowCost("CURSE") {
		t.Error("CURSE is a legitimate Neow cost")
	}
	if !c.ModdedEnemy("Voidling Horde") {
		t.Error("expected Voidling Horde in modded enemy set")
	}
	if c.KnownEnemy("Voidling Horde") {
		t.Error("modded enemy must not be in the known enemy set")
	}
}

func TestModdedEventChoice(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	if !c.ModdedEventChoice("Liars Game", "AGREED TO TRADE ALL") {
		t.Error("curated event/choice combo should be flagged")
	}
	if c.ModdedEventChoice("Liars Game", "AGREE") {
		t.Error("standard choice must not be flagged")
	}
	if c.ModdedEventChoice("Unknown Event", "whatever") {
		t.Error("unlisted event must not be flagged")
	}
}
