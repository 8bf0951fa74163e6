package tokenizer

import (
	"fmt"
	"log"
	"sort"

	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/runlog"
)

// Tokenizer converts run records into canonical token sequences. It holds
// the shared read-only catalog; construction is cheap and instances are safe
// for concurrent use.
type Tokenizer struct {
	catalog *gamedata.Catalog
}

func New(catalog *gamedata.Catalog) *Tokenizer {
	return &Tokenizer{catalog: catalog}
}

// RunTokens is the tokenized form of one record: the prelude (character,
// ascension, starting deck, Neow), the run-level transforms, then the
// per-category floor maps.
type RunTokens struct {
	Prelude    []string
	Transforms []string

	Path            ActPaths
	Damage          FloorTokens
	Events          FloorTokens
	CardChoices     FloorTokens
	PotionsObtained FloorTokens
	PotionUsage     FloorTokens
	Purchases       FloorTokens
	Purges          FloorTokens
	Campfires       FloorTokens
	BossRelics      FloorTokens
}

// CharacterToken returns the chosen character's token. Unknown characters
// are logged but still tokenized; the validity filter is responsible for
// rejecting them.
func (t *Tokenizer) CharacterToken(rec runlog.Record) (string, error) {
	character, ok := rec.Str("character_chosen")
	if !ok || character == "" {
		return "", fmt.Errorf("missing character_chosen")
	}
	if !t.catalog.KnownCharacter(character) {
		log.Printf("tokenizer: unknown character %q", character)
	}
	return character, nil
}

// AscensionTokens returns ASCENSION MODE plus the level digits when the run
// was played in ascension mode, and nothing otherwise.
func (t *Tokenizer) AscensionTokens(rec runlog.Record) ([]string, error) {
	if !rec.Bool("is_ascension_mode") {
		return nil, nil
	}

	if level, ok := rec.Str("ascension_level"); ok {
		return append([]string{TokenAscensionMode}, EncodeNumber(level)...), nil
	}
	if level, ok := rec.Int("ascension_level"); ok {
		return append([]string{TokenAscensionMode}, EncodeNumber(fmt.Sprintf("%d", level))...), nil
	}
	return nil, fmt.Errorf("ascension mode set but ascension_level is missing or invalid")
}

// Starting loadouts per character. The game never changes these, so they are
// fixed here rather than in the catalog.
var startingDecks = map[string][]struct {
	card  string
	count int
}{
	"IRONCLAD":   {{"Strike", 5}, {"Defend", 4}, {"Bash", 1}},
	"THE_SILENT": {{"Strike", 5}, {"Defend", 5}, {"Survivor", 1}, {"Neutralize", 1}},
	"DEFECT":     {{"Strike", 4}, {"Defend", 4}, {"Zap", 1}, {"Dualcast", 1}},
	"WATCHER":    {{"Strike", 4}, {"Defend", 4}, {"Eruption", 1}, {"Vigilance", 1}},
}

var startingRelics = map[string]string{
	"IRONCLAD":   "Burning Blood",
	"THE_SILENT": "Ring of the Snake",
	"DEFECT":     "Cracked Core",
	"WATCHER":    "Pure Water",
}

// StartingCards returns ACQUIRE tokens for the character's starting deck.
func StartingCards(character string) ([]string, error) {
	deck, ok := startingDecks[character]
	if !ok {
		return nil, fmt.Errorf("no starting deck for character %q", character)
	}
	var tokens []string
	for _, entry := range deck {
		for i := 0; i < entry.count; i++ {
			tokens = append(tokens, VerbAcquire, entry.card)
		}
	}
	return tokens, nil
}

// StartingRelic returns the ACQUIRE tokens for the character's starting relic.
func StartingRelic(character string) ([]string, error) {
	relic, ok := startingRelics[character]
	if !ok {
		return nil, fmt.Errorf("no starting relic for character %q", character)
	}
	return AcquireRelic(relic), nil
}

// StartingGold returns the tokens for the fixed 99-gold starting purse.
func StartingGold() []string {
	return []string{VerbAcquire, "9", "9", UnitGold}
}

// NeowBonusTokens returns NEOW BONUS plus the bonus name, or nothing when
// the field is absent or empty.
func NeowBonusTokens(rec runlog.Record) []string {
	bonus, ok := rec.Str("neow_bonus")
	if !ok || bonus == "" {
		return nil
	}
	return []string{TokenNeowBonus, bonus}
}

// NeowCostTokens returns NEOW COST plus the cost name, or nothing when the
// field is absent or empty.
func NeowCostTokens(rec runlog.Record) []string {
	cost, ok := rec.Str("neow_cost")
	if !ok || cost == "" {
		return nil
	}
	return []string{TokenNeowCost, cost}
}

// TokenizeRun converts one record into its full token form. The character is
// the only hard requirement; each category degrades independently per the
// error policy (malformed elements are logged and skipped).
func (t *Tokenizer) TokenizeRun(rec runlog.Record) (*RunTokens, error) {
	character, err := t.CharacterToken(rec)
	if err != nil {
		return nil, err
	}

	prelude := []string{character}
	if ascension, err := t.AscensionTokens(rec); err != nil {
		log.Printf("tokenizer: %v", err)
	} else {
		prelude = append(prelude, ascension...)
	}
	if cards, err := StartingCards(character); err == nil {
		prelude = append(prelude, cards...)
	}
	if relic, err := StartingRelic(character); err == nil {
		prelude = append(prelude, relic...)
	}
	prelude = append(prelude, StartingGold()...)
	prelude = append(prelude, NeowBonusTokens(rec)...)
	prelude = append(prelude, NeowCostTokens(rec)...)

	out := &RunTokens{Prelude: prelude}

	// cards_transformed is recorded once per run, not per floor.
	out.Transforms = TransformPairs(stringList(rec, "cards_transformed"))

	path, _ := rec.List("path_per_floor")
	out.Path = ParsePath(path)

	out.Damage = ParseDamageTaken(recordEntries(rec, "damage_taken"))
	out.Events = ParseEvents(recordEntries(rec, "event_choices"))
	out.CardChoices = ParseCardChoices(recordEntries(rec, "card_choices"))

	potions := recordEntries(rec, "potions_obtained")
	out.PotionsObtained = ParsePotionsObtained(potions)
	out.PotionUsage = ReconstructPotionUsage(potions, floorList(rec, "potions_floor_usage"))

	out.Purchases = ParsePurchases(stringList(rec, "items_purchased"), floorList(rec, "item_purchase_floors"))
	out.Purges = ParsePurges(stringList(rec, "items_purged"), floorList(rec, "items_purged_floors"))
	out.Campfires = ParseCampfireChoices(recordEntries(rec, "campfire_choices"))
	out.BossRelics = ParseBossRelics(recordEntries(rec, "boss_relics"), path)

	return out, nil
}

// Sequence flattens the run into one token stream: the prelude, the run-level
// transforms, then each floor in ascending order with categories interleaved
// in a fixed order
// (path, battle, events, card choices, potions, usage, purchases, purges,
// campfires, boss relics).
func (rt *RunTokens) Sequence() []string {
	flatPath := rt.Path.Flatten()
	categories := []FloorTokens{
		flatPath,
		rt.Damage,
		rt.Events,
		rt.CardChoices,
		rt.PotionsObtained,
		rt.PotionUsage,
		rt.Purchases,
		rt.Purges,
		rt.Campfires,
		rt.BossRelics,
	}

	floorSet := make(map[int]struct{})
	for _, category := range categories {
		for floor := range category {
			floorSet[floor] = struct{}{}
		}
	}
	floors := make([]int, 0, len(floorSet))
	for floor := range floorSet {
		floors = append(floors, floor)
	}
	sort.Ints(floors)

	sequence := append([]string{}, rt.Prelude...)
	sequence = append(sequence, rt.Transforms...)
	for _, floor := range floors {
		for _, category := range categories {
			sequence = append(sequence, category[floor]...)
		}
	}
	return sequence
}

func recordEntries(rec runlog.Record, key string) []runlog.Record {
	entries, skipped := rec.Entries(key)
	if skipped > 0 {
		log.Printf("tokenizer: %s: skipped %d malformed entries", key, skipped)
	}
	return entries
}

func stringList(rec runlog.Record, key string) []string {
	values, skipped := rec.StringList(key)
	if skipped > 0 {
		log.Printf("tokenizer: %s: skipped %d non-string entries", key, skipped)
	}
	return values
}

func floorList(rec runlog.Record, key string) []int {
	list, ok := rec.List(key)
	if !ok {
		return nil
	}
	floors := make([]int, 0, len(list))
	for _, v := range list {
		floor, ok := runlog.AsFloor(v)
		if !ok {
			log.Printf("tokenizer: %s: non-numeric floor %v, skipping", key, v)
			continue
		}
		floors = append(floors, floor)
	}
	return floors
}
