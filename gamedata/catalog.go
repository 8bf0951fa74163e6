// Package gamedata holds the closed entity sets the filter, tokenizer, and
// vocabulary builder share. The catalog is loaded once from an embedded YAML
// file and treated as read-only for the life of the process.
package gamedata

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var rawCatalog []byte

// Catalog is the read-only configuration object passed into the filter,
// tokenizer, and vocabulary builder. All slices preserve file order; the
// derived sets exist for membership checks only.
type Catalog struct {
	Characters            []string            `yaml:"characters"`
	PlaceholderCharacters []string            `yaml:"placeholder_characters"`
	ModIndicatorFields    []string            `yaml:"mod_indicator_fields"`
	Cards                 []string            `yaml:"cards"`
	Curses                []string            `yaml:"curses"`
	Potions               []string            `yaml:"potions"`
	Relics                []string            `yaml:"relics"`
	Enemies               []string            `yaml:"enemies"`
	ModdedEnemies         []string            `yaml:"modded_enemies"`
	Events                []string            `yaml:"events"`
	ModdedEventChoices    map[string][]string `yaml:"modded_event_choices"`
	NeowBonuses           []string            `yaml:"neow_bonuses"`
	NeowCosts             []string            `yaml:"neow_costs"`
	InvalidNeowCosts      []string            `yaml:"invalid_neow_costs"`
	PathNodes             []string            `yaml:"path_nodes"`

	cardSet          map[string]struct{}
	potionSet        map[string]struct{}
	eventSet         map[string]struct{}
	enemySet         map[string]struct{}
	moddedEnemySet   map[string]struct{}
	neowBonusSet     map[string]struct{}
	invalidCostSet   map[string]struct{}
	characterSet     map[string]struct{}
	placeholderSet   map[string]struct{}
	moddedChoiceSets map[string]map[string]struct{}
}

// Load parses the embedded catalog and builds the lookup sets. Call it once
// at process start and share the result by reference.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(rawCatalog, &c); err != nil {
		return nil, fmt.Errorf("failed to parse embedded game catalog: %w", err)
	}

	// Valid cards include curses: both appear in master decks and both are
	// legal targets for removal and transformation.
	c.cardSet = toSet(c.Cards)
	for _, curse := range c.Curses {
		c.cardSet[curse] = struct{}{}
	}
	c.potionSet = toSet(c.Potions)
	c.eventSet = toSet(c.Events)
	c.enemySet = toSet(c.Enemies)
	c.moddedEnemySet = toSet(c.ModdedEnemies)
	c.neowBonusSet = toSet(c.NeowBonuses)
	c.invalidCostSet = toSet(c.InvalidNeowCosts)
	c.characterSet = toSet(c.Characters)
	c.placeholderSet = toSet(c.PlaceholderCharacters)

	c.moddedChoiceSets = make(map[string]map[string]struct{}, len(c.ModdedEventChoices))
	for event, choices := range c.ModdedEventChoices {
		c.moddedChoiceSets[event] = toSet(choices)
	}

	return &c, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// KnownCard reports whether name is a card or curse from an unmodified game.
func (c *Catalog) KnownCard(name string) bool {
	_, ok := c.cardSet[name]
	return ok
}

func (c *Catalog) KnownPotion(name string) bool {
	_, ok := c.potionSet[name]
	return ok
}

func (c *Catalog) KnownEvent(name string) bool {
	_, ok := c.eventSet[name]
	return ok
}

func (c *Catalog) KnownEnemy(group string) bool {
	_, ok := c.enemySet[group]
	return ok
}

func (c *Catalog) ModdedEnemy(group string) bool {
	_, ok := c.moddedEnemySet[group]
	return ok
}

func (c *Catalog) KnownNeowBonus(bonus string) bool {
	_, ok := c.neowBonusSet[bonus]
	return ok
}

func (c *Catalog) InvalidNeowCost(cost string) bool {
	_, ok := c.invalidCostSet[cost]
	return ok
}

func (c *Catalog) KnownCharacter(name string) bool {
	_, ok := c.characterSet[name]
	return ok
}

func (c *Catalog) PlaceholderCharacter(name string) bool {
	_, ok := c.placeholderSet[name]
	return ok
}

// ModdedEventChoice reports whether the event/choice pair is in the curated
// table of combinations produced by non-standard clients.
func (c *Catalog) ModdedEventChoice(event, choice string) bool {
	choices, ok := c.moddedChoiceSets[event]
	if !ok {
		return false
	}
	_, ok = choices[choice]
	return ok
}
