// Package filter classifies raw run records as valid or rejected before any
// tokenization happens. Rejection is a normal classification outcome, never
// an error: each record gets at most one reason tag, the first check that
// matches.
package filter

import (
	"strings"

	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/runlog"
	"github.com/spiretools/runlex/tokenizer"
)

// Reason is one tag from the closed rejection enumeration. ReasonNone marks a
// valid record.
type Reason string

const (
	ReasonNone Reason = ""

	ReasonInvalidInputType       Reason = "invalid_input_type"
	ReasonModIndicatorPresent    Reason = "daily_mods_or_neow_cos3_present"
	ReasonChoseSeed              Reason = "chose_seed_true"
	ReasonNonzeroCircletCount    Reason = "nonzero_circlet_count"
	ReasonIsBeta                 Reason = "is_beta_true"
	ReasonSpecialSeed            Reason = "special_seed_used"
	ReasonModdedCharacter        Reason = "modded_character"
	ReasonModdedNeowCost         Reason = "modded_neow_cost"
	ReasonModdedNeowBonus        Reason = "modded_neow_bonus"
	ReasonModdedEventChoiceCombo Reason = "modded_event_choice_combo"
	ReasonModdedEvent            Reason = "modded_event_found"
	ReasonModdedCard             Reason = "modded_card_found"
	ReasonModdedEnemy            Reason = "modded_enemy_found"
	ReasonInvalidFloor           Reason = "invalid_floor_value"
)

// Reasons lists every rejection tag in check order, for tally initialization
// and reporting.
var Reasons = []Reason{
	ReasonInvalidInputType,
	ReasonModIndicatorPresent,
	ReasonChoseSeed,
	ReasonNonzeroCircletCount,
	ReasonIsBeta,
	ReasonSpecialSeed,
	ReasonModdedCharacter,
	ReasonModdedNeowCost,
	ReasonModdedNeowBonus,
	ReasonModdedEventChoiceCombo,
	ReasonModdedEvent,
	ReasonModdedCard,
	ReasonModdedEnemy,
	ReasonInvalidFloor,
}

// Filter holds the shared catalog. Instances are safe for concurrent use.
type Filter struct {
	catalog *gamedata.Catalog
}

func New(catalog *gamedata.Catalog) *Filter {
	return &Filter{catalog: catalog}
}

// Check runs the ordered predicate chain and returns the first matching
// rejection reason, or ReasonNone when the record is valid. The chain order
// is part of the contract: callers aggregate reasons for analytics, so new
// checks extend the chain and never reorder existing ones. A missing field
// never triggers a check.
func (f *Filter) Check(v any) Reason {
	rec, ok := asRecord(v)
	if !ok {
		return ReasonInvalidInputType
	}

	checks := []struct {
		reason Reason
		match  func(runlog.Record) bool
	}{
		{ReasonModIndicatorPresent, f.ModIndicatorPresent},
		{ReasonChoseSeed, f.ChoseSeed},
		{ReasonNonzeroCircletCount, f.NonzeroCircletCount},
		{ReasonIsBeta, f.IsBeta},
		{ReasonSpecialSeed, f.SpecialSeedUsed},
		{ReasonModdedCharacter, f.ModdedCharacter},
		{ReasonModdedNeowCost, f.ModdedNeowCost},
		{ReasonModdedNeowBonus, f.ModdedNeowBonus},
		{ReasonModdedEventChoiceCombo, f.ModdedEventChoiceCombo},
		{ReasonModdedEvent, f.ModdedEvent},
		{ReasonModdedCard, f.ModdedCard},
		{ReasonModdedEnemy, f.ModdedEnemy},
		{ReasonInvalidFloor, f.InvalidFloor},
	}
	for _, check := range checks {
		if check.match(rec) {
			return check.reason
		}
	}
	return ReasonNone
}

// Valid reports whether the record passes every check.
func (f *Filter) Valid(v any) bool {
	return f.Check(v) == ReasonNone
}

func asRecord(v any) (runlog.Record, bool) {
	switch rec := v.(type) {
	case runlog.Record:
		return rec, rec != nil
	case map[string]any:
		return runlog.Record(rec), rec != nil
	default:
		return nil, false
	}
}

// ModIndicatorPresent matches records carrying any field that only modded or
// daily-challenge clients write.
func (f *Filter) ModIndicatorPresent(rec runlog.Record) bool {
	for _, field := range f.catalog.ModIndicatorFields {
		if rec.Has(field) {
			return true
		}
	}
	return false
}

// ChoseSeed matches runs played on a custom seed.
func (f *Filter) ChoseSeed(rec runlog.Record) bool {
	return rec.Bool("chose_seed")
}

// NonzeroCircletCount matches runs that received Circlet reward substitutes,
// which only happen when the reward pools have been altered.
func (f *Filter) NonzeroCircletCount(rec runlog.Record) bool {
	count, ok := rec.Float("circlet_count")
	return ok && count > 0
}

// IsBeta matches runs recorded on a beta build.
func (f *Filter) IsBeta(rec runlog.Record) bool {
	return rec.Bool("is_beta")
}

// SpecialSeedUsed matches runs on a special (promotional) seed.
func (f *Filter) SpecialSeedUsed(rec runlog.Record) bool {
	seed, ok := rec.Float("special_seed")
	return ok && seed > 0
}

// ModdedCharacter matches test and placeholder characters that never appear
// in standard clients.
func (f *Filter) ModdedCharacter(rec runlog.Record) bool {
	character, ok := rec.Str("character_chosen")
	if !ok {
		return rec.Has("character_chosen")
	}
	return f.catalog.PlaceholderCharacter(character)
}

// ModdedNeowCost matches the placeholder cost values written by non-standard
// clients. Only string costs can be in the placeholder set; a present
// non-string cost passes here and is caught by later checks if anything else
// about the record is off.
func (f *Filter) ModdedNeowCost(rec runlog.Record) bool {
	cost, ok := rec.Str("neow_cost")
	if !ok {
		return false
	}
	return f.catalog.InvalidNeowCost(cost)
}

// ModdedNeowBonus matches a non-empty bonus outside the known-bonus set.
func (f *Filter) ModdedNeowBonus(rec runlog.Record) bool {
	if !rec.Has("neow_bonus") {
		return false
	}
	bonus, ok := rec.Str("neow_bonus")
	if !ok {
		return true
	}
	return bonus != "" && !f.catalog.KnownNeowBonus(bonus)
}

// ModdedEventChoiceCombo matches event-name/choice pairs from the curated
// table of combinations that only non-standard clients produce.
func (f *Filter) ModdedEventChoiceCombo(rec runlog.Record) bool {
	entries, _ := rec.Entries("event_choices")
	for _, entry := range entries {
		name, ok := entry.Str("event_name")
		if !ok {
			continue
		}
		choice, ok := entry.Str("player_choice")
		if !ok {
			continue
		}
		if f.catalog.ModdedEventChoice(name, choice) {
			return true
		}
	}
	return false
}

// ModdedEvent matches any event name outside the known-event set, and any
// structurally malformed event entry.
func (f *Filter) ModdedEvent(rec runlog.Record) bool {
	if !rec.Has("event_choices") {
		return false
	}
	if _, ok := rec.List("event_choices"); !ok {
		return true
	}
	entries, skipped := rec.Entries("event_choices")
	if skipped > 0 {
		return true
	}
	for _, entry := range entries {
		name, ok := entry.Str("event_name")
		if !ok || !f.catalog.KnownEvent(name) {
			return true
		}
	}
	return false
}

// ModdedCard matches any master-deck card outside the known-card set. Cards
// are compared by base name; the upgrade suffix never affects membership.
func (f *Filter) ModdedCard(rec runlog.Record) bool {
	if !rec.Has("master_deck") {
		return false
	}
	deck, ok := rec.List("master_deck")
	if !ok {
		return true
	}
	for _, v := range deck {
		card, ok := v.(string)
		if !ok {
			return true
		}
		if !f.catalog.KnownCard(tokenizer.TokenizeCard(card)[0]) {
			return true
		}
	}
	return false
}

// ModdedEnemy matches battle entries whose enemy group carries a mod
// namespace separator or is a known modded-enemy string, and malformed
// battle entries.
func (f *Filter) ModdedEnemy(rec runlog.Record) bool {
	if !rec.Has("damage_taken") {
		return false
	}
	if _, ok := rec.List("damage_taken"); !ok {
		return true
	}
	entries, skipped := rec.Entries("damage_taken")
	if skipped > 0 {
		return true
	}
	for _, entry := range entries {
		if !entry.Has("enemies") {
			continue
		}
		enemies, ok := entry.Str("enemies")
		if !ok {
			return true
		}
		if strings.Contains(enemies, ":") || f.catalog.ModdedEnemy(enemies) {
			return true
		}
	}
	return false
}

// InvalidFloor matches a floor-reached value outside [0, 1000) or one that
// is not numeric at all. Standard runs top out well under the bound; values
// past it come from endless-mode mods.
func (f *Filter) InvalidFloor(rec runlog.Record) bool {
	if !rec.Has("floor_reached") {
		return false
	}
	floor, ok := rec.Float("floor_reached")
	if !ok {
		return true
	}
	return floor < 0 || floor >= 1000
}
