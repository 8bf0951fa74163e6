package tokenizer

import (
	"sort"

	"github.com/spiretools/runlex/runlog"
)

// potionInventory is the ephemeral multiset of held potions during one
// record's usage reconstruction. Names keep first-acquisition order so token
// emission is deterministic.
type potionInventory struct {
	order []string
	held  map[string]int
	total int
}

func newPotionInventory() *potionInventory {
	return &potionInventory{held: make(map[string]int)}
}

func (inv *potionInventory) add(name string) {
	if _, ok := inv.held[name]; !ok {
		inv.order = append(inv.order, name)
	}
	inv.held[name]++
	inv.total++
}

func (inv *potionInventory) clear() {
	inv.order = nil
	inv.held = make(map[string]int)
	inv.total = 0
}

// ReconstructPotionUsage infers per-floor potion consumption tokens from the
// acquisition entries and the floors on which slot usage was recorded. When
// the held total matches the floor's usage count exactly, the consumed
// identities are certain; otherwise identity is undecidable from slot data
// and every held potion is tagged POTION POTENTIALLY USED instead. Either
// way the inventory is cleared afterwards. A potion acquired on a usage
// floor joins the inventory only after that floor's usage resolves, so it
// carries into the next cycle. Whatever is still held after the last floor
// produces no tokens.
func ReconstructPotionUsage(obtained []runlog.Record, usageFloors []int) FloorTokens {
	// Last acquisition wins when a floor records more than one pickup.
	acquisitions := make(map[int]string)
	for _, entry := range obtained {
		floor, ok := runlog.AsFloor(entry["floor"])
		if !ok {
			continue
		}
		name, ok := entry.Str("key")
		if !ok || name == "" {
			continue
		}
		acquisitions[floor] = name
	}

	usage := make(map[int]int)
	for _, floor := range usageFloors {
		usage[floor]++
	}

	floorSet := make(map[int]struct{}, len(acquisitions)+len(usage))
	for floor := range acquisitions {
		floorSet[floor] = struct{}{}
	}
	for floor := range usage {
		floorSet[floor] = struct{}{}
	}
	floors := make([]int, 0, len(floorSet))
	for floor := range floorSet {
		floors = append(floors, floor)
	}
	sort.Ints(floors)

	out := make(FloorTokens)
	inv := newPotionInventory()
	for _, floor := range floors {
		if count, ok := usage[floor]; ok {
			verb := VerbPotionMaybeUsed
			if inv.total == count {
				verb = VerbPotionUsed
			}
			var tokens []string
			for _, name := range inv.order {
				tokens = append(tokens, verb, name)
			}
			inv.clear()
			out[floor] = tokens
		}
		if name, ok := acquisitions[floor]; ok {
			inv.add(name)
		}
	}
	return out
}
