package tokenizer

import "log"

// ActPaths maps an act level (0-indexed) to floor numbers (1-indexed,
// continuous through the run) to the path token for that floor.
type ActPaths map[int]map[int][]string

// ParsePath assembles the per-floor map path. The floor counter advances for
// every raw entry, null or not; a null entry advances the act counter and
// produces no token. Unlike the other assemblers, a duplicate floor within an
// act overwrites with a warning rather than appending.
func ParsePath(path []any) ActPaths {
	out := make(ActPaths)
	act := 0
	floor := 0

	for i, raw := range path {
		floor++
		if raw == nil {
			act++
			continue
		}

		node, ok := raw.(string)
		if !ok {
			log.Printf("tokenizer: path entry %d is not a string or null, skipping", i)
			continue
		}
		if node == "" {
			log.Printf("tokenizer: path entry %d (act %d, floor %d) is empty, skipping", i, act, floor)
			continue
		}

		if out[act] == nil {
			out[act] = make(map[int][]string)
		}
		if existing, ok := out[act][floor]; ok {
			log.Printf("tokenizer: duplicate floor %d in act %d, overwriting %v", floor, act, existing)
		}
		out[act][floor] = []string{GoTo(node)}
	}
	return out
}

// BossFloors returns the floor numbers of BOSS nodes in path order, using the
// same act/floor counting as ParsePath.
func BossFloors(path []any) []int {
	var floors []int
	floor := 0
	for _, raw := range path {
		floor++
		if raw == nil {
			continue
		}
		if node, ok := raw.(string); ok && node == "BOSS" {
			floors = append(floors, floor)
		}
	}
	return floors
}

// Flatten merges the act dimension away, keyed by floor alone. Floors are
// unique across acts by construction.
func (ap ActPaths) Flatten() FloorTokens {
	out := make(FloorTokens)
	for _, floors := range ap {
		for floor, tokens := range floors {
			out.Append(floor, tokens...)
		}
	}
	return out
}
