package derivation

import "math"

// MaxMemoryLoad returns the largest movers-store size observed at any
// point in the derivation's history, walking every subderivation reached
// by merge, selectee, move-predecessor, or mover edges. Shared
// subderivations are visited once.
func (s *State) MaxMemoryLoad() int {
	seen := map[*State]bool{}
	max := 0
	var walk func(*State)
	walk = func(n *State) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if len(n.Movers) > max {
			max = len(n.Movers)
		}
		walk(n.Host)
		walk(n.Selectee)
		walk(n.Pred)
		walk(n.Mover)
		for _, slot := range n.Movers {
			walk(slot.State)
		}
	}
	walk(s)
	return max
}

// Prob is the convenience conversion from the stored log-probability.
func (s *State) Prob() float64 {
	return math.Exp(s.LogProb)
}
