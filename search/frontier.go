package search

import (
	"container/heap"

	"github.com/dekarrin/rosed"

	"github.com/arashi-lang/mg/derivation"
)

// frontierHeap is a container/heap.Interface over derivation states,
// ordered by the tie-break of spec.md 4.4: (-log_prob, step_count,
// fingerprint), so Pop always returns the best remaining state.
type frontierHeap []*derivation.State

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.LogProb != b.LogProb {
		return a.LogProb > b.LogProb
	}
	if a.NSteps != b.NSteps {
		return a.NSteps < b.NSteps
	}
	return a.Fingerprint() < b.Fingerprint()
}

func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x interface{}) {
	*h = append(*h, x.(*derivation.State))
}

func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return s
}

// Frontier is the beam's priority queue plus fingerprint-based
// deduplication: a fingerprint maps to the best-scoring state seen with
// that fingerprint, and equal-or-worse duplicates are silently dropped.
type Frontier struct {
	heap frontierHeap
	best map[string]float64
}

// NewFrontier returns an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{best: map[string]float64{}}
}

// Offer adds s to the frontier, reporting whether it was kept. s is
// dropped if a state with the same fingerprint and an equal or better
// log-probability is already present.
func (f *Frontier) Offer(s *derivation.State) bool {
	fp := s.Fingerprint()
	if prev, ok := f.best[fp]; ok && prev >= s.LogProb {
		return false
	}
	f.best[fp] = s.LogProb
	heap.Push(&f.heap, s)
	return true
}

// Len returns the number of states currently on the frontier.
func (f *Frontier) Len() int { return f.heap.Len() }

// Pop removes and returns the best-scoring remaining state.
func (f *Frontier) Pop() *derivation.State {
	return heap.Pop(&f.heap).(*derivation.State)
}

// Truncate keeps only the top n states by priority order, matching the
// n_beams configuration option. A non-positive n is a no-op.
func (f *Frontier) Truncate(n int) {
	if n <= 0 || f.heap.Len() <= n {
		return
	}
	kept := make(frontierHeap, 0, n)
	for i := 0; i < n; i++ {
		kept = append(kept, heap.Pop(&f.heap).(*derivation.State))
	}
	f.heap = kept
	heap.Init(&f.heap)
}

// DebugTable renders the current frontier contents as a human-readable
// table, ordered best first, for troubleshooting grammars and search
// bounds.
func (f *Frontier) DebugTable() string {
	ordered := append(frontierHeap(nil), f.heap...)
	heap.Init(&ordered)
	cp := make(frontierHeap, len(ordered))
	copy(cp, ordered)

	data := [][]interface{}{{"surface", "log-prob", "steps", "fingerprint"}}
	for cp.Len() > 0 {
		s := heap.Pop(&cp).(*derivation.State)
		data = append(data, []interface{}{s.SurfaceString(), s.LogProb, s.NSteps, s.Fingerprint()})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
