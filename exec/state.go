// Package exec implements the row-driven NFA simulation over a compiled
// pattern.Pattern: MatchState/Summary bookkeeping, element-level transitions,
// context lifecycle, and absorption.
package exec

import (
	"strconv"
	"strings"

	"github.com/rprcore/rpr/internal/orderset"
	"github.com/rprcore/rpr/pattern"
)

// Completed is the element-index sentinel marking a MatchState that has
// reached the pattern's Fin element. Distinct from pattern.InvalidIndex so
// the two "not a real element" meanings never collide.
const Completed pattern.ElemIndex = -2

// Aggregates is the per-summary aggregate bundle, reserved for future
// SUM/COUNT/FIRST/LAST/MIN/MAX accumulation. The engine computes none today,
// so every Summary compares equal on Aggregates and all paths a MatchState
// accumulates live in a single bucket.
type Aggregates struct{}

// Equal reports whether two Aggregates values should be treated as the same
// accumulation bucket for merge purposes.
func (Aggregates) Equal(Aggregates) bool { return true }

// PathEntry is one path through the pattern: the sequence of variable IDs
// matched so far, tagged with the seq number assigned when the path was
// materialized (on state creation or fork).
type PathEntry struct {
	Seq  int64
	Path []int
}

func (p PathEntry) clone() PathEntry {
	cp := make([]int, len(p.Path))
	copy(cp, p.Path)
	return PathEntry{Seq: p.Seq, Path: cp}
}

func (p PathEntry) key() string {
	var b strings.Builder
	for i, v := range p.Path {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func (p PathEntry) withMatch(varID int) PathEntry {
	np := p.clone()
	np.Path = append(np.Path, varID)
	return np
}

// Summary bundles an Aggregates bucket with the paths that share it.
type Summary struct {
	Aggregates Aggregates
	Paths      []PathEntry
}

func newSummary(seq int64) Summary {
	return Summary{Paths: []PathEntry{{Seq: seq}}}
}

func (s Summary) clone() Summary {
	paths := make([]PathEntry, len(s.Paths))
	for i, p := range s.Paths {
		paths[i] = p.clone()
	}
	return Summary{Aggregates: s.Aggregates, Paths: paths}
}

func (s Summary) withMatch(varID int) Summary {
	paths := make([]PathEntry, len(s.Paths))
	for i, p := range s.Paths {
		paths[i] = p.withMatch(varID)
	}
	return Summary{Aggregates: s.Aggregates, Paths: paths}
}

// mergeFrom merges other's paths into s, deduping by the exact variable-ID
// sequence and preserving each path's original seq and first-insertion order.
func (s *Summary) mergeFrom(other Summary) {
	seen := orderset.New[string]()
	for _, p := range s.Paths {
		seen.Insert(p.key())
	}
	for _, p := range other.Paths {
		if seen.Insert(p.key()) {
			s.Paths = append(s.Paths, p.clone())
		}
	}
}

// MatchState is a single live point in the simulation: a position in the
// pattern, the repetition counters at each depth, and the summaries carried
// to that position.
type MatchState struct {
	ElementIndex pattern.ElemIndex
	Counts       []int
	Summaries    []Summary
}

func newMatchState(maxDepth int, seq int64) *MatchState {
	return &MatchState{
		ElementIndex: 0,
		Counts:       make([]int, maxDepth+1),
		Summaries:    []Summary{newSummary(seq)},
	}
}

// Key identifies state equivalence: element_index plus the counts vector.
// Summaries are deliberately excluded, matching the spec's equivalence rule.
func (s *MatchState) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(s.ElementIndex)))
	for _, c := range s.Counts {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(c))
	}
	return b.String()
}

// clone produces an independent copy that preserves every path's existing
// seq — used for the lexically-preferred branch of a two-way split, or any
// forced/deterministic continuation with no real alternative.
func (s *MatchState) clone() *MatchState {
	counts := append([]int(nil), s.Counts...)
	summaries := make([]Summary, len(s.Summaries))
	for i, sm := range s.Summaries {
		summaries[i] = sm.clone()
	}
	return &MatchState{ElementIndex: s.ElementIndex, Counts: counts, Summaries: summaries}
}

// fork produces an independent copy in which every path receives a brand
// new seq — used for the lexically-deferred branch of a two-way split, a
// genuinely new lineage diverging from the source state.
func (s *MatchState) fork(ex *Executor) *MatchState {
	counts := append([]int(nil), s.Counts...)
	summaries := make([]Summary, len(s.Summaries))
	for i, sm := range s.Summaries {
		paths := make([]PathEntry, len(sm.Paths))
		for j, p := range sm.Paths {
			paths[j] = PathEntry{Seq: ex.nextSeqNum(), Path: append([]int(nil), p.Path...)}
		}
		summaries[i] = Summary{Aggregates: sm.Aggregates, Paths: paths}
	}
	return &MatchState{ElementIndex: s.ElementIndex, Counts: counts, Summaries: summaries}
}

// withMatch appends varID to every path of every summary, in place of a
// clone/fork: pushing a matched variable never changes lineage identity.
func (s *MatchState) withMatch(varID int) *MatchState {
	summaries := make([]Summary, len(s.Summaries))
	for i, sm := range s.Summaries {
		summaries[i] = sm.withMatch(varID)
	}
	return &MatchState{ElementIndex: s.ElementIndex, Counts: append([]int(nil), s.Counts...), Summaries: summaries}
}

// mergeSummaries merges other's summaries into s: summaries with equal
// Aggregates merge their paths, otherwise other's summary is deep-copied in.
func (s *MatchState) mergeSummaries(other *MatchState) {
	for _, osum := range other.Summaries {
		merged := false
		for i := range s.Summaries {
			if s.Summaries[i].Aggregates.Equal(osum.Aggregates) {
				s.Summaries[i].mergeFrom(osum)
				merged = true
				break
			}
		}
		if !merged {
			s.Summaries = append(s.Summaries, osum.clone())
		}
	}
}

// resetDeeper zeroes every counter strictly below depth, used whenever a
// GroupEnd loops back into its group (must-loop or repeat branch), so the
// levels the group contains start fresh on the next iteration.
func resetDeeper(counts []int, depth int) {
	for d := depth + 1; d < len(counts); d++ {
		counts[d] = 0
	}
}

// stateDedup is an insertion-order-preserving set of MatchStates keyed by
// Key(), merging summaries into the first-inserted state on collision —
// exactly the semantics orderset.Map.Insert's collision return value exists
// to support.
type stateDedup struct {
	m      *orderset.Map[string, *MatchState]
	merges int
}

func newStateDedup() *stateDedup {
	return &stateDedup{m: orderset.NewMap[string, *MatchState]()}
}

func (d *stateDedup) insert(s *MatchState) {
	existing, found := d.m.Insert(s.Key(), s)
	if found {
		d.merges++
		existing.mergeSummaries(s)
	}
}

func (d *stateDedup) values() []*MatchState { return d.m.Values() }

// flattenCompletedPaths collects every path carried by states that have
// reached Completed, deduped by exact path content and in first-insertion
// order.
func flattenCompletedPaths(states []*MatchState) []PathEntry {
	seen := orderset.New[string]()
	var out []PathEntry
	for _, s := range states {
		for _, sm := range s.Summaries {
			for _, p := range sm.Paths {
				if seen.Insert(p.key()) {
					out = append(out, p.clone())
				}
			}
		}
	}
	return out
}

// pathSeenSet dedups PathEntry values by exact path content, preloaded from
// an existing slice (e.g. a context's current CompletedPaths) so new
// entries can be checked against it incrementally.
type pathSeenSet struct {
	s *orderset.Set[string]
}

func newPathSeenSet(existing []PathEntry) *pathSeenSet {
	s := orderset.New[string]()
	for _, p := range existing {
		s.Insert(p.key())
	}
	return &pathSeenSet{s: s}
}

func (p *pathSeenSet) insert(e PathEntry) bool { return p.s.Insert(e.key()) }

func mergeCompletedStates(a, b []*MatchState) []*MatchState {
	d := newStateDedup()
	for _, s := range a {
		d.insert(s)
	}
	for _, s := range b {
		d.insert(s)
	}
	return d.values()
}
