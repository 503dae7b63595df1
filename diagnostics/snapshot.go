// Package diagnostics assembles the per-row observability snapshot
// described for debuggers and tests. It never gates correctness: a
// production driver may discard everything this package produces.
package diagnostics

import "github.com/rprcore/rpr/emit"

// ContextSnapshot is a point-in-time view of one context for the history
// stream.
type ContextSnapshot struct {
	ID             int64
	MatchStart     int
	MatchEnd       int
	IsCompleted    bool
	LiveStateCount int
	CompletedCount int
}

// Absorption records that an earlier context absorbed a later one.
type Absorption struct {
	EarlierID int64
	LaterID   int64
}

// Snapshot is the full per-row diagnostic record.
type Snapshot struct {
	Row             int
	Input           []string
	Contexts        []ContextSnapshot
	Absorptions     []Absorption
	StateMerges     int
	DiscardedStates int
	DeadStates      int
	Emitted         []emit.Emission
	Queued          []int64
	Discarded       []int64
	Logs            []string
}
