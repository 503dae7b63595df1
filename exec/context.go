package exec

// MatchContext is a set of live states that all started from the same row.
type MatchContext struct {
	ID             int64
	MatchStart     int
	MatchEnd       int
	IsCompleted    bool
	States         []*MatchState
	CompletedPaths []PathEntry
	GreedyFallback *PathEntry

	// dead marks a context with no live states and no completed paths, or
	// one absorbed by an earlier context (§4.3). Dead contexts are dropped
	// at the end of the row that kills them and never considered again.
	dead bool
}

// ContextView is a read-only snapshot of a MatchContext exposed to the
// emitter and diagnostics layers, insulated from the executor's mutable
// internals.
type ContextView struct {
	ID             int64
	MatchStart     int
	MatchEnd       int
	IsCompleted    bool
	CompletedPaths []PathEntry
	LiveStateCount int
}

func newContextView(c *MatchContext) ContextView {
	return ContextView{
		ID:             c.ID,
		MatchStart:     c.MatchStart,
		MatchEnd:       c.MatchEnd,
		IsCompleted:    c.IsCompleted,
		CompletedPaths: append([]PathEntry(nil), c.CompletedPaths...),
		LiveStateCount: len(c.States),
	}
}
