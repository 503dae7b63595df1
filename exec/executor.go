package exec

import (
	"sort"

	"github.com/rprcore/rpr/pattern"
)

// Stats are cumulative observability counters, the same ambient idiom as
// meta.Engine.Stats() in place of a structured-logging dependency: this
// package, like its teacher, logs nothing and counts everything instead.
type Stats struct {
	DeadStates      int
	DiscardedStates int
	Absorptions     int
	GreedyDeferrals int
	StateMerges     int
}

// RowResult is returned by ProcessRow: the contexts that just completed on
// this row (for the emitter to consider immediately) and a full views
// snapshot of every context still tracked.
type RowResult struct {
	Row              int
	JustCompletedIDs []int64
	Views            []ContextView
}

// Executor runs the row-driven NFA simulation for one compiled Pattern.
// One instance owns its own seq/context-id counters and context set; there
// is no shared state across instances (§5).
type Executor struct {
	pattern *pattern.Pattern

	nextCtxID int64
	nextSeq   int64
	lastRow   int

	contexts        []*MatchContext
	stats           Stats
	lastAbsorptions []AbsorptionPair
}

// AbsorptionPair records that EarlierID absorbed LaterID during the most
// recent ProcessRow call (§4.3).
type AbsorptionPair struct {
	EarlierID int64
	LaterID   int64
}

// LastAbsorptions returns the absorptions recorded during the most recent
// ProcessRow call, for diagnostics consumers.
func (ex *Executor) LastAbsorptions() []AbsorptionPair { return ex.lastAbsorptions }

// NewExecutor creates an Executor for p, with freshly zeroed counters.
func NewExecutor(p *pattern.Pattern) *Executor {
	return &Executor{pattern: p, lastRow: -1}
}

func (ex *Executor) nextSeqNum() int64 {
	s := ex.nextSeq
	ex.nextSeq++
	return s
}

func (ex *Executor) nextContextID() int64 {
	id := ex.nextCtxID
	ex.nextCtxID++
	return id
}

// stepContext runs one consumption+expansion cycle for an existing context
// (§4.2.6 "per-context step").
func (ex *Executor) stepContext(ctx *MatchContext, trueVars map[int]bool, hasAnyVar bool) {
	active, completedFromConsume, dead := ex.consume(ctx.States, trueVars)
	ex.stats.DeadStates += dead

	waitStates, completedFromExpand := ex.expand(active)
	completedStates := mergeCompletedStates(completedFromConsume, completedFromExpand)

	if !hasAnyVar {
		before := len(waitStates)
		waitStates = filterNonViable(ex.pattern, waitStates, trueVars)
		ex.stats.DiscardedStates += before - len(waitStates)
	}
	ctx.States = waitStates

	stepPaths := flattenCompletedPaths(completedStates)
	canProgress := ex.liveStatesCanProgress(waitStates, trueVars)
	ex.applyGreedyDeferral(ctx, stepPaths, canProgress, hasAnyVar)
	ex.updateMatchEnd(ctx)

	if len(ctx.States) == 0 {
		if len(ctx.CompletedPaths) > 0 {
			ctx.IsCompleted = true
		} else {
			ctx.dead = true
		}
	}
}

func (ex *Executor) liveStatesCanProgress(states []*MatchState, trueVars map[int]bool) bool {
	for _, s := range states {
		if canStartConsume(ex.pattern, s, trueVars) {
			return true
		}
	}
	return false
}

// applyGreedyDeferral implements §4.2.8: rank, defer, and finalize completed
// paths so that a stream-driven simulation realizes longest-match semantics.
func (ex *Executor) applyGreedyDeferral(ctx *MatchContext, stepPaths []PathEntry, canProgress, hasAnyVar bool) {
	if ex.pattern.Reluctant() {
		if len(stepPaths) > 0 {
			ex.appendCompletedPaths(ctx, stepPaths)
		}
		return
	}

	shouldDefer := len(stepPaths) > 0 && len(ctx.States) > 0 && canProgress && hasAnyVar
	if shouldDefer {
		best := rankBestPath(stepPaths)
		if ctx.GreedyFallback == nil || len(best.Path) > len(ctx.GreedyFallback.Path) {
			cp := best.clone()
			ctx.GreedyFallback = &cp
		}
		ex.stats.GreedyDeferrals += len(stepPaths)
		return
	}

	// Finalize: live states cannot progress (or there are none), so flush
	// any deferred greedy_fallback before appending this row's completions
	// — even when stepPaths is empty, a context with nowhere left to go
	// must still surface its best deferred match (spec.md §4.2.8).
	if ctx.GreedyFallback != nil {
		ex.appendCompletedPaths(ctx, []PathEntry{*ctx.GreedyFallback})
		ctx.GreedyFallback = nil
	}
	if len(stepPaths) > 0 {
		ex.appendCompletedPaths(ctx, stepPaths)
	}
}

func rankBestPath(paths []PathEntry) PathEntry {
	best := paths[0]
	for _, p := range paths[1:] {
		if len(p.Path) > len(best.Path) || (len(p.Path) == len(best.Path) && p.Seq < best.Seq) {
			best = p
		}
	}
	return best
}

func (ex *Executor) appendCompletedPaths(ctx *MatchContext, paths []PathEntry) {
	seen := newPathSeenSet(ctx.CompletedPaths)
	for _, p := range paths {
		if seen.insert(p) {
			ctx.CompletedPaths = append(ctx.CompletedPaths, p.clone())
		}
	}
}

func (ex *Executor) updateMatchEnd(ctx *MatchContext) {
	maxLen := 0
	for _, p := range ctx.CompletedPaths {
		if len(p.Path) > maxLen {
			maxLen = len(p.Path)
		}
	}
	if maxLen > 0 {
		ctx.MatchEnd = ctx.MatchStart + maxLen - 1
	}
}

// tryStartContext admits a new context at row if some wait state built from
// a fresh entry point can genuinely consume the row's trueVars (§4.2.6 step
// 1, §4.2.7).
func (ex *Executor) tryStartContext(row int, trueVars map[int]bool) *MatchContext {
	init := newMatchState(ex.pattern.MaxDepth(), ex.nextSeqNum())
	wait, _ := ex.expand([]*MatchState{init})

	viable := make([]*MatchState, 0, len(wait))
	for _, s := range wait {
		if canStartConsume(ex.pattern, s, trueVars) {
			viable = append(viable, s)
		}
	}
	if len(viable) == 0 {
		return nil
	}

	ctx := &MatchContext{
		ID:         ex.nextContextID(),
		MatchStart: row,
		MatchEnd:   -1,
		States:     viable,
	}
	ex.stepContext(ctx, trueVars, len(trueVars) > 0)
	return ctx
}

// absorbContexts implements §4.3: an earlier context whose states dominate
// a later one's removes the later context entirely.
func (ex *Executor) absorbContexts() {
	ex.lastAbsorptions = ex.lastAbsorptions[:0]
	live := make([]*MatchContext, 0, len(ex.contexts))
	for _, c := range ex.contexts {
		if !c.dead && !c.IsCompleted {
			live = append(live, c)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].MatchStart < live[j].MatchStart })

	absorbed := make(map[int64]bool, len(live))
	for i := 0; i < len(live); i++ {
		earlier := live[i]
		if absorbed[earlier.ID] {
			continue
		}
		for j := i + 1; j < len(live); j++ {
			later := live[j]
			if absorbed[later.ID] || later.MatchStart <= earlier.MatchStart {
				continue
			}
			if ex.dominates(earlier, later) {
				later.dead = true
				absorbed[later.ID] = true
				ex.stats.Absorptions++
				ex.lastAbsorptions = append(ex.lastAbsorptions, AbsorptionPair{EarlierID: earlier.ID, LaterID: later.ID})
			}
		}
	}
}

func (ex *Executor) dominates(earlier, later *MatchContext) bool {
	for _, ls := range later.States {
		found := false
		for _, es := range earlier.States {
			if es.ElementIndex == ls.ElementIndex && ex.stateDominates(es, ls) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (ex *Executor) stateDominates(es, ls *MatchState) bool {
	el := ex.pattern.Element(es.ElementIndex)
	unbounded := el.Max() < 0
	n := len(es.Counts)
	if len(ls.Counts) < n {
		n = len(ls.Counts)
	}
	for d := 0; d < n; d++ {
		if unbounded {
			if es.Counts[d] < ls.Counts[d] {
				return false
			}
		} else if es.Counts[d] != ls.Counts[d] {
			return false
		}
	}
	return true
}

// ProcessRow is the top-level per-row entry point (§4.2.6, §5): it
// progresses every live context, attempts to start a new one, runs context
// absorption, and returns a views snapshot plus the ids of contexts that
// completed on this row for the emitter to consider.
func (ex *Executor) ProcessRow(rowIndex int, trueVarNames map[string]bool) (*RowResult, error) {
	if rowIndex <= ex.lastRow {
		return nil, &OutOfOrderRowError{Got: rowIndex, LastSeen: ex.lastRow}
	}
	ex.lastRow = rowIndex

	trueVars := make(map[int]bool, len(trueVarNames))
	for name, v := range trueVarNames {
		if !v {
			continue
		}
		if id, ok := ex.pattern.VarID(name); ok {
			trueVars[id] = true
		}
	}
	hasAnyVar := len(trueVars) > 0

	var justCompleted []int64
	for _, ctx := range ex.contexts {
		if ctx.dead || ctx.IsCompleted || ctx.MatchStart >= rowIndex {
			continue
		}
		ex.stepContext(ctx, trueVars, hasAnyVar)
		if ctx.IsCompleted {
			justCompleted = append(justCompleted, ctx.ID)
		}
	}

	if nc := ex.tryStartContext(rowIndex, trueVars); nc != nil {
		ex.contexts = append(ex.contexts, nc)
		if nc.IsCompleted {
			justCompleted = append(justCompleted, nc.ID)
		}
	}

	ex.absorbContexts()

	kept := ex.contexts[:0]
	for _, c := range ex.contexts {
		if !c.dead {
			kept = append(kept, c)
		}
	}
	ex.contexts = kept

	return &RowResult{
		Row:              rowIndex,
		JustCompletedIDs: justCompleted,
		Views:            ex.Views(),
	}, nil
}

// Views returns a read-only snapshot of every context the executor is
// still tracking.
func (ex *Executor) Views() []ContextView {
	views := make([]ContextView, 0, len(ex.contexts))
	for _, c := range ex.contexts {
		views = append(views, newContextView(c))
	}
	return views
}

// Remove drops the named contexts — called by the emitter once it has
// consumed (emitted or discarded) them.
func (ex *Executor) Remove(ids []int64) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := ex.contexts[:0]
	for _, c := range ex.contexts {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	ex.contexts = kept
}

// Stats returns the cumulative observability counters.
func (ex *Executor) Stats() Stats { return ex.stats }

// ResetStats zeroes the observability counters without touching simulation
// state, mirroring meta.Engine.ResetStats().
func (ex *Executor) ResetStats() { ex.stats = Stats{} }
