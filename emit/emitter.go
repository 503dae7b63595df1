package emit

import (
	"math"
	"sort"

	"github.com/rprcore/rpr/exec"
)

// Emission is one reported match: the context that produced it, its row
// span, and the path(s) selected by OutputMode, each mapped to variable
// names.
type Emission struct {
	ContextID  int64
	MatchStart int
	MatchEnd   int
	Paths      [][]string
}

// Emitter applies the SKIP/OUTPUT policies to a stream of completed
// contexts (§4.4).
type Emitter struct {
	cfg            Config
	queue          []exec.ContextView
	lastEmittedEnd int
}

// NewEmitter creates an Emitter under cfg.
func NewEmitter(cfg Config) *Emitter {
	return &Emitter{cfg: cfg, lastEmittedEnd: -1}
}

// ProcessRow runs the per-row emission step: it decides, for every context
// that just completed, whether to emit immediately or enqueue, then drains
// as much of the queue as the SKIP policy allows. It returns the emissions
// produced this call and the ids of contexts (emitted or discarded) the
// caller should remove from the executor.
func (e *Emitter) ProcessRow(allContexts []exec.ContextView, justCompletedIDs []int64, varNames []string) (emissions []Emission, removeIDs []int64) {
	byID := make(map[int64]exec.ContextView, len(allContexts))
	for _, c := range allContexts {
		byID[c.ID] = c
	}

	earliestStart := math.MaxInt
	for _, c := range allContexts {
		if c.MatchStart < earliestStart {
			earliestStart = c.MatchStart
		}
	}
	for _, c := range e.queue {
		if c.MatchStart < earliestStart {
			earliestStart = c.MatchStart
		}
	}
	hasActiveAtEarliest := false
	for _, c := range allContexts {
		if !c.IsCompleted && c.MatchStart == earliestStart {
			hasActiveAtEarliest = true
			break
		}
	}

	for _, id := range justCompletedIDs {
		ctx, ok := byID[id]
		if !ok {
			continue
		}
		if ctx.MatchStart == earliestStart && !hasActiveAtEarliest {
			if e.cfg.SkipMode == SkipPastLast && ctx.MatchStart <= e.lastEmittedEnd {
				removeIDs = append(removeIDs, ctx.ID)
				continue
			}
			emissions = append(emissions, e.buildEmission(ctx, varNames))
			e.lastEmittedEnd = ctx.MatchEnd
			removeIDs = append(removeIDs, ctx.ID)
			continue
		}
		e.enqueue(ctx)
	}

	activeCtxStart := math.MaxInt
	for _, c := range allContexts {
		if !c.IsCompleted && c.MatchStart < activeCtxStart {
			activeCtxStart = c.MatchStart
		}
	}

	for len(e.queue) > 0 {
		entry := e.queue[0]
		if entry.MatchStart >= activeCtxStart {
			break
		}
		if e.cfg.SkipMode == SkipPastLast && entry.MatchStart <= e.lastEmittedEnd {
			e.queue = e.queue[1:]
			removeIDs = append(removeIDs, entry.ID)
			continue
		}
		if e.cfg.SkipMode == SkipToNext && entry.MatchEnd >= activeCtxStart {
			break
		}
		emissions = append(emissions, e.buildEmission(entry, varNames))
		e.lastEmittedEnd = entry.MatchEnd
		e.queue = e.queue[1:]
		removeIDs = append(removeIDs, entry.ID)
	}

	return emissions, removeIDs
}

// QueuedIDs returns the context ids currently waiting in the emission
// queue, for diagnostics consumers.
func (e *Emitter) QueuedIDs() []int64 {
	ids := make([]int64, len(e.queue))
	for i, c := range e.queue {
		ids[i] = c.ID
	}
	return ids
}

func (e *Emitter) enqueue(ctx exec.ContextView) {
	e.queue = append(e.queue, ctx)
	sort.SliceStable(e.queue, func(i, j int) bool { return e.queue[i].MatchStart < e.queue[j].MatchStart })
}

func (e *Emitter) buildEmission(ctx exec.ContextView, varNames []string) Emission {
	paths := append([]exec.PathEntry(nil), ctx.CompletedPaths...)
	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Seq < paths[j].Seq })
	if e.cfg.OutputMode == OutputOneRow && len(paths) > 1 {
		paths = paths[:1]
	}

	named := make([][]string, len(paths))
	for i, p := range paths {
		row := make([]string, len(p.Path))
		for j, varID := range p.Path {
			if varID >= 0 && varID < len(varNames) {
				row[j] = varNames[varID]
			}
		}
		named[i] = row
	}

	return Emission{
		ContextID:  ctx.ID,
		MatchStart: ctx.MatchStart,
		MatchEnd:   ctx.MatchEnd,
		Paths:      named,
	}
}
