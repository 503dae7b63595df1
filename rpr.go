// Package rpr is the top-level facade over the row pattern recognition
// engine: compile a pattern string once, then feed it a row stream and
// collect emissions, the way meta.Engine wraps the teacher's nfa/pikevm
// compile-then-run split behind a single entry point.
package rpr

import (
	"github.com/rprcore/rpr/diagnostics"
	"github.com/rprcore/rpr/emit"
	"github.com/rprcore/rpr/exec"
	"github.com/rprcore/rpr/pattern"
)

// Compile parses and flattens a pattern string into a reusable Pattern.
func Compile(src string, opts ...pattern.CompileOption) (*pattern.Pattern, error) {
	return pattern.Compile(src, opts...)
}

// Matcher pairs an Executor with an Emitter against one compiled Pattern,
// the single-threaded, fully-synchronous unit a driver feeds one row at a
// time (§5).
type Matcher struct {
	pattern *pattern.Pattern
	ex      *exec.Executor
	em      *emit.Emitter
}

// NewMatcher builds a Matcher for p under cfg.
func NewMatcher(p *pattern.Pattern, cfg emit.Config) *Matcher {
	return &Matcher{
		pattern: p,
		ex:      exec.NewExecutor(p),
		em:      emit.NewEmitter(cfg),
	}
}

// ProcessRow feeds one row's true-variable-name set through the executor
// and emitter, returning any emissions produced and a diagnostic snapshot.
func (m *Matcher) ProcessRow(rowIndex int, trueVarNames map[string]bool) ([]emit.Emission, diagnostics.Snapshot, error) {
	result, err := m.ex.ProcessRow(rowIndex, trueVarNames)
	if err != nil {
		return nil, diagnostics.Snapshot{}, err
	}

	emissions, removeIDs := m.em.ProcessRow(result.Views, result.JustCompletedIDs, m.pattern.Variables())
	m.ex.Remove(removeIDs)

	snap := m.buildSnapshot(rowIndex, trueVarNames, result, emissions, removeIDs)
	return emissions, snap, nil
}

func (m *Matcher) buildSnapshot(rowIndex int, trueVarNames map[string]bool, result *exec.RowResult, emissions []emit.Emission, removeIDs []int64) diagnostics.Snapshot {
	input := make([]string, 0, len(trueVarNames))
	for name, ok := range trueVarNames {
		if ok {
			input = append(input, name)
		}
	}

	contexts := make([]diagnostics.ContextSnapshot, 0, len(result.Views))
	for _, v := range result.Views {
		contexts = append(contexts, diagnostics.ContextSnapshot{
			ID:             v.ID,
			MatchStart:     v.MatchStart,
			MatchEnd:       v.MatchEnd,
			IsCompleted:    v.IsCompleted,
			LiveStateCount: v.LiveStateCount,
			CompletedCount: len(v.CompletedPaths),
		})
	}

	absorptions := make([]diagnostics.Absorption, 0, len(m.ex.LastAbsorptions()))
	for _, a := range m.ex.LastAbsorptions() {
		absorptions = append(absorptions, diagnostics.Absorption{EarlierID: a.EarlierID, LaterID: a.LaterID})
	}

	stats := m.ex.Stats()

	return diagnostics.Snapshot{
		Row:             rowIndex,
		Input:           input,
		Contexts:        contexts,
		Absorptions:     absorptions,
		StateMerges:     stats.StateMerges,
		DiscardedStates: stats.DiscardedStates,
		DeadStates:      stats.DeadStates,
		Emitted:         emissions,
		Queued:          m.em.QueuedIDs(),
		Discarded:       removeIDs,
	}
}

// Pattern returns the compiled Pattern this Matcher runs.
func (m *Matcher) Pattern() *pattern.Pattern { return m.pattern }
