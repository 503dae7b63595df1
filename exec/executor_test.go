package exec

import "testing"

// TestApplyGreedyDeferral_FinalizesOnEmptyStepPathsWithDeadEnd is a direct
// regression test for the finalize-vs-defer bug: when a context's live
// states die on a row that produces no new completions, any previously
// deferred greedy_fallback must still flush instead of being silently
// dropped.
func TestApplyGreedyDeferral_FinalizesOnEmptyStepPathsWithDeadEnd(t *testing.T) {
	p := compileFor(t, "A|B C")
	ex := NewExecutor(p)
	ctx := &MatchContext{ID: 0, MatchStart: 0, MatchEnd: -1}

	fallback := PathEntry{Seq: 0, Path: []int{0}}
	ctx.GreedyFallback = &fallback

	// No live states left (simulating a dead-end row) and no new
	// completions this step.
	ctx.States = nil
	ex.applyGreedyDeferral(ctx, nil, false, true)

	if ctx.GreedyFallback != nil {
		t.Errorf("GreedyFallback should have been flushed, still set: %+v", ctx.GreedyFallback)
	}
	if len(ctx.CompletedPaths) != 1 {
		t.Fatalf("CompletedPaths = %d, want 1 (the flushed fallback)", len(ctx.CompletedPaths))
	}
}

func TestApplyGreedyDeferral_DefersWhenLiveStatesCanStillProgress(t *testing.T) {
	p := compileFor(t, "A+")
	ex := NewExecutor(p)
	ctx := &MatchContext{ID: 0, MatchStart: 0, MatchEnd: -1}
	ctx.States = []*MatchState{newMatchState(p.MaxDepth(), ex.nextSeqNum())}

	stepPaths := []PathEntry{{Seq: 0, Path: []int{0}}}
	ex.applyGreedyDeferral(ctx, stepPaths, true, true)

	if ctx.GreedyFallback == nil {
		t.Fatal("want GreedyFallback set (deferred, live states can still progress)")
	}
	if len(ctx.CompletedPaths) != 0 {
		t.Errorf("CompletedPaths = %d, want 0 (deferred, not yet appended)", len(ctx.CompletedPaths))
	}
}

func TestApplyGreedyDeferral_ReluctantAppendsImmediately(t *testing.T) {
	p := compileFor(t, "A+?")
	ex := NewExecutor(p)
	ctx := &MatchContext{ID: 0, MatchStart: 0, MatchEnd: -1}
	ctx.States = []*MatchState{newMatchState(p.MaxDepth(), ex.nextSeqNum())}

	stepPaths := []PathEntry{{Seq: 0, Path: []int{0}}}
	ex.applyGreedyDeferral(ctx, stepPaths, true, true)

	if len(ctx.CompletedPaths) != 1 {
		t.Fatalf("CompletedPaths = %d, want 1 (reluctant patterns never defer)", len(ctx.CompletedPaths))
	}
}

func TestTryStartContext_RejectsRowWithNoViableEntry(t *testing.T) {
	p := compileFor(t, "A B")
	ex := NewExecutor(p)
	b := varID(t, p, "B")
	if ctx := ex.tryStartContext(0, map[int]bool{b: true}); ctx != nil {
		t.Error("got a context, want nil (B alone cannot start A B)")
	}
}

func TestTryStartContext_AdmitsMatchingRow(t *testing.T) {
	p := compileFor(t, "A B")
	ex := NewExecutor(p)
	a := varID(t, p, "A")
	ctx := ex.tryStartContext(0, map[int]bool{a: true})
	if ctx == nil {
		t.Fatal("want a context admitted at A")
	}
	if ctx.MatchStart != 0 {
		t.Errorf("MatchStart = %d, want 0", ctx.MatchStart)
	}
}

func TestProcessRow_AbsorbsLaterDominatedContext(t *testing.T) {
	p := compileFor(t, "A+ B")
	ex := NewExecutor(p)

	if _, err := ex.ProcessRow(0, map[string]bool{"A": true}); err != nil {
		t.Fatalf("row 0: %v", err)
	}
	if _, err := ex.ProcessRow(1, map[string]bool{"A": true}); err != nil {
		t.Fatalf("row 1: %v", err)
	}
	if ex.stats.Absorptions == 0 {
		t.Error("want at least one absorption: the row-1 context is dominated by row-0's")
	}
	if len(ex.LastAbsorptions()) == 0 {
		t.Error("want LastAbsorptions populated after the absorbing row")
	}
}

func TestDominates_UnboundedRequiresGreaterOrEqualCounts(t *testing.T) {
	p := compileFor(t, "A+")
	ex := NewExecutor(p)
	earlier := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	earlier.ElementIndex = 0
	earlier.Counts[0] = 2
	later := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	later.ElementIndex = 0
	later.Counts[0] = 1

	ec := &MatchContext{States: []*MatchState{earlier}}
	lc := &MatchContext{States: []*MatchState{later}}
	if !ex.dominates(ec, lc) {
		t.Error("want earlier (count 2) to dominate later (count 1) on an unbounded Var")
	}
	if ex.dominates(lc, ec) {
		t.Error("want later (count 1) to NOT dominate earlier (count 2)")
	}
}

func TestDominates_BoundedRequiresExactCounts(t *testing.T) {
	p := compileFor(t, "A{1,3}")
	ex := NewExecutor(p)
	s1 := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	s1.ElementIndex = 0
	s1.Counts[0] = 2
	s2 := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	s2.ElementIndex = 0
	s2.Counts[0] = 1

	c1 := &MatchContext{States: []*MatchState{s1}}
	c2 := &MatchContext{States: []*MatchState{s2}}
	if ex.dominates(c1, c2) {
		t.Error("want no domination: bounded Var requires exact count equality, 2 != 1")
	}
}
