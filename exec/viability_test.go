package exec

import "testing"

func TestCanStartConsume_Var(t *testing.T) {
	p := compileFor(t, "A B")
	ex := NewExecutor(p)
	s := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	s.ElementIndex = 0

	a := varID(t, p, "A")
	b := varID(t, p, "B")
	if !canStartConsume(p, s, map[int]bool{a: true}) {
		t.Error("want true: A is the current Var and trueVars has A")
	}
	if canStartConsume(p, s, map[int]bool{b: true}) {
		t.Error("want false: current Var is A, row has only B")
	}
}

func TestCanStartConsume_AltStartSearchesArmsRecursively(t *testing.T) {
	p := compileFor(t, "(A|(B|C))")
	ex := NewExecutor(p)
	s := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	s.ElementIndex = 0 // the outer AltStart

	c := varID(t, p, "C")
	if !canStartConsume(p, s, map[int]bool{c: true}) {
		t.Error("want true: C is reachable through the nested alternation")
	}
	if canStartConsume(p, s, map[int]bool{}) {
		t.Error("want false: no true vars at all")
	}
}

func TestFilterNonViable_DropsUnsatisfiableVarOnEmptyRow(t *testing.T) {
	p := compileFor(t, "A B")
	ex := NewExecutor(p)
	s := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	s.ElementIndex = 0 // A, required (min 1), count 0

	out := filterNonViable(p, []*MatchState{s}, map[int]bool{})
	if len(out) != 0 {
		t.Errorf("got %d states, want 0 (A's min not met, no matching var this row)", len(out))
	}
}

func TestFilterNonViable_KeepsVarAlreadyAtMin(t *testing.T) {
	p := compileFor(t, "A* B")
	ex := NewExecutor(p)
	s := newMatchState(p.MaxDepth(), ex.nextSeqNum())
	s.ElementIndex = 0 // A*, min 0 — already satisfied regardless of row

	out := filterNonViable(p, []*MatchState{s}, map[int]bool{})
	if len(out) != 1 {
		t.Errorf("got %d states, want 1 (A*'s min is already met)", len(out))
	}
}
