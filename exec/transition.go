package exec

import "github.com/rprcore/rpr/pattern"

// transition is the single recursive element-level transition function
// (§4.2.1). It is invoked both as the top-level per-row consumption step
// (on states positioned at Var/AltStart) and, recursively, by the chained
// "mismatch then immediately retry" and "group-exit then immediately retry"
// skip paths — the only places a transition started with a real row still
// in hand can legitimately walk through an epsilon element (GroupEnd, Fin)
// mid-step.
func (ex *Executor) transition(s *MatchState, trueVars map[int]bool) []*MatchState {
	el := ex.pattern.Element(s.ElementIndex)
	switch el.Kind() {
	case pattern.KindVar:
		return ex.transitionVar(el, s, trueVars)
	case pattern.KindAltStart:
		return ex.transitionAltStart(el, s, trueVars)
	case pattern.KindGroupEnd:
		return ex.transitionGroupEnd(el, s, trueVars)
	case pattern.KindFin:
		ns := s.clone()
		ns.ElementIndex = Completed
		return []*MatchState{ns}
	default:
		return nil
	}
}

func (ex *Executor) transitionVar(el *pattern.PatternElement, s *MatchState, trueVars map[int]bool) []*MatchState {
	varID, _ := el.VarID()
	depth := el.Depth()
	c := s.Counts[depth]

	if !trueVars[varID] {
		if c >= el.Min() {
			ns := s.clone()
			ns.Counts[depth] = 0
			ns.ElementIndex = el.Next()
			return ex.transition(ns, trueVars)
		}
		return nil
	}

	matched := s.withMatch(varID)
	cPrime := c + 1

	stay := func(ns *MatchState) *MatchState {
		ns.Counts[depth] = cPrime
		return ns
	}
	advance := func(ns *MatchState) *MatchState {
		ns.ElementIndex = el.Next()
		ns.Counts[depth] = 0
		return ns
	}

	switch {
	case el.Max() != pattern.Unbounded && cPrime >= el.Max():
		return []*MatchState{advance(matched.clone())}
	case cPrime >= el.Min() && el.Reluctant():
		return []*MatchState{advance(matched.clone()), stay(matched.fork(ex))}
	case cPrime >= el.Min():
		return []*MatchState{stay(matched.clone()), advance(matched.fork(ex))}
	default:
		return []*MatchState{stay(matched.clone())}
	}
}

func (ex *Executor) transitionAltStart(el *pattern.PatternElement, s *MatchState, trueVars map[int]bool) []*MatchState {
	var results []*MatchState
	armIdx := el.Next()
	first := true
	for armIdx != pattern.InvalidIndex {
		var armState *MatchState
		if first {
			armState = s.clone()
		} else {
			armState = s.fork(ex)
		}
		armState.ElementIndex = armIdx
		results = append(results, ex.transition(armState, trueVars)...)
		armIdx = ex.pattern.Element(armIdx).Jump()
		first = false
	}
	if len(results) > 0 {
		return results
	}

	enclosing := el.EnclosingGroupEnd()
	if enclosing == pattern.InvalidIndex {
		return nil
	}
	ge := ex.pattern.Element(enclosing)
	depth := ge.Depth()
	if s.Counts[depth] < ge.Min() {
		return nil
	}
	ns := s.clone()
	ns.Counts[depth] = 0
	ns.ElementIndex = ge.Next()
	return ex.transition(ns, trueVars)
}

func (ex *Executor) transitionGroupEnd(el *pattern.PatternElement, s *MatchState, trueVars map[int]bool) []*MatchState {
	depth := el.Depth()
	c := s.Counts[depth]
	cPrime := c + 1

	switch {
	case cPrime < el.Min():
		ns := s.clone()
		ns.ElementIndex = el.Jump()
		ns.Counts[depth] = cPrime
		resetDeeper(ns.Counts, depth)
		return ex.transition(ns, trueVars)

	case el.Max() != pattern.Unbounded && cPrime >= el.Max():
		ns := s.clone()
		ns.ElementIndex = el.Next()
		ns.Counts[depth] = 0
		return ex.transition(ns, trueVars)

	case el.Reluctant():
		exitS := s.clone()
		exitS.ElementIndex = el.Next()
		exitS.Counts[depth] = 0
		repeatS := s.fork(ex)
		repeatS.ElementIndex = el.Jump()
		repeatS.Counts[depth] = cPrime
		resetDeeper(repeatS.Counts, depth)
		r1 := ex.transition(exitS, trueVars)
		r2 := ex.transition(repeatS, trueVars)
		return append(r1, r2...)

	default:
		repeatS := s.clone()
		repeatS.ElementIndex = el.Jump()
		repeatS.Counts[depth] = cPrime
		resetDeeper(repeatS.Counts, depth)
		exitS := s.fork(ex)
		exitS.ElementIndex = el.Next()
		exitS.Counts[depth] = 0
		r1 := ex.transition(repeatS, trueVars)
		r2 := ex.transition(exitS, trueVars)
		return append(r1, r2...)
	}
}

// consume runs the per-row consumption step (§4.2.2) over a set of wait
// states, partitioning results into active/completed and deduping within
// each partition by state equivalence.
func (ex *Executor) consume(states []*MatchState, trueVars map[int]bool) (active, completed []*MatchState, dead int) {
	activeDedup := newStateDedup()
	completedDedup := newStateDedup()
	for _, s := range states {
		results := ex.transition(s, trueVars)
		if len(results) == 0 {
			dead++
			continue
		}
		for _, r := range results {
			if r.ElementIndex == Completed {
				completedDedup.insert(r)
			} else {
				activeDedup.insert(r)
			}
		}
	}
	ex.stats.StateMerges += activeDedup.merges + completedDedup.merges
	return activeDedup.values(), completedDedup.values(), dead
}

// expand resolves a set of active (post-consumption) states through the
// epsilon elements (GroupEnd, Fin) to the next wait frontier (§4.2.3), using
// an explicit FIFO queue so that the deterministic clone-then-fork ordering
// at every branch point is preserved in the output order.
func (ex *Executor) expand(active []*MatchState) (wait, completed []*MatchState) {
	waitDedup := newStateDedup()
	completedDedup := newStateDedup()

	queue := append([]*MatchState(nil), active...)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		el := ex.pattern.Element(s.ElementIndex)

		switch el.Kind() {
		case pattern.KindFin:
			ns := s.clone()
			ns.ElementIndex = Completed
			completedDedup.insert(ns)

		case pattern.KindVar:
			waitDedup.insert(s)
			depth := el.Depth()
			if s.Counts[depth] >= el.Min() {
				skip := s.fork(ex)
				skip.Counts[depth] = 0
				skip.ElementIndex = el.Next()
				queue = append(queue, skip)
			}

		case pattern.KindAltStart:
			waitDedup.insert(s)
			if enclosing := el.EnclosingGroupEnd(); enclosing != pattern.InvalidIndex {
				ge := ex.pattern.Element(enclosing)
				depth := ge.Depth()
				if s.Counts[depth] >= ge.Min() {
					skip := s.fork(ex)
					skip.Counts[depth] = 0
					skip.ElementIndex = ge.Next()
					queue = append(queue, skip)
				}
			}

		case pattern.KindGroupEnd:
			depth := el.Depth()
			c := s.Counts[depth]
			cPrime := c + 1
			switch {
			case cPrime < el.Min():
				ns := s.clone()
				ns.ElementIndex = el.Jump()
				ns.Counts[depth] = cPrime
				resetDeeper(ns.Counts, depth)
				queue = append(queue, ns)
			case el.Max() != pattern.Unbounded && cPrime >= el.Max():
				ns := s.clone()
				ns.ElementIndex = el.Next()
				ns.Counts[depth] = 0
				queue = append(queue, ns)
			case el.Reluctant():
				exitS := s.clone()
				exitS.ElementIndex = el.Next()
				exitS.Counts[depth] = 0
				repeatS := s.fork(ex)
				repeatS.ElementIndex = el.Jump()
				repeatS.Counts[depth] = cPrime
				resetDeeper(repeatS.Counts, depth)
				queue = append(queue, exitS, repeatS)
			default:
				repeatS := s.clone()
				repeatS.ElementIndex = el.Jump()
				repeatS.Counts[depth] = cPrime
				resetDeeper(repeatS.Counts, depth)
				exitS := s.fork(ex)
				exitS.ElementIndex = el.Next()
				exitS.Counts[depth] = 0
				queue = append(queue, repeatS, exitS)
			}
		}
	}

	ex.stats.StateMerges += waitDedup.merges + completedDedup.merges
	return waitDedup.values(), completedDedup.values()
}
