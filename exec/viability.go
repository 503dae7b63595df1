package exec

import "github.com/rprcore/rpr/pattern"

// altHasMatchingArm reports whether any arm of the alternation starting at
// altEl has, as its first element, a Var matching trueVars — searched
// recursively through nested alternations (§4.2.5, §4.2.6).
func altHasMatchingArm(p *pattern.Pattern, altEl *pattern.PatternElement, trueVars map[int]bool) bool {
	armIdx := altEl.Next()
	for armIdx != pattern.InvalidIndex {
		if armFirstMatches(p, armIdx, trueVars) {
			return true
		}
		armIdx = p.Element(armIdx).Jump()
	}
	return false
}

func armFirstMatches(p *pattern.Pattern, idx pattern.ElemIndex, trueVars map[int]bool) bool {
	el := p.Element(idx)
	switch el.Kind() {
	case pattern.KindVar:
		varID, _ := el.VarID()
		return trueVars[varID]
	case pattern.KindAltStart:
		return altHasMatchingArm(p, el, trueVars)
	default:
		return false
	}
}

// canStartConsume reports whether state s can genuinely consume the current
// row's trueVars — a real match, not a skip. Used both to pick which
// candidate wait states admit a new context (§4.2.6 step 1) and to decide
// whether a context's live states can still progress (§4.2.8).
func canStartConsume(p *pattern.Pattern, s *MatchState, trueVars map[int]bool) bool {
	el := p.Element(s.ElementIndex)
	switch el.Kind() {
	case pattern.KindVar:
		varID, _ := el.VarID()
		return trueVars[varID]
	case pattern.KindAltStart:
		return altHasMatchingArm(p, el, trueVars)
	default:
		return false
	}
}

// filterNonViable drops wait states that cannot do anything useful on a row
// with no matching pattern variable (§4.2.5): a lone epsilon-only state
// would otherwise survive forever on an empty input stream.
func filterNonViable(p *pattern.Pattern, states []*MatchState, trueVars map[int]bool) []*MatchState {
	out := make([]*MatchState, 0, len(states))
	for _, s := range states {
		if elementViable(p, s, trueVars) {
			out = append(out, s)
		}
	}
	return out
}

func elementViable(p *pattern.Pattern, s *MatchState, trueVars map[int]bool) bool {
	el := p.Element(s.ElementIndex)
	switch el.Kind() {
	case pattern.KindVar:
		varID, _ := el.VarID()
		if trueVars[varID] {
			return true
		}
		return s.Counts[el.Depth()] >= el.Min()
	case pattern.KindAltStart:
		if altHasMatchingArm(p, el, trueVars) {
			return true
		}
		enclosing := el.EnclosingGroupEnd()
		if enclosing == pattern.InvalidIndex {
			return false
		}
		ge := p.Element(enclosing)
		return s.Counts[ge.Depth()] >= ge.Min()
	default:
		return true
	}
}
