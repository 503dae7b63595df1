package pattern

import (
	"strconv"
	"strings"
)

// Pattern is a compiled row pattern: a flat array of PatternElement values
// with next/jump links, terminated by a single KindFin sentinel.
type Pattern struct {
	elements  []PatternElement
	variables []string
	varIndex  map[string]int
	maxDepth  int
	reluctant bool
}

// Elements returns the flattened element array. Index 0 is always the
// pattern's entry point.
func (p *Pattern) Elements() []PatternElement { return p.elements }

// Element returns a pointer to the element at i. Panics if i is out of range.
func (p *Pattern) Element(i ElemIndex) *PatternElement { return &p.elements[i] }

// Len returns the number of elements, including the trailing Fin.
func (p *Pattern) Len() int { return len(p.elements) }

// Variables returns the pattern's variable names in first-occurrence order;
// VarID values index into this slice.
func (p *Pattern) Variables() []string { return p.variables }

// VarID looks up a variable's id by name.
func (p *Pattern) VarID(name string) (int, bool) {
	id, ok := p.varIndex[name]
	return id, ok
}

// VarName returns the variable name for an id previously returned by VarID
// or PatternElement.VarID.
func (p *Pattern) VarName(id int) string { return p.variables[id] }

// MaxDepth is the deepest nesting level any element occupies; a MatchState
// for this Pattern needs MaxDepth()+1 counter slots.
func (p *Pattern) MaxDepth() int { return p.maxDepth }

// Reluctant reports whether any element in the pattern is marked reluctant.
// A pattern with no reluctant elements anywhere always prefers the longest
// match (see the greedy deferral rule in the executor).
func (p *Pattern) Reluctant() bool { return p.reluctant }

// FinIndex returns the index of the trailing KindFin sentinel.
func (p *Pattern) FinIndex() ElemIndex { return ElemIndex(len(p.elements) - 1) }

// Validate checks the structural invariants of a flattened Pattern: a
// single, final Fin; every in-range next/jump link; well-formed GroupEnd
// bounds; and alternation jump chains that terminate.
func (p *Pattern) Validate() error {
	n := len(p.elements)
	if n == 0 {
		return &InvariantError{Message: "pattern has no elements", Index: InvalidIndex}
	}
	if p.elements[n-1].Kind() != KindFin {
		return &InvariantError{Message: "last element is not Fin", Index: ElemIndex(n - 1)}
	}
	for i := 0; i < n-1; i++ {
		if p.elements[i].Kind() == KindFin {
			return &InvariantError{Message: "Fin is not the last element", Index: ElemIndex(i)}
		}
	}

	inRange := func(idx ElemIndex) bool { return idx >= 0 && int(idx) < n }

	for i := range p.elements {
		el := &p.elements[i]
		switch el.Kind() {
		case KindFin:
			if el.next != InvalidIndex {
				return &InvariantError{Message: "Fin.next must be unset", Index: ElemIndex(i)}
			}
		case KindVar:
			if !inRange(el.next) {
				return &InvariantError{Message: "next out of range", Index: ElemIndex(i)}
			}
			if el.min < 0 || el.max < el.min && el.max != Unbounded {
				return &InvariantError{Message: "invalid min/max", Index: ElemIndex(i)}
			}
		case KindAltStart:
			if !inRange(el.next) {
				return &InvariantError{Message: "next out of range", Index: ElemIndex(i)}
			}
			if el.enclosing != InvalidIndex && !inRange(el.enclosing) {
				return &InvariantError{Message: "enclosing GroupEnd out of range", Index: ElemIndex(i)}
			}
		case KindGroupEnd:
			if !inRange(el.next) || !inRange(el.jump) {
				return &InvariantError{Message: "next/jump out of range", Index: ElemIndex(i)}
			}
			if el.min < 0 || (el.max != Unbounded && el.max < 1) {
				return &InvariantError{Message: "invalid group min/max", Index: ElemIndex(i)}
			}
			if el.max != Unbounded && el.min > el.max {
				return &InvariantError{Message: "group min exceeds max", Index: ElemIndex(i)}
			}
		}
	}

	// Every alternation arm's first-element jump chain must terminate.
	for i := range p.elements {
		if p.elements[i].Kind() != KindAltStart {
			continue
		}
		cur := p.elements[i].next
		steps := 0
		for cur != InvalidIndex {
			steps++
			if steps > n {
				return &InvariantError{Message: "alternation jump chain does not terminate", Index: ElemIndex(i)}
			}
			cur = p.elements[cur].jump
		}
	}

	return nil
}

func (p *Pattern) String() string {
	var b strings.Builder
	for i, el := range p.elements {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("] ")
		b.WriteString(el.String())
		b.WriteByte('\n')
	}
	return b.String()
}
