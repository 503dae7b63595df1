package pattern

import "github.com/rprcore/rpr/internal/conv"

// Builder incrementally assembles a Pattern's flat element array, the way
// a Thompson-construction compiler emits automaton states: each AddX call
// appends one element and returns its index, and forward references
// (an alternation arm chained to one not yet compiled, a group's dangling
// exit) are resolved afterward with PatchNext/PatchJump.
type Builder struct {
	elements  []PatternElement
	variables []string
	varIndex  map[string]int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{varIndex: make(map[string]int)}
}

// InternVar returns the id for name, assigning a fresh one on first sight.
func (b *Builder) InternVar(name string) int {
	if id, ok := b.varIndex[name]; ok {
		return id
	}
	id := len(b.variables)
	b.varIndex[name] = id
	b.variables = append(b.variables, name)
	return id
}

// Len returns the number of elements appended so far.
func (b *Builder) Len() int { return len(b.elements) }

// AddVar appends a KindVar element and returns its index.
func (b *Builder) AddVar(varID, depth, min, max int, reluctant bool) ElemIndex {
	idx := ElemIndex(len(b.elements))
	b.elements = append(b.elements, PatternElement{
		kind: KindVar, varID: varID, depth: depth, min: min, max: max,
		next: InvalidIndex, jump: InvalidIndex, enclosing: InvalidIndex, reluctant: reluctant,
	})
	return idx
}

// AddAltStart appends a KindAltStart element and returns its index.
func (b *Builder) AddAltStart(depth int) ElemIndex {
	idx := ElemIndex(len(b.elements))
	b.elements = append(b.elements, PatternElement{
		kind: KindAltStart, depth: depth,
		next: InvalidIndex, jump: InvalidIndex, enclosing: InvalidIndex,
	})
	return idx
}

// AddGroupEnd appends a KindGroupEnd element with its loop-back jump
// already known, and returns its index.
func (b *Builder) AddGroupEnd(depth, min, max int, jumpTo ElemIndex, reluctant bool) ElemIndex {
	idx := ElemIndex(len(b.elements))
	b.elements = append(b.elements, PatternElement{
		kind: KindGroupEnd, depth: depth, min: min, max: max,
		next: InvalidIndex, jump: jumpTo, enclosing: InvalidIndex, reluctant: reluctant,
	})
	return idx
}

// AddFin appends the terminal KindFin sentinel and returns its index.
func (b *Builder) AddFin() ElemIndex {
	idx := ElemIndex(len(b.elements))
	b.elements = append(b.elements, PatternElement{
		kind: KindFin, next: InvalidIndex, jump: InvalidIndex, enclosing: InvalidIndex,
	})
	return idx
}

// PatchNext resolves a forward-referenced next link.
func (b *Builder) PatchNext(idx, target ElemIndex) error {
	if int(idx) < 0 || int(idx) >= len(b.elements) {
		return &InvariantError{Message: "PatchNext: index out of range", Index: idx}
	}
	if int(target) < 0 || int(target) >= len(b.elements) {
		return &InvariantError{Message: "PatchNext: target out of range", Index: idx}
	}
	b.elements[idx].next = target
	return nil
}

// PatchJump resolves a forward-referenced jump link (alternation arm
// chaining, or a group's loop-back target when not known at creation time).
func (b *Builder) PatchJump(idx, target ElemIndex) error {
	if int(idx) < 0 || int(idx) >= len(b.elements) {
		return &InvariantError{Message: "PatchJump: index out of range", Index: idx}
	}
	if int(target) < 0 || int(target) >= len(b.elements) {
		return &InvariantError{Message: "PatchJump: target out of range", Index: idx}
	}
	b.elements[idx].jump = target
	return nil
}

// SetEnclosing records the GroupEnd of the nearest enclosing quantified
// group for an AltStart element.
func (b *Builder) SetEnclosing(idx, groupEnd ElemIndex) error {
	if int(idx) < 0 || int(idx) >= len(b.elements) {
		return &InvariantError{Message: "SetEnclosing: index out of range", Index: idx}
	}
	if b.elements[idx].kind != KindAltStart {
		return &InvariantError{Message: "SetEnclosing: target is not an AltStart", Index: idx}
	}
	b.elements[idx].enclosing = groupEnd
	return nil
}

// Build finalizes the element array into a Pattern and validates its
// structural invariants.
func (b *Builder) Build() (*Pattern, error) {
	maxDepth := 0
	reluctant := false
	for _, el := range b.elements {
		if el.depth > maxDepth {
			maxDepth = el.depth
		}
		if el.reluctant {
			reluctant = true
		}
	}
	// conv.IntToInt32 panics if the element count exceeds ElemIndex's int32
	// range, so an absurdly large pattern never yields a Pattern.
	_ = conv.IntToInt32(len(b.elements))

	p := &Pattern{
		elements:  b.elements,
		variables: b.variables,
		varIndex:  b.varIndex,
		maxDepth:  maxDepth,
		reluctant: reluctant,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
