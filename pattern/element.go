package pattern

import "fmt"

// ElemIndex indexes into a Pattern's flat element array.
type ElemIndex int32

// InvalidIndex marks the absence of a next/jump/enclosing link.
const InvalidIndex ElemIndex = -1

// ElementKind tags the variant a PatternElement holds. Unlike the original
// engine's signed-integer encoding, each kind is explicit and the fields
// that apply to it are documented on PatternElement's accessors.
type ElementKind uint8

const (
	// KindVar consumes one row against a variable's predicate, bounded by
	// a repetition count tracked at Depth in MatchState.Counts.
	KindVar ElementKind = iota
	// KindAltStart begins an alternation; Next is the first arm, and each
	// arm's first element chains to the next arm via Jump (-1 terminates
	// the chain).
	KindAltStart
	// KindGroupEnd closes a quantified group: Jump loops back to the
	// group's first element, Next exits past the group.
	KindGroupEnd
	// KindFin is the single sentinel element terminating every Pattern.
	KindFin
)

func (k ElementKind) String() string {
	switch k {
	case KindVar:
		return "Var"
	case KindAltStart:
		return "AltStart"
	case KindGroupEnd:
		return "GroupEnd"
	case KindFin:
		return "Fin"
	default:
		return "Unknown"
	}
}

// PatternElement is one node of a flattened Pattern. Field meaning depends
// on Kind(); see the ElementKind constants for which fields apply.
type PatternElement struct {
	kind      ElementKind
	varID     int
	depth     int
	min, max  int
	next      ElemIndex
	jump      ElemIndex
	enclosing ElemIndex // KindAltStart only: the GroupEnd of the nearest enclosing quantified group, or InvalidIndex
	reluctant bool
}

func (e *PatternElement) Kind() ElementKind { return e.kind }
func (e *PatternElement) Depth() int        { return e.depth }
func (e *PatternElement) Min() int          { return e.min }
func (e *PatternElement) Max() int          { return e.max }
func (e *PatternElement) Next() ElemIndex   { return e.next }
func (e *PatternElement) Jump() ElemIndex   { return e.jump }
func (e *PatternElement) Reluctant() bool   { return e.reluctant }

// VarID returns the variable id for a KindVar element. ok is false for any
// other kind.
func (e *PatternElement) VarID() (id int, ok bool) {
	if e.kind != KindVar {
		return 0, false
	}
	return e.varID, true
}

// EnclosingGroupEnd returns the GroupEnd index of the nearest enclosing
// quantified group for a KindAltStart element, or InvalidIndex if the
// alternation is not nested inside one. Meaningless for other kinds.
func (e *PatternElement) EnclosingGroupEnd() ElemIndex {
	return e.enclosing
}

func (e *PatternElement) String() string {
	switch e.kind {
	case KindVar:
		return fmt.Sprintf("Var(id=%d, depth=%d, min=%d, max=%d, next=%d, reluctant=%v)",
			e.varID, e.depth, e.min, e.max, e.next, e.reluctant)
	case KindAltStart:
		return fmt.Sprintf("AltStart(depth=%d, next=%d, enclosing=%d)", e.depth, e.next, e.enclosing)
	case KindGroupEnd:
		return fmt.Sprintf("GroupEnd(depth=%d, min=%d, max=%d, next=%d, jump=%d, reluctant=%v)",
			e.depth, e.min, e.max, e.next, e.jump, e.reluctant)
	case KindFin:
		return "Fin"
	default:
		return "Unknown"
	}
}
