package pattern

import (
	"fmt"
	"strings"
)

// Node is a pattern AST node: VarNode, GroupNode, SeqNode or AltNode.
type Node interface {
	isNode()
	String() string
}

// VarNode references a single row-pattern variable, optionally quantified.
type VarNode struct {
	Name      string
	Min, Max  int
	Reluctant bool
}

func (*VarNode) isNode() {}

func (v *VarNode) String() string {
	return v.Name + quantString(v.Min, v.Max, v.Reluctant)
}

// GroupNode is a parenthesized sub-pattern, optionally quantified.
type GroupNode struct {
	Content   Node
	Min, Max  int
	Reluctant bool
}

func (*GroupNode) isNode() {}

func (g *GroupNode) String() string {
	return "(" + g.Content.String() + ")" + quantString(g.Min, g.Max, g.Reluctant)
}

// SeqNode is a sequence of concatenated atoms.
type SeqNode struct {
	Items []Node
}

func (*SeqNode) isNode() {}

func (s *SeqNode) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

// AltNode is an alternation between two or more arms.
type AltNode struct {
	Alternatives []Node
}

func (*AltNode) isNode() {}

func (a *AltNode) String() string {
	parts := make([]string, len(a.Alternatives))
	for i, alt := range a.Alternatives {
		parts[i] = alt.String()
	}
	return strings.Join(parts, "|")
}

func quantString(min, max int, reluctant bool) string {
	var q string
	switch {
	case min == 1 && max == 1:
		return ""
	case min == 0 && max == 1:
		q = "?"
	case min == 0 && max == Unbounded:
		q = "*"
	case min == 1 && max == Unbounded:
		q = "+"
	case max == Unbounded:
		q = fmt.Sprintf("{%d,}", min)
	case min == max:
		q = fmt.Sprintf("{%d}", min)
	case min == 0:
		q = fmt.Sprintf("{,%d}", max)
	default:
		q = fmt.Sprintf("{%d,%d}", min, max)
	}
	if reluctant {
		q += "?"
	}
	return q
}

// Equal reports whether a and b are structurally identical ASTs.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *VarNode:
		y, ok := b.(*VarNode)
		return ok && x.Name == y.Name && x.Min == y.Min && x.Max == y.Max && x.Reluctant == y.Reluctant
	case *GroupNode:
		y, ok := b.(*GroupNode)
		return ok && x.Min == y.Min && x.Max == y.Max && x.Reluctant == y.Reluctant && Equal(x.Content, y.Content)
	case *SeqNode:
		y, ok := b.(*SeqNode)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *AltNode:
		y, ok := b.(*AltNode)
		if !ok || len(x.Alternatives) != len(y.Alternatives) {
			return false
		}
		for i := range x.Alternatives {
			if !Equal(x.Alternatives[i], y.Alternatives[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
