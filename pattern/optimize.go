package pattern

// Optimize rewrites an AST into a canonical, smaller-or-equal form by
// applying three passes in order: Unwrap collapses redundant grouping and
// single-item sequences/alternations, DedupAlternatives removes
// structurally identical alternatives, and FuseQuantifiers collapses
// repeated identical atoms and nested fixed-multiplicity quantifiers into
// single elements. Each pass is individually idempotent, and so is their
// composition: Optimize(Optimize(n)) is structurally equal to Optimize(n).
func Optimize(n Node) Node {
	n = Unwrap(n)
	n = DedupAlternatives(n)
	n = FuseQuantifiers(n)
	return n
}

// Unwrap removes single-item Seq wrappers, single-alternative Alt wrappers,
// one-level-nested Seq/Alt flattening, and Group{1,1} wrappers (an
// unquantified group is indistinguishable from its bare content).
func Unwrap(n Node) Node {
	switch x := n.(type) {
	case *GroupNode:
		content := Unwrap(x.Content)
		if x.Min == 1 && x.Max == 1 {
			return content
		}
		x.Content = content
		return x

	case *SeqNode:
		var items []Node
		for _, it := range x.Items {
			u := Unwrap(it)
			if s, ok := u.(*SeqNode); ok {
				items = append(items, s.Items...)
			} else {
				items = append(items, u)
			}
		}
		if len(items) == 1 {
			return items[0]
		}
		return &SeqNode{Items: items}

	case *AltNode:
		var alts []Node
		for _, a := range x.Alternatives {
			u := Unwrap(a)
			if al, ok := u.(*AltNode); ok {
				alts = append(alts, al.Alternatives...)
			} else {
				alts = append(alts, u)
			}
		}
		if len(alts) == 1 {
			return alts[0]
		}
		return &AltNode{Alternatives: alts}

	default:
		return n
	}
}

// DedupAlternatives drops alternatives that are structurally equal to an
// earlier alternative within the same Alt, keeping the first occurrence
// (and hence its left-to-right lexical priority).
func DedupAlternatives(n Node) Node {
	switch x := n.(type) {
	case *AltNode:
		var kept []Node
		for _, a := range x.Alternatives {
			a = DedupAlternatives(a)
			dup := false
			for _, k := range kept {
				if Equal(k, a) {
					dup = true
					break
				}
			}
			if !dup {
				kept = append(kept, a)
			}
		}
		if len(kept) == 1 {
			return kept[0]
		}
		return &AltNode{Alternatives: kept}

	case *GroupNode:
		x.Content = DedupAlternatives(x.Content)
		return x

	case *SeqNode:
		for i, it := range x.Items {
			x.Items[i] = DedupAlternatives(it)
		}
		return x

	default:
		return n
	}
}

// FuseQuantifiers collapses runs of the identical unquantified Var within a
// Seq into a single fixed-count Var{name,k,k}, and collapses a Group whose
// content is itself a single quantified Var or Group into one quantified
// node with multiplied bounds, whenever at least one of the two bounds
// involved is fixed (min == max) — this avoids changing the semantics of
// e.g. (A{2,3}){2,3}, where neither bound alone determines the product.
func FuseQuantifiers(n Node) Node {
	switch x := n.(type) {
	case *SeqNode:
		items := make([]Node, 0, len(x.Items))
		for _, it := range x.Items {
			items = append(items, FuseQuantifiers(it))
		}
		items = fuseRuns(items)
		if len(items) == 1 {
			return items[0]
		}
		return &SeqNode{Items: items}

	case *AltNode:
		for i := range x.Alternatives {
			x.Alternatives[i] = FuseQuantifiers(x.Alternatives[i])
		}
		return x

	case *GroupNode:
		x.Content = FuseQuantifiers(x.Content)
		return fuseGroup(x)

	default:
		return n
	}
}

func fuseRuns(items []Node) []Node {
	var out []Node
	i := 0
	for i < len(items) {
		v, ok := items[i].(*VarNode)
		if ok && v.Min == 1 && v.Max == 1 {
			j := i + 1
			for j < len(items) {
				v2, ok2 := items[j].(*VarNode)
				if !ok2 || v2.Name != v.Name || v2.Min != 1 || v2.Max != 1 || v2.Reluctant != v.Reluctant {
					break
				}
				j++
			}
			if k := j - i; k > 1 {
				out = append(out, &VarNode{Name: v.Name, Min: k, Max: k, Reluctant: v.Reluctant})
			} else {
				out = append(out, v)
			}
			i = j
			continue
		}
		out = append(out, items[i])
		i++
	}
	return out
}

func fuseGroup(g *GroupNode) Node {
	fixed := func(lo, hi int) bool { return lo == hi }

	switch c := g.Content.(type) {
	case *VarNode:
		if fixed(g.Min, g.Max) || fixed(c.Min, c.Max) {
			return &VarNode{
				Name:      c.Name,
				Min:       c.Min * g.Min,
				Max:       mulBound(c.Max, g.Max),
				Reluctant: g.Reluctant,
			}
		}
	case *GroupNode:
		if fixed(g.Min, g.Max) || fixed(c.Min, c.Max) {
			return &GroupNode{
				Content:   c.Content,
				Min:       c.Min * g.Min,
				Max:       mulBound(c.Max, g.Max),
				Reluctant: g.Reluctant,
			}
		}
	}
	return g
}

func mulBound(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a * b
}
