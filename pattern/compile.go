package pattern

// CompileOption configures Compile. Modeled as a functional option, the way
// nfa.Builder.Build accepts BuildOption values, so future knobs (e.g. a
// recursion-depth limit) don't need a new Compile signature.
type CompileOption func(*compileConfig)

type compileConfig struct {
	skipOptimize bool
}

// WithoutOptimize disables the Unwrap/DedupAlternatives/FuseQuantifiers
// passes, compiling the raw parser AST as-is. Mainly useful for tests that
// want to observe pre-optimization structure.
func WithoutOptimize() CompileOption {
	return func(c *compileConfig) { c.skipOptimize = true }
}

// Compile parses, optimizes and flattens a pattern string into a Pattern.
func Compile(src string, opts ...CompileOption) (*Pattern, error) {
	cfg := &compileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ast, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if !cfg.skipOptimize {
		ast = Optimize(ast)
	}

	b := NewBuilder()
	fl := &flattener{b: b}
	root, err := fl.flatten(ast, 0)
	if err != nil {
		return nil, err
	}
	finIdx := b.AddFin()
	patchAll(b, root.outs, finIdx)

	return b.Build()
}

// frag is a compiled fragment with its entry point and the list of
// dangling next-links still awaiting their successor's index, mirroring
// the classic Thompson-construction patch list (cf. nfa.Builder's
// Patch/PatchSplit forward-reference scheme).
type frag struct {
	start ElemIndex
	outs  []ElemIndex
}

func patchAll(b *Builder, outs []ElemIndex, target ElemIndex) {
	for _, o := range outs {
		b.PatchNext(o, target)
	}
}

// pendingGroup collects the AltStart elements compiled while inside a
// group whose GroupEnd has not been emitted yet, so they can be retroactively
// told which GroupEnd encloses them once it exists.
type pendingGroup struct {
	altStarts []ElemIndex
}

// flattener walks the optimized AST and emits a flat Pattern via Builder,
// implementing the structural rules: Var -> one element; Group -> content
// at depth+1, plus a GroupEnd at the parent depth when quantified; Seq ->
// elements chained in order; Alt -> an AltStart followed by each arm,
// chained by jump pointers on the arms' first elements.
type flattener struct {
	b          *Builder
	groupStack []*pendingGroup
}

func (fl *flattener) flatten(n Node, depth int) (frag, error) {
	switch x := n.(type) {
	case *VarNode:
		vid := fl.b.InternVar(x.Name)
		idx := fl.b.AddVar(vid, depth, x.Min, x.Max, x.Reluctant)
		return frag{start: idx, outs: []ElemIndex{idx}}, nil

	case *GroupNode:
		fl.groupStack = append(fl.groupStack, &pendingGroup{})
		inner, err := fl.flatten(x.Content, depth+1)
		pg := fl.groupStack[len(fl.groupStack)-1]
		fl.groupStack = fl.groupStack[:len(fl.groupStack)-1]
		if err != nil {
			return frag{}, err
		}

		if x.Min == 1 && x.Max == 1 {
			if len(fl.groupStack) > 0 {
				parent := fl.groupStack[len(fl.groupStack)-1]
				parent.altStarts = append(parent.altStarts, pg.altStarts...)
			}
			return inner, nil
		}

		geIdx := fl.b.AddGroupEnd(depth, x.Min, x.Max, inner.start, x.Reluctant)
		patchAll(fl.b, inner.outs, geIdx)
		for _, altIdx := range pg.altStarts {
			if err := fl.b.SetEnclosing(altIdx, geIdx); err != nil {
				return frag{}, err
			}
		}
		return frag{start: inner.start, outs: []ElemIndex{geIdx}}, nil

	case *SeqNode:
		if len(x.Items) == 0 {
			return frag{}, ErrEmptyPattern
		}
		first, err := fl.flatten(x.Items[0], depth)
		if err != nil {
			return frag{}, err
		}
		outs := first.outs
		for _, it := range x.Items[1:] {
			next, err := fl.flatten(it, depth)
			if err != nil {
				return frag{}, err
			}
			patchAll(fl.b, outs, next.start)
			outs = next.outs
		}
		return frag{start: first.start, outs: outs}, nil

	case *AltNode:
		altIdx := fl.b.AddAltStart(depth)
		if len(fl.groupStack) > 0 {
			top := fl.groupStack[len(fl.groupStack)-1]
			top.altStarts = append(top.altStarts, altIdx)
		}

		var armStarts []ElemIndex
		var allOuts []ElemIndex
		for _, alt := range x.Alternatives {
			f, err := fl.flatten(alt, depth+1)
			if err != nil {
				return frag{}, err
			}
			armStarts = append(armStarts, f.start)
			allOuts = append(allOuts, f.outs...)
		}
		for i := 0; i+1 < len(armStarts); i++ {
			if err := fl.b.PatchJump(armStarts[i], armStarts[i+1]); err != nil {
				return frag{}, err
			}
		}
		if err := fl.b.PatchNext(altIdx, armStarts[0]); err != nil {
			return frag{}, err
		}
		return frag{start: altIdx, outs: allOuts}, nil

	default:
		return frag{}, &InvariantError{Message: "unknown AST node", Index: InvalidIndex}
	}
}
