package pattern

// Parse lexes and parses a pattern string into an AST, rejecting malformed
// or context-sensitive-invalid token sequences: unmatched parentheses,
// leading/trailing/doubled alternation bars, empty groups, and quantifiers
// with no preceding atom.
func Parse(src string) (Node, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	pos := 0
	node, err := parseAlt(toks, &pos)
	if err != nil {
		return nil, err
	}
	if pos != len(toks) {
		return nil, syntaxErr(toks[pos].Offset, "unmatched ')'")
	}
	return node, nil
}

func parseAlt(toks []Token, pos *int) (Node, error) {
	if *pos < len(toks) && toks[*pos].Kind == TokAlt {
		return nil, syntaxErr(toks[*pos].Offset, "alternation cannot start with '|'")
	}

	first, err := parseSeq(toks, pos)
	if err != nil {
		return nil, err
	}
	alts := []Node{first}

	for *pos < len(toks) && toks[*pos].Kind == TokAlt {
		barOffset := toks[*pos].Offset
		*pos++
		if *pos >= len(toks) {
			return nil, syntaxErr(barOffset, "alternation cannot end with '|'")
		}
		if toks[*pos].Kind == TokRParen {
			return nil, syntaxErr(toks[*pos].Offset, "alternation cannot end with '|'")
		}
		if toks[*pos].Kind == TokAlt {
			return nil, syntaxErr(toks[*pos].Offset, "empty alternative between '|' and '|'")
		}
		next, err := parseSeq(toks, pos)
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}

	if len(alts) == 1 {
		return alts[0], nil
	}
	return &AltNode{Alternatives: alts}, nil
}

func parseSeq(toks []Token, pos *int) (Node, error) {
	var items []Node
	for *pos < len(toks) {
		tk := toks[*pos]
		if tk.Kind == TokAlt || tk.Kind == TokRParen {
			break
		}
		if tk.Kind == TokQuant {
			return nil, syntaxErr(tk.Offset, "quantifier without preceding atom")
		}
		atom, err := parseAtom(toks, pos)
		if err != nil {
			return nil, err
		}
		items = append(items, atom)
	}
	return &SeqNode{Items: items}, nil
}

func parseAtom(toks []Token, pos *int) (Node, error) {
	tk := toks[*pos]

	var node Node
	switch tk.Kind {
	case TokVar:
		node = &VarNode{Name: tk.Name, Min: 1, Max: 1}
		*pos++

	case TokLParen:
		lparenOffset := tk.Offset
		*pos++
		if *pos < len(toks) && toks[*pos].Kind == TokRParen {
			return nil, syntaxErr(lparenOffset, "empty group not allowed")
		}
		if *pos >= len(toks) {
			return nil, syntaxErr(lparenOffset, "unmatched '('")
		}
		inner, err := parseAlt(toks, pos)
		if err != nil {
			return nil, err
		}
		if *pos >= len(toks) || toks[*pos].Kind != TokRParen {
			return nil, syntaxErr(lparenOffset, "unmatched '('")
		}
		*pos++ // consume ')'
		node = &GroupNode{Content: inner, Min: 1, Max: 1}

	default:
		return nil, syntaxErr(tk.Offset, "unexpected token")
	}

	if *pos < len(toks) && toks[*pos].Kind == TokQuant {
		q := toks[*pos]
		*pos++
		switch x := node.(type) {
		case *VarNode:
			x.Min, x.Max, x.Reluctant = q.Min, q.Max, q.Reluctant
		case *GroupNode:
			x.Min, x.Max, x.Reluctant = q.Min, q.Max, q.Reluctant
		}
	}

	return node, nil
}
