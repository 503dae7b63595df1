package pattern

import (
	"errors"
	"testing"
)

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantOffset int
	}{
		{"leading pipe", "|A", 0},
		{"trailing pipe", "A|", 1},
		{"double pipe", "A||B", 2},
		{"empty group", "()", 0},
		{"group leading pipe", "(|A)", 1},
		{"group trailing pipe", "(A|)", 3},
		{"unmatched open", "(A", 0},
		{"unmatched close", "A)", 1},
		{"quantifier at start", "*A", 0},
		{"quantifier after open paren", "(*A)", 1},
		{"quantifier after pipe", "A|*B", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) = nil error, want error", tt.src)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error is not *ParseError: %v", tt.src, err)
			}
			if pe.Offset != tt.wantOffset {
				t.Errorf("Parse(%q) offset = %d, want %d", tt.src, pe.Offset, tt.wantOffset)
			}
		})
	}
}

func TestParse_Shapes(t *testing.T) {
	ast, err := Parse("A B+ (C|D)? E*")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	seq, ok := ast.(*SeqNode)
	if !ok || len(seq.Items) != 4 {
		t.Fatalf("Parse result = %#v, want 4-item Seq", ast)
	}
	if v, ok := seq.Items[0].(*VarNode); !ok || v.Name != "A" || v.Min != 1 || v.Max != 1 {
		t.Errorf("item0 = %#v, want bare Var A", seq.Items[0])
	}
	if v, ok := seq.Items[1].(*VarNode); !ok || v.Name != "B" || v.Min != 1 || v.Max != Unbounded {
		t.Errorf("item1 = %#v, want B+", seq.Items[1])
	}
	g, ok := seq.Items[2].(*GroupNode)
	if !ok || g.Min != 0 || g.Max != 1 {
		t.Fatalf("item2 = %#v, want (C|D)?", seq.Items[2])
	}
	if _, ok := g.Content.(*AltNode); !ok {
		t.Errorf("group content = %#v, want AltNode", g.Content)
	}
	if v, ok := seq.Items[3].(*VarNode); !ok || v.Name != "E" || v.Min != 0 || v.Max != Unbounded {
		t.Errorf("item3 = %#v, want E*", seq.Items[3])
	}
}

// TestParse_RoundTrip checks the property that re-parsing an AST's String()
// form yields a structurally equal AST, for every AST the parser produces
// across a representative sample of patterns.
func TestParse_RoundTrip(t *testing.T) {
	patterns := []string{
		"A",
		"A B C",
		"A|B|C",
		"A? B* C+",
		"A{2,3} B{4}",
		"(A B)+",
		"(A|B C)* D",
		"A*? B+?",
		"(A){2,3}",
	}
	for _, src := range patterns {
		t.Run(src, func(t *testing.T) {
			ast, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", src, err)
			}
			again, err := Parse(ast.String())
			if err != nil {
				t.Fatalf("Parse(String()) = %q, error: %v", ast.String(), err)
			}
			if !Equal(ast, again) {
				t.Errorf("round trip mismatch: %q -> %q -> not equal", src, ast.String())
			}
		})
	}
}
