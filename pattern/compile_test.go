package pattern

import "testing"

func TestCompile_SingleVar(t *testing.T) {
	p, err := Compile("A")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	// A -> Fin
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	v := p.Element(0)
	if v.Kind() != KindVar {
		t.Fatalf("element 0 kind = %s, want Var", v.Kind())
	}
	if v.Next() != 1 {
		t.Errorf("element 0 next = %d, want 1 (Fin)", v.Next())
	}
	if p.Element(1).Kind() != KindFin {
		t.Errorf("element 1 kind = %s, want Fin", p.Element(1).Kind())
	}
}

func TestCompile_Seq(t *testing.T) {
	p, err := Compile("A B C")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", p.Len())
	}
	for i := 0; i < 3; i++ {
		if p.Element(ElemIndex(i)).Next() != ElemIndex(i+1) {
			t.Errorf("element %d next = %d, want %d", i, p.Element(ElemIndex(i)).Next(), i+1)
		}
	}
}

func TestCompile_Alternation(t *testing.T) {
	p, err := Compile("A|B")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	// AltStart, A, B, Fin
	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", p.Len())
	}
	alt := p.Element(0)
	if alt.Kind() != KindAltStart {
		t.Fatalf("element 0 kind = %s, want AltStart", alt.Kind())
	}
	if alt.Next() != 1 {
		t.Errorf("AltStart.next = %d, want 1 (first arm A)", alt.Next())
	}
	armA := p.Element(1)
	if armA.Jump() != 2 {
		t.Errorf("arm A jump = %d, want 2 (arm B)", armA.Jump())
	}
	armB := p.Element(2)
	if armB.Jump() != InvalidIndex {
		t.Errorf("arm B jump = %d, want InvalidIndex (last arm)", armB.Jump())
	}
	if armA.Next() != 3 || armB.Next() != 3 {
		t.Errorf("both arms should flow to Fin at 3: A.next=%d B.next=%d", armA.Next(), armB.Next())
	}
}

func TestCompile_NestedAlternationInGroup(t *testing.T) {
	// Regression test for the deferred-patch-list fix: the quantified
	// GroupEnd closing the inner alternation must have its dangling next
	// resolved to the element past the group (D), not to some intermediate
	// arm boundary.
	p, err := Compile("(A|B C)+ D", WithoutOptimize())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	finIdx := p.FinIndex()
	for i, el := range p.Elements() {
		if el.Kind() == KindGroupEnd {
			if el.Next() == InvalidIndex {
				t.Fatalf("GroupEnd at %d has unresolved next", i)
			}
		}
	}
	// D must be the element directly preceding Fin and fed by the GroupEnd's next.
	dIdx := finIdx - 1
	d := p.Element(dIdx)
	if _, ok := d.VarID(); !ok {
		t.Fatalf("expected element before Fin to be a Var (D), got %s", d.Kind())
	}
	name := p.VarName(mustVarID(t, p, "D"))
	if name != "D" {
		t.Fatalf("unexpected var name resolution")
	}
	found := false
	for _, el := range p.Elements() {
		if el.Kind() == KindGroupEnd && el.Next() == dIdx {
			found = true
		}
	}
	if !found {
		t.Errorf("no GroupEnd feeds directly into D at %d", dIdx)
	}
}

func mustVarID(t *testing.T, p *Pattern, name string) int {
	t.Helper()
	id, ok := p.VarID(name)
	if !ok {
		t.Fatalf("variable %q not found", name)
	}
	return id
}

func TestCompile_GroupEndEnclosesAltStart(t *testing.T) {
	p, err := Compile("(A|B)+", WithoutOptimize())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	var altIdx, groupEndIdx ElemIndex = InvalidIndex, InvalidIndex
	for i, el := range p.Elements() {
		if el.Kind() == KindAltStart {
			altIdx = ElemIndex(i)
		}
		if el.Kind() == KindGroupEnd {
			groupEndIdx = ElemIndex(i)
		}
	}
	if altIdx == InvalidIndex || groupEndIdx == InvalidIndex {
		t.Fatalf("expected both an AltStart and a GroupEnd")
	}
	if p.Element(altIdx).EnclosingGroupEnd() != groupEndIdx {
		t.Errorf("AltStart.enclosing = %d, want %d", p.Element(altIdx).EnclosingGroupEnd(), groupEndIdx)
	}
}

func TestCompile_AltArmsFlattenOneDepthDeeper(t *testing.T) {
	// §4.1.4: Alt emits its AltStart at the parent depth, but flattens
	// each alternative at depth+1 — the arms' own elements must sit one
	// level deeper than the AltStart that dispatches to them.
	p, err := Compile("A|B", WithoutOptimize())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	alt := p.Element(0)
	if alt.Kind() != KindAltStart || alt.Depth() != 0 {
		t.Fatalf("element 0 = %s depth=%d, want AltStart depth=0", alt.Kind(), alt.Depth())
	}
	armA := p.Element(1)
	armB := p.Element(2)
	if armA.Depth() != 1 {
		t.Errorf("arm A depth = %d, want 1", armA.Depth())
	}
	if armB.Depth() != 1 {
		t.Errorf("arm B depth = %d, want 1", armB.Depth())
	}

	// Nested inside a quantified group, the AltStart itself is already at
	// depth+1 relative to the GroupEnd, so its arms sit at depth+2.
	p2, err := Compile("(A|B C)+", WithoutOptimize())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	var altIdx ElemIndex = InvalidIndex
	var groupEndDepth = -1
	for i, el := range p2.Elements() {
		if el.Kind() == KindAltStart {
			altIdx = ElemIndex(i)
		}
		if el.Kind() == KindGroupEnd {
			groupEndDepth = el.Depth()
		}
	}
	if altIdx == InvalidIndex {
		t.Fatalf("expected an AltStart")
	}
	alt2 := p2.Element(altIdx)
	if alt2.Depth() != groupEndDepth+1 {
		t.Errorf("AltStart depth = %d, want %d (GroupEnd depth + 1)", alt2.Depth(), groupEndDepth+1)
	}
	for i := int(altIdx) + 1; i < p2.Len(); i++ {
		el := p2.Element(ElemIndex(i))
		if el.Kind() == KindGroupEnd {
			break
		}
		if _, ok := el.VarID(); ok && el.Depth() != alt2.Depth()+1 {
			t.Errorf("element %d (arm content) depth = %d, want %d (AltStart depth + 1)", i, el.Depth(), alt2.Depth()+1)
		}
	}
}

func TestCompile_EmptyPattern(t *testing.T) {
	if _, err := Compile(""); err == nil {
		t.Fatalf("Compile(\"\") = nil error, want ErrEmptyPattern")
	}
}

func TestCompile_ValidatesCleanly(t *testing.T) {
	patterns := []string{
		"A",
		"A B C",
		"A|B|C",
		"A? B* C+",
		"(A B)+",
		"(A|B C)* D",
		"A*? B+?",
		"(A){2,3} B{0,4}",
	}
	for _, src := range patterns {
		t.Run(src, func(t *testing.T) {
			p, err := Compile(src)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", src, err)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("Compile(%q) produced invalid Pattern: %v", src, err)
			}
		})
	}
}
