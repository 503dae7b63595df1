package orderset

import "testing"

func TestSet_Basic(t *testing.T) {
	s := New[string]()

	if s.Contains("a") {
		t.Error("empty set should not contain \"a\"")
	}
	if !s.Insert("a") {
		t.Error("first insert should return true")
	}
	if !s.Contains("a") {
		t.Error("set should contain \"a\" after insert")
	}
	if s.Insert("a") {
		t.Error("duplicate insert should return false")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("len after Clear = %d, want 0", s.Len())
	}
	if s.Contains("a") {
		t.Error("cleared set should not contain \"a\"")
	}
}

func TestSet_InsertionOrder(t *testing.T) {
	s := New[string]()
	for _, k := range []string{"c", "a", "c", "b", "a"} {
		s.Insert(k)
	}
	want := []string{"c", "a", "b"}
	got := s.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMap_InsertAndGet(t *testing.T) {
	m := NewMap[string, int]()

	if _, found := m.Insert("x", 1); found {
		t.Error("first insert of \"x\" should report not found")
	}
	if existing, found := m.Insert("x", 99); !found || existing != 1 {
		t.Errorf("second insert of \"x\" = (%d, %v), want (1, true)", existing, found)
	}
	v, ok := m.Get("x")
	if !ok || v != 1 {
		t.Errorf("Get(\"x\") = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get of missing key should report not found")
	}
}

func TestMap_InsertionOrder(t *testing.T) {
	m := NewMap[string, int]()
	m.Insert("b", 2)
	m.Insert("a", 1)
	m.Insert("b", 20) // collision, ignored
	m.Insert("c", 3)

	wantKeys := []string{"b", "a", "c"}
	wantVals := []int{2, 1, 3}
	vals := m.Values()
	if len(vals) != len(wantVals) {
		t.Fatalf("Values() = %v, want %v", vals, wantVals)
	}
	for i, v := range vals {
		if v != wantVals[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, v, wantVals[i])
		}
	}
	if m.Len() != len(wantKeys) {
		t.Errorf("Len() = %d, want %d", m.Len(), len(wantKeys))
	}
}
