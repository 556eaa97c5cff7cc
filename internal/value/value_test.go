package value

import (
	"math"
	"testing"
)

func TestTagsRoundTrip(t *testing.T) {
	if !Nil.IsNil() || Nil.IsNumber() || Nil.IsObj() {
		t.Fatalf("Nil tag misclassified")
	}
	if !True.IsBool() || !True.IsTrue() {
		t.Fatalf("True tag misclassified")
	}
	if !False.IsBool() || False.IsTrue() {
		t.Fatalf("False tag misclassified")
	}
	if !Undefined.IsUndefined() {
		t.Fatalf("Undefined tag misclassified")
	}
}

func TestNumberRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 3.14159, math.MaxFloat64, -math.MaxFloat64} {
		v := Number(f)
		if !v.IsNumber() {
			t.Fatalf("Number(%v) not classified as number", f)
		}
		if got := v.AsNumber(); got != f {
			t.Fatalf("Number(%v) round-tripped as %v", f, got)
		}
	}
}

func TestNumberGuardsReservedTagBits(t *testing.T) {
	// A NaN whose bits happen to collide with a reserved tag must not be
	// mistaken for that tag once boxed.
	collidingBits := uint64(0xFFF8000000000000) // tagNil's own bit pattern
	v := Number(math.Float64frombits(collidingBits))
	if v.IsNil() {
		t.Fatalf("a boxed NaN aliased tagNil")
	}
	if !v.IsNumber() {
		t.Fatalf("canonicalized NaN is no longer classified as a number")
	}
}

func TestPtrRoundTrip(t *testing.T) {
	obj := &Object{Type: TypeString}
	v := Ptr(obj)
	if !v.IsObj() {
		t.Fatalf("Ptr value not classified as object")
	}
	if v.AsObj() != obj {
		t.Fatalf("Ptr round-trip did not return the same pointer")
	}
}

func TestIsSameVsIsEqual(t *testing.T) {
	a := NewStringObj("hello")
	b := NewStringObj("hello")
	va, vb := Ptr(&a.Object), Ptr(&b.Object)

	if IsSame(va, vb) {
		t.Fatalf("two distinct StringObj allocations should not be bit-identical")
	}
	if !IsEqual(va, vb) {
		t.Fatalf("two strings with the same contents should be IsEqual")
	}

	l1, l2 := NewListObj(), NewListObj()
	vl1, vl2 := Ptr(&l1.Object), Ptr(&l2.Object)
	if IsEqual(vl1, vl2) {
		t.Fatalf("lists have no structural equality; two empty lists should still be unequal by identity")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{False, false},
		{True, true},
		{Number(0), true},
		{Number(-1), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Fatalf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestRangeTruthyUnconditional(t *testing.T) {
	r := NewRangeObj(0, 0)
	v := Ptr(&r.Object)
	if !Truthy(v) {
		t.Fatalf("an empty range must still be truthy, per the unconditional-truthiness resolution")
	}
}

func TestHashPanicsOnUnhashableObject(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Hash to panic on a list value")
		}
	}()
	l := NewListObj()
	Hash(Ptr(&l.Object))
}

func TestTypeName(t *testing.T) {
	if TypeName(Nil) != "null" {
		t.Fatalf("TypeName(Nil) = %q", TypeName(Nil))
	}
	if TypeName(Number(1)) != "number" {
		t.Fatalf("TypeName(Number) = %q", TypeName(Number(1)))
	}
	s := NewStringObj("x")
	if got := TypeName(Ptr(&s.Object)); got != "String" {
		t.Fatalf("TypeName(string) = %q", got)
	}
}
