package value

import "testing"

func TestListInsertShiftsTail(t *testing.T) {
	l := NewListObj()
	l.Insert(0, Number(1))
	l.Insert(1, Number(2))
	l.Insert(1, Number(3)) // [1, 3, 2]

	want := []float64{1, 3, 2}
	if len(l.Elements) != len(want) {
		t.Fatalf("got %d elements, want %d", len(l.Elements), len(want))
	}
	for i, w := range want {
		if got := l.Elements[i].AsNumber(); got != w {
			t.Fatalf("index %d: got %v, want %v", i, got, w)
		}
	}
}

func TestListInsertAtEndAppends(t *testing.T) {
	l := NewListObj()
	l.Insert(0, Number(1))
	l.Insert(1, Number(2)) // append
	if len(l.Elements) != 2 || l.Elements[1].AsNumber() != 2 {
		t.Fatalf("insert at len() did not append, got %v", l.Elements)
	}
}

func TestListRemoveAtShiftsAndShrinks(t *testing.T) {
	l := NewListObj()
	for i := 0; i < 8; i++ {
		l.Insert(i, Number(float64(i)))
	}
	startCap := cap(l.Elements)

	removed := l.RemoveAt(0)
	if removed.AsNumber() != 0 {
		t.Fatalf("removed wrong element: got %v, want 0", removed.AsNumber())
	}
	if len(l.Elements) != 7 {
		t.Fatalf("got len %d, want 7", len(l.Elements))
	}
	if l.Elements[0].AsNumber() != 1 {
		t.Fatalf("remaining elements did not shift up, got %v", l.Elements[0].AsNumber())
	}

	// Remove down to a quarter of the original capacity and confirm the
	// backing array actually shrinks rather than just the length.
	for len(l.Elements) > startCap/4 {
		l.RemoveAt(0)
	}
	if cap(l.Elements) >= startCap {
		t.Fatalf("expected backing array to shrink, cap is still %d (was %d)", cap(l.Elements), startCap)
	}
}
