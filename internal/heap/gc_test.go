package heap

import (
	"testing"

	"tessera/internal/value"
)

// contains walks the sweep list looking for obj, directly exercising the
// collector's own intrusive linked list rather than re-deriving liveness
// some other way.
func contains(h *Heap, obj *value.Object) bool {
	for o := h.first; o != nil; o = o.Next {
		if o == obj {
			return true
		}
	}
	return false
}

func TestCollectSurvivesChainFromRoot(t *testing.T) {
	h := New()
	list := h.NewList()
	str := h.NewString("reachable")
	list.Elements = append(list.Elements, value.Ptr(&str.Object))

	h.ExternalRoots = append(h.ExternalRoots, func(mark func(*value.Object)) {
		mark(&list.Object)
	})

	h.Collect()

	if !contains(h, &list.Object) {
		t.Fatalf("rooted list did not survive collection")
	}
	if !contains(h, &str.Object) {
		t.Fatalf("string reachable only through the rooted list's chain did not survive collection")
	}
	if list.Object.Marked || str.Object.Marked {
		t.Fatalf("survivors must have their mark bit cleared by sweep")
	}
}

func TestCollectReclaimsUnreachableCycle(t *testing.T) {
	h := New()
	a := h.NewList()
	b := h.NewList()
	a.Elements = append(a.Elements, value.Ptr(&b.Object))
	b.Elements = append(b.Elements, value.Ptr(&a.Object))
	// No root references either list: the cycle between them must not keep
	// either one alive.

	h.Collect()

	if contains(h, &a.Object) {
		t.Fatalf("cyclic list a survived collection despite no root reaching it")
	}
	if contains(h, &b.Object) {
		t.Fatalf("cyclic list b survived collection despite no root reaching it")
	}
}

func TestTempRootProtectsDuringConstruction(t *testing.T) {
	h := New()
	kept := h.NewString("kept")
	h.PushTempRef(&kept.Object)

	// An intervening allocation with no root of its own; nothing here
	// references kept yet, so without the temp-root stack it would be a
	// false negative for reachability during its own construction.
	_ = h.NewString("unrelated, unrooted")

	h.Collect()
	if !contains(h, &kept.Object) {
		t.Fatalf("temp-rooted object did not survive a collection while still protected")
	}

	h.PopTempRef()
	h.Collect()
	if contains(h, &kept.Object) {
		t.Fatalf("object should be collected once its temp-root is popped and nothing else roots it")
	}
}

func TestPushTempRefOverflowPanics(t *testing.T) {
	h := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on temp-root stack overflow")
		}
	}()
	for i := 0; i < maxTempReference+1; i++ {
		h.PushTempRef(&h.NewString("x").Object)
	}
}

func TestPopTempRefUnderflowPanics(t *testing.T) {
	h := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on temp-root stack underflow")
		}
	}()
	h.PopTempRef()
}

func TestScriptChainSurvivesThroughItsBodyFunction(t *testing.T) {
	h := New()
	s := h.NewScript("<test>")
	h.ExternalRoots = append(h.ExternalRoots, func(mark func(*value.Object)) {
		mark(&s.Object)
	})

	h.Collect()

	if !contains(h, &s.Object) {
		t.Fatalf("rooted script did not survive collection")
	}
	if !contains(h, &s.Body.Object) {
		t.Fatalf("a script's own body function must survive whenever the script does")
	}
}

func TestFiberChainSurvivesFromRoot(t *testing.T) {
	h := New()
	s := h.NewScript("<test>")
	fn := h.NewFunction("f", s, false)
	fiber := h.NewFiber(fn)
	str := h.NewString("on the fiber's stack")
	fiber.Stack = append(fiber.Stack, value.Ptr(&str.Object))
	fiber.Frames = append(fiber.Frames, value.Frame{Function: fn})

	h.ExternalRoots = append(h.ExternalRoots, func(mark func(*value.Object)) {
		mark(&fiber.Object)
	})

	h.Collect()

	if !contains(h, &fiber.Object) {
		t.Fatalf("rooted fiber did not survive collection")
	}
	if !contains(h, &fn.Object) {
		t.Fatalf("a fiber's bound function must survive alongside it")
	}
	if !contains(h, &str.Object) {
		t.Fatalf("a string reachable only via the fiber's value stack did not survive")
	}
	if !contains(h, &s.Object) {
		t.Fatalf("the function's owner script must survive via the fiber's frame chain")
	}
}

func TestFiberIsCollectedWhenUnreferenced(t *testing.T) {
	h := New()
	s := h.NewScript("<test>")
	fn := h.NewFunction("f", s, false)
	fiber := h.NewFiber(fn)

	h.Collect()

	if contains(h, &fiber.Object) {
		t.Fatalf("unreferenced fiber survived collection")
	}
}
