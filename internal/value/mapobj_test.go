package value

import "testing"

func TestMapSetGet(t *testing.T) {
	m := NewMapObj()
	k := Number(1)
	m.Set(k, Number(100))
	if got := m.Get(k); got.AsNumber() != 100 {
		t.Fatalf("got %v, want 100", got.AsNumber())
	}
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}
}

func TestMapSetOverwritesExistingKey(t *testing.T) {
	m := NewMapObj()
	m.Set(Number(1), Number(1))
	m.Set(Number(1), Number(2))
	if m.Count() != 1 {
		t.Fatalf("overwrite should not grow count, got %d", m.Count())
	}
	if got := m.Get(Number(1)); got.AsNumber() != 2 {
		t.Fatalf("got %v, want 2", got.AsNumber())
	}
}

func TestMapGetMissingReturnsUndefined(t *testing.T) {
	m := NewMapObj()
	if got := m.Get(Number(42)); !got.IsUndefined() {
		t.Fatalf("expected Undefined for a missing key, got %v", got)
	}
}

func TestMapRemoveTombstoneThenReinsert(t *testing.T) {
	m := NewMapObj()
	m.Set(Number(1), Number(1))
	m.Set(Number(2), Number(2))

	if _, ok := m.Remove(Number(1)); !ok {
		t.Fatalf("expected Remove to report the key was present")
	}
	if m.Count() != 1 {
		t.Fatalf("count after remove = %d, want 1", m.Count())
	}
	if got := m.Get(Number(1)); !got.IsUndefined() {
		t.Fatalf("removed key should no longer be found")
	}
	// Probing must walk past the tombstone to still find key 2.
	if got := m.Get(Number(2)); got.AsNumber() != 2 {
		t.Fatalf("probing past a tombstone failed to find key 2, got %v", got)
	}

	m.Set(Number(1), Number(99))
	if got := m.Get(Number(1)); got.AsNumber() != 99 {
		t.Fatalf("reinserting a removed key failed, got %v", got)
	}
}

func TestMapRemoveLastEntryClearsTable(t *testing.T) {
	m := NewMapObj()
	m.Set(Number(1), Number(1))
	m.Remove(Number(1))
	if m.Count() != 0 {
		t.Fatalf("count = %d, want 0", m.Count())
	}
	if got := m.Get(Number(1)); !got.IsUndefined() {
		t.Fatalf("map should be empty after removing its only entry")
	}
}

func TestMapEachVisitsOnlyLiveEntries(t *testing.T) {
	m := NewMapObj()
	m.Set(Number(1), Number(10))
	m.Set(Number(2), Number(20))
	m.Remove(Number(1))

	seen := map[float64]float64{}
	m.Each(func(k, v Value) {
		seen[k.AsNumber()] = v.AsNumber()
	})
	if len(seen) != 1 || seen[2] != 20 {
		t.Fatalf("Each visited %v, want only {2: 20}", seen)
	}
}

func TestMapResizeGrowsUnderLoad(t *testing.T) {
	m := NewMapObj()
	for i := 0; i < 100; i++ {
		m.Set(Number(float64(i)), Number(float64(i*2)))
	}
	for i := 0; i < 100; i++ {
		if got := m.Get(Number(float64(i))); got.AsNumber() != float64(i*2) {
			t.Fatalf("key %d: got %v, want %v", i, got.AsNumber(), i*2)
		}
	}
	if m.Count() != 100 {
		t.Fatalf("count = %d, want 100", m.Count())
	}
}
