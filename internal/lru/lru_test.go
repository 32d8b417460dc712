package lru

import "testing"

// === Basic get/peek/put ===

func TestLRU_PutGet(t *testing.T) {
	l := New(4)
	l.Put(1, 100)
	if v := l.Get(1); v != 100 {
		t.Fatalf("expected 100, got %d", v)
	}
	if v := l.Get(2); v != NoValue {
		t.Fatalf("expected NoValue for absent key, got %d", v)
	}
}

func TestLRU_PeekDoesNotPromote(t *testing.T) {
	l := New(2)
	l.Put(1, 1)
	l.Put(2, 2)
	// 1 is LRU. Peek it — must not promote.
	if v := l.Peek(1); v != 1 {
		t.Fatalf("expected peek 1, got %d", v)
	}
	evicted := l.Put(3, 3)
	if evicted != 1 {
		t.Fatalf("expected key 1 evicted (peek must not promote), got %d", evicted)
	}
}

func TestLRU_UpdateExistingKeyPromotes(t *testing.T) {
	l := New(2)
	l.Put(1, 1)
	l.Put(2, 2)
	l.Put(1, 10) // update, should promote 1
	evicted := l.Put(3, 3)
	if evicted != 2 {
		t.Fatalf("expected key 2 evicted, got %d", evicted)
	}
	if v := l.Get(1); v != 10 {
		t.Fatalf("expected updated value 10, got %d", v)
	}
}

func TestLRU_NextEvictedBelowCapacity(t *testing.T) {
	l := New(3)
	l.Put(1, 1)
	if _, atCap := l.NextEvicted(); atCap {
		t.Fatal("expected not at capacity")
	}
}

func TestLRU_NextEvictedAtCapacity(t *testing.T) {
	l := New(2)
	l.Put(1, 1)
	l.Put(2, 2)
	k, atCap := l.NextEvicted()
	if !atCap {
		t.Fatal("expected at capacity")
	}
	if k != 1 {
		t.Fatalf("expected next-evicted key 1, got %d", k)
	}
	// NextEvicted must not mutate state.
	if l.Len() != 2 {
		t.Fatalf("expected len unchanged at 2, got %d", l.Len())
	}
}

// === Seed scenario 2 from spec.md §8 ===
//
// capacity 3; put A=1, B=2, C=3; get A; put D=4.
// Expected: key B evicted, map contains {A:1, C:3, D:4}, LRU order C < A < D.
func TestLRU_SeedScenario2(t *testing.T) {
	const keyA, keyB, keyC, keyD = 1, 2, 3, 4

	l := New(3)
	l.Put(keyA, 1)
	l.Put(keyB, 2)
	l.Put(keyC, 3)
	l.Get(keyA)
	evicted := l.Put(keyD, 4)

	if evicted != keyB {
		t.Fatalf("expected key B (%d) evicted, got %d", keyB, evicted)
	}
	if l.Contains(keyB) {
		t.Fatal("expected B removed from map")
	}
	if v := l.Peek(keyA); v != 1 {
		t.Fatalf("expected A=1, got %d", v)
	}
	if v := l.Peek(keyC); v != 3 {
		t.Fatalf("expected C=3, got %d", v)
	}
	if v := l.Peek(keyD); v != 4 {
		t.Fatalf("expected D=4, got %d", v)
	}

	// LRU order C < A < D: C is the least-recently-used key, so it is the
	// one the next insertion would evict.
	next, _ := l.NextEvicted()
	if next != keyC {
		t.Fatalf("expected C to be least-recently-used, got %d", next)
	}
}

func TestLRU_LenNeverExceedsCapacity(t *testing.T) {
	l := New(2)
	for k := uint64(1); k <= 10; k++ {
		l.Put(k, int32(k))
		if l.Len() > l.Cap() {
			t.Fatalf("len %d exceeded capacity %d", l.Len(), l.Cap())
		}
	}
}
