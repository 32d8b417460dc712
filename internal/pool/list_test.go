package pool

import "testing"

// === Basic push/erase/pop ===

func TestList_PushFrontOrder(t *testing.T) {
	l := New[int](4)
	h1 := l.PushFront(1)
	h2 := l.PushFront(2)
	if l.Front() != h2 || l.Back() != h1 {
		t.Fatalf("expected front=h2 back=h1, got front=%d back=%d", l.Front(), l.Back())
	}
	if l.Len() != 2 {
		t.Fatalf("expected len 2, got %d", l.Len())
	}
}

func TestList_EraseMiddle(t *testing.T) {
	l := New[int](4)
	h1 := l.PushFront(1)
	h2 := l.PushFront(2)
	h3 := l.PushFront(3)
	l.Erase(h2)
	if l.Len() != 2 {
		t.Fatalf("expected len 2 after erase, got %d", l.Len())
	}
	v, ok := l.PopBack()
	if !ok || v != 1 {
		t.Fatalf("expected pop 1, got %d ok=%v", v, ok)
	}
	v, ok = l.PopBack()
	if !ok || v != 3 {
		t.Fatalf("expected pop 3, got %d ok=%v", v, ok)
	}
	_ = h1
	_ = h3
}

func TestList_FullRejectsPush(t *testing.T) {
	l := New[int](2)
	l.PushFront(1)
	l.PushFront(2)
	h := l.PushFront(3)
	if h != noIndex {
		t.Fatalf("expected push into full list to be rejected, got handle %d", h)
	}
	if l.Len() != 2 {
		t.Fatalf("expected len unchanged at 2, got %d", l.Len())
	}
}

func TestList_EmptySentinels(t *testing.T) {
	l := New[int](4)
	if l.Front() != noIndex || l.Back() != noIndex {
		t.Fatalf("expected empty list front/back == -1")
	}
	if _, ok := l.PopBack(); ok {
		t.Fatal("expected PopBack on empty list to report ok=false")
	}
}

// === Seed scenario 1 from spec.md §8 ===
//
// capacity 8; push 10,11,12,13 front; snapshot front (p);
// push 14,15,16,17; erase p, erase current front; pop_back six times.
// Expected popped values: 10, 11, 12, 14, 15, 16; final size 0.
func TestList_SeedScenario1(t *testing.T) {
	l := New[int](8)
	l.PushFront(10)
	l.PushFront(11)
	l.PushFront(12)
	l.PushFront(13)

	p := l.Front() // holds value 13

	l.PushFront(14)
	l.PushFront(15)
	l.PushFront(16)
	l.PushFront(17)

	l.Erase(p)
	l.Erase(l.Front()) // erases the node holding 17

	want := []int{10, 11, 12, 14, 15, 16}
	for i, exp := range want {
		got, ok := l.PopBack()
		if !ok {
			t.Fatalf("pop %d: list empty early", i)
		}
		if got != exp {
			t.Fatalf("pop %d: expected %d, got %d", i, exp, got)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("expected final size 0, got %d", l.Len())
	}
}

func TestList_SizePlusFreelistEqualsCapacity(t *testing.T) {
	l := New[int](5)
	l.PushFront(1)
	l.PushFront(2)
	h3 := l.PushFront(3)
	l.Erase(h3)
	if l.Len()+len(l.free) != l.Cap() {
		t.Fatalf("invariant violated: size=%d freelist=%d capacity=%d", l.Len(), len(l.free), l.Cap())
	}
}
