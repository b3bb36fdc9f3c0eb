package queue

import "testing"

func elemsOf(values ...int) []*Elem[int] {
	es := make([]*Elem[int], len(values))
	for i, v := range values {
		es[i] = &Elem[int]{Value: v}
	}
	return es
}

func TestPushBackOrder(t *testing.T) {
	var l List[int]
	es := elemsOf(1, 2, 3)
	for _, e := range es {
		l.PushBack(e)
	}

	got := l.Snapshot()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestUnlinkFromMiddle(t *testing.T) {
	var l List[int]
	es := elemsOf(1, 2, 3)
	for _, e := range es {
		l.PushBack(e)
	}

	es[1].Unlink()

	got := l.Snapshot()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("got %v, want [1 3]", got)
	}
	if es[1].Resident() {
		t.Fatalf("unlinked element still reports resident")
	}
}

func TestPushBackMovesBetweenLists(t *testing.T) {
	var fifo, lru List[int]
	e := &Elem[int]{Value: 42}

	fifo.PushBack(e)
	if !e.InList(&fifo) || e.InList(&lru) {
		t.Fatalf("expected membership in fifo only")
	}

	lru.PushBack(e)
	if e.InList(&fifo) {
		t.Fatalf("element should have left fifo")
	}
	if !e.InList(&lru) {
		t.Fatalf("element should be in lru")
	}
	if fifo.Len() != 0 || lru.Len() != 1 {
		t.Fatalf("fifo.Len()=%d lru.Len()=%d", fifo.Len(), lru.Len())
	}
}

func TestPushBackIsIdempotentMoveToTail(t *testing.T) {
	var l List[int]
	es := elemsOf(1, 2, 3)
	for _, e := range es {
		l.PushBack(e)
	}

	l.PushBack(es[0])

	got := l.Snapshot()
	want := []int{2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnlinkHeadAndTail(t *testing.T) {
	var l List[int]
	es := elemsOf(1, 2, 3)
	for _, e := range es {
		l.PushBack(e)
	}

	es[0].Unlink()
	es[2].Unlink()

	got := l.Snapshot()
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("got %v, want [2]", got)
	}
	if l.Front().Value != 2 {
		t.Fatalf("Front() = %v, want 2", l.Front().Value)
	}
}

func TestUnlinkNotResidentIsNoop(t *testing.T) {
	e := &Elem[int]{Value: 1}
	e.Unlink()
	if e.Resident() {
		t.Fatalf("fresh element should not be resident")
	}
}
