// Package queue implements the intrusive doubly-linked list the pool uses
// for its FIFO and LRU queues. A frame carries one embedded Elem; because
// an Elem tracks the single List it currently belongs to, "a frame is never
// in both FIFO and LRU" falls out of the data structure itself. An Elem can
// also be in no list at all; keeping every indexed frame in one of the two
// queues is left to the pool.
package queue

// Elem is an intrusive node. Embed one directly in the type that will be
// threaded onto a List (see storage/frame.Frame.Link) and set Value to a
// pointer back to the owner once it exists.
type Elem[T any] struct {
	prev, next *Elem[T]
	list       *List[T]
	Value      T
}

// InList reports whether e is currently a member of list.
func (e *Elem[T]) InList(list *List[T]) bool {
	return e.list == list
}

// Resident reports whether e belongs to any list.
func (e *Elem[T]) Resident() bool {
	return e.list != nil
}

// Unlink removes e from whichever list currently contains it. A no-op if e
// is not resident in any list.
func (e *Elem[T]) Unlink() {
	list := e.list
	if list == nil {
		return
	}
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		list.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		list.tail = e.prev
	}
	e.prev, e.next, e.list = nil, nil, nil
	list.size--
}

// List is a non-circular intrusive doubly-linked list. PushBack appends at
// the tail, so the tail end is "most recently inserted" and the head end
// is "oldest" — the ordering both FIFO admission and LRU promotion need.
type List[T any] struct {
	head, tail *Elem[T]
	size       int
}

// Len returns the number of elements currently in the list.
func (l *List[T]) Len() int {
	return l.size
}

// PushBack appends e at the tail. e is unlinked from any list it currently
// belongs to first, so this doubles as "move to tail".
func (l *List[T]) PushBack(e *Elem[T]) {
	e.Unlink()
	e.prev = l.tail
	e.next = nil
	if l.tail != nil {
		l.tail.next = e
	} else {
		l.head = e
	}
	l.tail = e
	e.list = l
	l.size++
}

// Front returns the oldest/least-recent element, or nil if the list is empty.
func (l *List[T]) Front() *Elem[T] {
	return l.head
}

// Snapshot returns the element values from head (oldest) to tail (newest).
func (l *List[T]) Snapshot() []T {
	out := make([]T, 0, l.size)
	for e := l.head; e != nil; e = e.next {
		out = append(out, e.Value)
	}
	return out
}

// Each walks the list from head to tail, stopping early if fn returns false.
func (l *List[T]) Each(fn func(*Elem[T]) bool) {
	for e := l.head; e != nil; {
		next := e.next
		if !fn(e) {
			return
		}
		e = next
	}
}
