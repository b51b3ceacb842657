package pool

import (
	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
)

// Pool hands out reference-counted objects of one object class, each named
// by a handle unique among the pool's live objects.
//
// Pool does no locking. Callers serialize access with the process critical section.
type Pool[T any] struct {
	slots     []*slot[T]
	freeList  []uint16
	observers []Observer
	object    handle.Object
	capacity  int
	live      int
}

type slot[T any] struct {
	value T
	kind  handle.Kind
	gen   uint8
	valid bool
}

// New creates a pool for objects of the given class.
// A capacity <= 0 or beyond the handle index range uses the full range.
func New[T any](object handle.Object, capacity int) *Pool[T] {
	if capacity <= 0 || capacity > handle.MaxIndex+1 {
		capacity = handle.MaxIndex + 1
	}
	return &Pool[T]{
		slots:    make([]*slot[T], 0, min(capacity, 64)),
		freeList: make([]uint16, 0, 16),
		object:   object,
		capacity: capacity,
	}
}

// Allocate returns a zero-valued object and its fresh handle.
func (p *Pool[T]) Allocate(kind handle.Kind) (handle.Handle, *T, error) {
	if kind.Object() != p.object {
		return handle.Null, nil, errors.New(errors.PhasePool, errors.KindInvalidArgument).
			Arg("kind").
			Value(kind).
			Detail("kind %s does not belong to the %s pool", kind, p.object).
			Build()
	}

	var idx uint16
	switch {
	case len(p.freeList) > 0:
		idx = p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
	case len(p.slots) < p.capacity:
		idx = uint16(len(p.slots))
		p.slots = append(p.slots, &slot[T]{})
	default:
		return handle.Null, nil, errors.OutOfMemory(errors.PhasePool, p.object.String(), p.capacity)
	}

	s := p.slots[idx]
	s.kind = kind
	s.valid = true
	p.live++

	h := handle.New(handle.ClassDirect, kind, s.gen, idx)
	p.notify(Event{Type: EventAllocated, Handle: h, Kind: kind})
	return h, &s.value, nil
}

// Get returns the object named by h.
func (p *Pool[T]) Get(h handle.Handle) (*T, bool) {
	s, ok := p.lookup(h)
	if !ok {
		return nil, false
	}
	return &s.value, true
}

// Release returns the slot named by h to the free list.
// The caller guarantees no other owner still holds h.
func (p *Pool[T]) Release(h handle.Handle) bool {
	s, ok := p.lookup(h)
	if !ok {
		return false
	}

	var zero T
	s.value = zero
	s.valid = false
	s.gen = (s.gen + 1) & handle.MaxGeneration
	p.freeList = append(p.freeList, h.Index())
	p.live--

	p.notify(Event{Type: EventReleased, Handle: h, Kind: s.kind})
	return true
}

// Len returns the number of live objects.
func (p *Pool[T]) Len() int {
	return p.live
}

// Cap returns the maximum number of live objects.
func (p *Pool[T]) Cap() int {
	return p.capacity
}

// Object returns the object class served by the pool.
func (p *Pool[T]) Object() handle.Object {
	return p.object
}

// Each iterates over live objects in slot order.
func (p *Pool[T]) Each(fn func(handle.Handle, *T) bool) {
	for i, s := range p.slots {
		if !s.valid {
			continue
		}
		h := handle.New(handle.ClassDirect, s.kind, s.gen, uint16(i))
		if !fn(h, &s.value) {
			return
		}
	}
}

// Subscribe adds an observer for allocation events.
func (p *Pool[T]) Subscribe(o Observer) {
	p.observers = append(p.observers, o)
}

// Unsubscribe removes an observer.
func (p *Pool[T]) Unsubscribe(o Observer) {
	for i, obs := range p.observers {
		if obs == o {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

func (p *Pool[T]) lookup(h handle.Handle) (*slot[T], bool) {
	if h.Class() != handle.ClassDirect || h.Object() != p.object {
		return nil, false
	}
	idx := int(h.Index())
	if idx >= len(p.slots) {
		return nil, false
	}
	s := p.slots[idx]
	if !s.valid || s.gen != h.Generation() || s.kind != h.Kind() {
		return nil, false
	}
	return s, true
}

func (p *Pool[T]) notify(e Event) {
	for _, o := range p.observers {
		o.OnPoolEvent(e)
	}
}
