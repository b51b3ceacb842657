// Package pool provides the handle object pool backing every runtime object class.
//
// A Pool maps handles to objects of a single class. Slots are reused through a
// LIFO free list and each release bumps the slot generation, so a stale handle
// never resolves to the slot's next occupant:
//
//	p := pool.New[Keyval](handle.ObjectKeyval, 0)
//
//	h, kv, err := p.Allocate(handle.WinKeyval) // zero-valued *Keyval
//	kv, ok := p.Get(h)
//	p.Release(h)
//	_, ok = p.Get(h) // false
//
// # Capacity
//
// A pool holds at most Cap() live objects. Allocate fails with an
// out_of_memory error once the pool is full; releasing any object makes room.
//
// # Concurrency
//
// Pools perform no locking. They are only touched from inside the process
// critical section held by the runtime package.
//
// # Observers
//
// Observers are notified of every allocation and release, which the
// inspection tooling uses to track live objects.
package pool
