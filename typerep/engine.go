package typerep

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrStatic          = errors.New("typerep: predefined representation cannot be freed")
	ErrUnknownType     = errors.New("typerep: unknown representation")
	ErrInvalidArgument = errors.New("typerep: invalid argument")
)

// LocalEngine is an in-memory representation engine.
// Implements both Engine and Constructor.
type LocalEngine struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
}

type entry struct {
	layout layout
	gen    uint32
	valid  bool
}

// NewLocalEngine creates an engine holding only the predefined representations.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// IOVLen returns the contiguous block count of count instances of t.
func (e *LocalEngine) IOVLen(count uint64, t Type) (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	l, err := e.layoutOf(t)
	if err != nil {
		return 0, err
	}
	return l.iovLen(count), nil
}

// Free releases a dynamic representation.
func (e *LocalEngine) Free(t Type) error {
	if IsStatic(t) {
		return ErrStatic
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, idx, ok := e.dynamic(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	ent.valid = false
	ent.layout = layout{}
	ent.gen = (ent.gen + 1) &^ uint32(dynamicBit>>32)
	e.freeList = append(e.freeList, idx)
	return nil
}

// Size returns the number of data bytes in one instance of t.
func (e *LocalEngine) Size(t Type) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	l, err := e.layoutOf(t)
	if err != nil {
		return 0, err
	}
	return l.size, nil
}

// Extent returns the span of one instance of t.
func (e *LocalEngine) Extent(t Type) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	l, err := e.layoutOf(t)
	if err != nil {
		return 0, err
	}
	return l.extent, nil
}

// Contiguous creates count consecutive copies of old.
func (e *LocalEngine) Contiguous(count int, old Type) (Type, error) {
	if count < 0 {
		return TypeNull, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, count)
	}
	return e.build(func() (layout, error) {
		base, err := e.layoutOf(old)
		if err != nil {
			return layout{}, err
		}
		l := layout{name: "contiguous", size: int64(count) * base.size}
		for i := 0; i < count; i++ {
			l.blocks = appendShifted(l.blocks, base.blocks, int64(i)*base.extent)
		}
		if count > 0 {
			l.cover(base.lb, base.lb+int64(count)*base.extent)
		}
		return l, nil
	})
}

// Vector creates count blocks of blocklen elements spaced stride elements apart.
func (e *LocalEngine) Vector(count, blocklen, stride int, old Type) (Type, error) {
	if count < 0 || blocklen < 0 || stride < 0 {
		return TypeNull, fmt.Errorf("%w: vector(%d, %d, %d)", ErrInvalidArgument, count, blocklen, stride)
	}
	lens := make([]int, count)
	displs := make([]int, count)
	for i := range lens {
		lens[i] = blocklen
		displs[i] = i * stride
	}
	return e.indexed("vector", lens, displs, old)
}

// Indexed creates blocks at displacements measured in extents of old.
func (e *LocalEngine) Indexed(blocklens, displs []int, old Type) (Type, error) {
	if len(blocklens) != len(displs) {
		return TypeNull, fmt.Errorf("%w: %d block lengths, %d displacements", ErrInvalidArgument, len(blocklens), len(displs))
	}
	return e.indexed("indexed", blocklens, displs, old)
}

func (e *LocalEngine) indexed(name string, blocklens, displs []int, old Type) (Type, error) {
	return e.build(func() (layout, error) {
		base, err := e.layoutOf(old)
		if err != nil {
			return layout{}, err
		}
		l := layout{name: name}
		for i, n := range blocklens {
			if n < 0 || displs[i] < 0 {
				return layout{}, fmt.Errorf("%w: block %d", ErrInvalidArgument, i)
			}
			if n == 0 {
				continue
			}
			start := int64(displs[i]) * base.extent
			for j := 0; j < n; j++ {
				l.blocks = appendShifted(l.blocks, base.blocks, start+int64(j)*base.extent)
			}
			l.size += int64(n) * base.size
			l.cover(start+base.lb, start+base.lb+int64(n)*base.extent)
		}
		return l, nil
	})
}

// Struct creates blocks of the given types at byte displacements.
func (e *LocalEngine) Struct(blocklens []int, displs []int64, types []Type) (Type, error) {
	if len(blocklens) != len(displs) || len(blocklens) != len(types) {
		return TypeNull, fmt.Errorf("%w: mismatched struct arguments", ErrInvalidArgument)
	}
	return e.build(func() (layout, error) {
		l := layout{name: "struct"}
		for i, n := range blocklens {
			if n < 0 || displs[i] < 0 {
				return layout{}, fmt.Errorf("%w: block %d", ErrInvalidArgument, i)
			}
			base, err := e.layoutOf(types[i])
			if err != nil {
				return layout{}, err
			}
			if n == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				l.blocks = appendShifted(l.blocks, base.blocks, displs[i]+int64(j)*base.extent)
			}
			l.size += int64(n) * base.size
			l.cover(displs[i]+base.lb, displs[i]+base.lb+int64(n)*base.extent)
		}
		return l, nil
	})
}

// Dup creates a new dynamic representation with the layout of old.
func (e *LocalEngine) Dup(old Type) (Type, error) {
	return e.build(func() (layout, error) {
		base, err := e.layoutOf(old)
		if err != nil {
			return layout{}, err
		}
		dup := *base
		dup.name = "dup(" + base.name + ")"
		dup.blocks = append([]block(nil), base.blocks...)
		return dup, nil
	})
}

// Live returns the number of dynamic representations not yet freed.
func (e *LocalEngine) Live() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, ent := range e.entries {
		if ent.valid {
			count++
		}
	}
	return count
}

// build computes a layout under the write lock and stores it.
func (e *LocalEngine) build(fn func() (layout, error)) (Type, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := fn()
	if err != nil {
		return TypeNull, err
	}

	if len(e.freeList) > 0 {
		idx := e.freeList[len(e.freeList)-1]
		e.freeList = e.freeList[:len(e.freeList)-1]
		ent := &e.entries[idx]
		ent.layout = l
		ent.valid = true
		return encodeDynamic(idx, ent.gen), nil
	}

	e.entries = append(e.entries, entry{layout: l, valid: true})
	return encodeDynamic(uint32(len(e.entries)-1), 0), nil
}

// layoutOf resolves t. Callers hold e.mu.
func (e *LocalEngine) layoutOf(t Type) (*layout, error) {
	if IsStatic(t) {
		return &staticLayouts[t], nil
	}
	ent, _, ok := e.dynamic(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return &ent.layout, nil
}

func (e *LocalEngine) dynamic(t Type) (*entry, uint32, bool) {
	if t&dynamicBit == 0 {
		return nil, 0, false
	}
	idx, gen := decodeDynamic(t)
	if int(idx) >= len(e.entries) {
		return nil, 0, false
	}
	ent := &e.entries[idx]
	if !ent.valid || ent.gen != gen {
		return nil, 0, false
	}
	return ent, idx, true
}
