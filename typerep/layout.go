package typerep

// block is one contiguous run of data bytes.
type block struct {
	off int64
	len int64
}

// layout describes one instance of a type. Block offsets are relative to the
// instance origin; lb and ub bound the instance and extent = ub - lb.
type layout struct {
	name    string
	blocks  []block
	size    int64
	lb      int64
	ub      int64
	extent  int64
	bounded bool
}

// cover widens the bounds of l to include [lo, hi).
func (l *layout) cover(lo, hi int64) {
	if !l.bounded {
		l.lb, l.ub, l.bounded = lo, hi, true
	} else {
		l.lb = min(l.lb, lo)
		l.ub = max(l.ub, hi)
	}
	l.extent = l.ub - l.lb
}

// staticLayouts describes the predefined representations. Pair types are
// packed: the value is immediately followed by its int index, so one instance
// occupies a single contiguous block.
var staticLayouts = [numStatic]layout{
	TypeChar:          primitive("char", 1, 1),
	TypeShort:         primitive("short", 2, 2),
	TypeInt:           primitive("int", 4, 4),
	TypeLong:          primitive("long", 8, 8),
	TypeFloat:         primitive("float", 4, 4),
	TypeDouble:        primitive("double", 8, 8),
	TypeLongDouble:    primitive("long_double", 16, 16),
	TypeByte:          primitive("byte", 1, 1),
	TypeFloatInt:      primitive("float_int", 8, 8),
	TypeDoubleInt:     primitive("double_int", 12, 16),
	TypeLongInt:       primitive("long_int", 12, 16),
	TypeShortInt:      primitive("short_int", 6, 8),
	TypeLongDoubleInt: primitive("long_double_int", 20, 32),
}

func primitive(name string, size, extent int64) layout {
	return layout{
		name:    name,
		blocks:  []block{{off: 0, len: size}},
		size:    size,
		ub:      extent,
		extent:  extent,
		bounded: true,
	}
}

// iovLen counts runs for count consecutive instances, merging the tail of one
// instance with the head of the next when they touch.
func (l *layout) iovLen(count uint64) uint64 {
	n := uint64(len(l.blocks))
	if n == 0 || count == 0 {
		return 0
	}
	total := count * n
	first, last := l.blocks[0], l.blocks[len(l.blocks)-1]
	if last.off+last.len == l.extent+first.off {
		total -= count - 1
	}
	return total
}

// appendShifted appends src moved by shift bytes, merging with the previous
// run when adjacent.
func appendShifted(dst []block, src []block, shift int64) []block {
	for _, b := range src {
		b.off += shift
		if k := len(dst) - 1; k >= 0 && dst[k].off+dst[k].len == b.off {
			dst[k].len += b.len
			continue
		}
		dst = append(dst, b)
	}
	return dst
}
