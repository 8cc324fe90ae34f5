package record

import (
	"github.com/earthscope-oss/dataselect/circular"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
)

// Map is a time-ordered chain of record descriptors owned by one trace.
// Descriptors live in an arena slice and are addressed by Handle; the
// chain itself is just prev/next handles stored on each Descriptor.
type Map struct {
	arena       []Descriptor
	first, last Handle
	count       int
}

// NewMap returns an empty record-map.
func NewMap() *Map {
	return &Map{first: Nil, last: Nil}
}

// Len returns the number of descriptors in the map, including deleted ones.
func (m *Map) Len() int { return m.count }

// First returns the handle of the first (earliest) descriptor, or Nil if empty.
func (m *Map) First() Handle { return m.first }

// Last returns the handle of the last (latest) descriptor, or Nil if empty.
func (m *Map) Last() Handle { return m.last }

// At returns a pointer to the descriptor for h. The pointer is valid only
// until the next Append/Prepend grows the arena.
func (m *Map) At(h Handle) *Descriptor {
	return &m.arena[h]
}

// Next returns the handle following h, or Nil at the end of the chain.
func (m *Map) Next(h Handle) Handle { return m.arena[h].next }

// Prev returns the handle preceding h, or Nil at the start of the chain.
func (m *Map) Prev(h Handle) Handle { return m.arena[h].prev }

func (m *Map) grow(d Descriptor) Handle {
	if len(m.arena) == cap(m.arena) {
		newCap := circular.NextExp2(len(m.arena) + 1)
		grown := make([]Descriptor, len(m.arena), newCap)
		copy(grown, m.arena)
		m.arena = grown
	}
	m.arena = append(m.arena, d)
	return Handle(len(m.arena) - 1)
}

// AppendTail inserts a new descriptor at the tail of the chain and returns
// its handle.
func (m *Map) AppendTail(file *File, offset int64, length int32, start, end hptime.HPT, q quality.Quality) Handle {
	h := m.grow(newDescriptor(file, offset, length, start, end, q))
	m.linkTail(h)
	return h
}

// PrependHead inserts a new descriptor at the head of the chain and
// returns its handle.
func (m *Map) PrependHead(file *File, offset int64, length int32, start, end hptime.HPT, q quality.Quality) Handle {
	h := m.grow(newDescriptor(file, offset, length, start, end, q))
	m.linkHead(h)
	return h
}

func (m *Map) linkTail(h Handle) {
	d := &m.arena[h]
	d.prev = m.last
	d.next = Nil
	if m.last != Nil {
		m.arena[m.last].next = h
	} else {
		m.first = h
	}
	m.last = h
	m.count++
}

func (m *Map) linkHead(h Handle) {
	d := &m.arena[h]
	d.next = m.first
	d.prev = Nil
	if m.first != Nil {
		m.arena[m.first].prev = h
	} else {
		m.last = h
	}
	m.first = h
	m.count++
}

// InsertAfter splices a newly-allocated descriptor immediately after prev in
// the chain, used by the boundary splitter to link a fragment sibling
// without disturbing the rest of the order.
func (m *Map) InsertAfter(prev Handle, file *File, offset int64, length int32, start, end hptime.HPT, q quality.Quality) Handle {
	h := m.grow(newDescriptor(file, offset, length, start, end, q))
	nd := &m.arena[h]
	next := m.arena[prev].next
	nd.prev = prev
	nd.next = next
	m.arena[prev].next = h
	if next != Nil {
		m.arena[next].prev = h
	} else {
		m.last = h
	}
	m.count++
	return h
}

// MarkDeleted sets the descriptor's reclen to 0. The descriptor survives in
// the chain rather than being removed from it.
func (m *Map) MarkDeleted(h Handle) {
	m.arena[h].Length = 0
}

// SetNewStart records a trim mark on the descriptor at h.
func (m *Map) SetNewStart(h Handle, t hptime.HPT) {
	m.arena[h].NewStart = t
}

// SetNewEnd records a trim mark on the descriptor at h.
func (m *Map) SetNewEnd(h Handle, t hptime.HPT) {
	m.arena[h].NewEnd = t
}

// IterateInOrder calls fn for every descriptor from first to last. It stops
// early if fn returns false.
func (m *Map) IterateInOrder(fn func(h Handle, d *Descriptor) bool) {
	for h := m.first; h != Nil; h = m.arena[h].next {
		if !fn(h, &m.arena[h]) {
			return
		}
	}
}
