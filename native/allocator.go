package native

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	hostconv "github.com/wippyai/hostconv"
	"github.com/wippyai/hostconv/errors"
)

const (
	pageSize = 65536

	// heapBase keeps address 0 out of the heap so a zero pointer always
	// means "no value".
	heapBase = 8
)

type span struct {
	start uint32
	end   uint32
}

// GrowableMemory is linear memory that can be extended by whole pages.
type GrowableMemory interface {
	hostconv.MemorySizer
	Grow(delta uint32) (previousPages uint32, ok bool)
}

// Allocator is a first-fit allocator over linear memory. It grows memory
// when no free span fits. Safe for concurrent use.
type Allocator struct {
	mem   GrowableMemory
	live  map[uint32]uint32
	free  []span
	inUse uint32
	mu    sync.Mutex
}

// NewAllocator manages mem from heapBase up to its current size.
func NewAllocator(mem GrowableMemory) *Allocator {
	a := &Allocator{mem: mem, live: make(map[uint32]uint32)}
	if size := mem.Size(); size > heapBase {
		a.free = append(a.free, span{start: heapBase, end: size})
	}
	return a
}

func alignUp(v, align uint32) uint64 {
	return (uint64(v) + uint64(align) - 1) &^ (uint64(align) - 1)
}

// Alloc reserves size bytes aligned to align, which must be a power of two.
// Zero-sized requests still return a unique non-zero pointer.
func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.InvalidValue(errors.PhaseLower, align, "alignment %d is not a power of two", align)
	}
	if size == 0 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if ptr, ok := a.take(size, align); ok {
		return ptr, nil
	}
	if err := a.grow(size, align); err != nil {
		return 0, err
	}
	if ptr, ok := a.take(size, align); ok {
		return ptr, nil
	}
	return 0, errors.AllocationFailed(errors.PhaseLower, size, align)
}

func (a *Allocator) take(size, align uint32) (uint32, bool) {
	for i, s := range a.free {
		start := alignUp(s.start, align)
		end := start + uint64(size)
		if end > uint64(s.end) {
			continue
		}

		rest := make([]span, 0, 2)
		if uint32(start) > s.start {
			rest = append(rest, span{start: s.start, end: uint32(start)})
		}
		if uint32(end) < s.end {
			rest = append(rest, span{start: uint32(end), end: s.end})
		}
		a.free = append(a.free[:i], append(rest, a.free[i+1:]...)...)
		a.live[uint32(start)] = size
		a.inUse += size
		return uint32(start), true
	}
	return 0, false
}

func (a *Allocator) grow(size, align uint32) error {
	need := uint64(size) + uint64(align)
	pages := uint32((need + pageSize - 1) / pageSize)

	prev, ok := a.mem.Grow(pages)
	if !ok {
		Logger().Debug("linear memory grow failed",
			zap.Uint32("pages", pages),
			zap.Uint32("size", size))
		return errors.AllocationFailed(errors.PhaseLower, size, align)
	}
	start := prev * pageSize
	if start < heapBase {
		start = heapBase
	}
	a.insert(span{start: start, end: a.mem.Size()})
	return nil
}

// Free returns a block obtained from Alloc. Freeing a zero pointer is a
// no-op. A pointer that is not live, or a size that does not match the
// allocation, is logged and ignored.
func (a *Allocator) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if size == 0 {
		size = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	liveSize, ok := a.live[ptr]
	if !ok || liveSize != size {
		Logger().Warn("ignoring free of a block that is not allocated",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Uint32("align", align),
			zap.Uint32("live_size", liveSize))
		return
	}
	delete(a.live, ptr)
	a.inUse -= size
	a.insert(span{start: ptr, end: ptr + size})
}

// insert adds s to the free list, merging adjacent spans.
func (a *Allocator) insert(s span) {
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].start >= s.start })
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = s

	if i+1 < len(a.free) && a.free[i].end == a.free[i+1].start {
		a.free[i].end = a.free[i+1].end
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].end == a.free[i].start {
		a.free[i-1].end = a.free[i].end
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

// InUse returns the number of bytes currently allocated.
func (a *Allocator) InUse() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Live returns the number of blocks currently allocated.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// FreeSpans returns the number of disjoint free regions.
func (a *Allocator) FreeSpans() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free)
}

var _ hostconv.Allocator = (*Allocator)(nil)
