package native

import (
	"fmt"
	"strings"

	hostconv "github.com/wippyai/hostconv"
)

// Allocation is one block written for a named argument.
type Allocation struct {
	Label string
	Ptr   uint32
	Size  uint32
	Align uint32
}

func (a Allocation) String() string {
	return fmt.Sprintf("%s@%#x+%d", a.Label, a.Ptr, a.Size)
}

// AllocationList records the blocks lowered for one native call so they can
// be freed together once the call has returned. The zero value is ready to
// use. It is not safe for concurrent use; Arena serializes access.
type AllocationList struct {
	allocations []Allocation
}

// Add records a block written for the argument named label.
func (al *AllocationList) Add(label string, ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{Label: label, Ptr: ptr, Size: size, Align: align})
}

// Lookup returns the recorded block that contains ptr.
func (al *AllocationList) Lookup(ptr uint32) (Allocation, bool) {
	for _, a := range al.allocations {
		if a.Ptr != 0 && ptr >= a.Ptr && uint64(ptr) < uint64(a.Ptr)+uint64(a.Size) {
			return a, true
		}
	}
	return Allocation{}, false
}

// Snapshot returns a copy of the recorded blocks in allocation order.
func (al *AllocationList) Snapshot() []Allocation {
	return append([]Allocation(nil), al.allocations...)
}

// Free returns every recorded block to allocator in reverse order and
// empties the list. A nil allocator only empties it.
func (al *AllocationList) Free(allocator hostconv.Allocator) {
	if allocator != nil {
		for i := len(al.allocations) - 1; i >= 0; i-- {
			if a := al.allocations[i]; a.Ptr != 0 {
				allocator.Free(a.Ptr, a.Size, a.Align)
			}
		}
	}
	al.allocations = al.allocations[:0]
}

// Len returns the number of recorded blocks.
func (al *AllocationList) Len() int {
	return len(al.allocations)
}

// Bytes returns the total size of the recorded blocks.
func (al *AllocationList) Bytes() uint32 {
	var n uint32
	for _, a := range al.allocations {
		n += a.Size
	}
	return n
}

// String lists the recorded blocks as label@ptr+size.
func (al *AllocationList) String() string {
	parts := make([]string, len(al.allocations))
	for i, a := range al.allocations {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
