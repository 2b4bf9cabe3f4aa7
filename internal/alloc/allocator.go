package alloc

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors
var (
	ErrOverlap    = errors.New("overlapping regions")
	ErrMisaligned = errors.New("misaligned region")
	ErrBounds     = errors.New("region out of bounds")
)

// Allocator manages offsets within a shotfile being written.
type Allocator struct {
	mu sync.Mutex

	// eofAddr is the next allocation point
	eofAddr uint64

	// baseAddr is the minimum address that can be allocated
	baseAddr uint64

	allocations []Allocation

	stats Stats
}

// Allocation is one placed region.
type Allocation struct {
	Addr uint64
	Size uint64
	Tag  string
}

// End returns the first address past the region.
func (a Allocation) End() uint64 {
	return a.Addr + a.Size
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64
	TotalBytesAlloc  uint64
	// TotalPadding counts bytes skipped to satisfy alignment.
	TotalPadding uint64
	LargestAlloc uint64
}

// New creates an Allocator starting at the given base address.
func New(baseAddr uint64) *Allocator {
	return &Allocator{
		eofAddr:  baseAddr,
		baseAddr: baseAddr,
	}
}

// AllocTagged places a region at the current end of file.
// Zero-sized requests return the current end without recording a region.
func (a *Allocator) AllocTagged(size uint64, tag string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.allocLocked(size, tag)
}

func (a *Allocator) allocLocked(size uint64, tag string) uint64 {
	if size == 0 {
		return a.eofAddr
	}

	addr := a.eofAddr
	a.eofAddr += size

	a.allocations = append(a.allocations, Allocation{
		Addr: addr,
		Size: size,
		Tag:  tag,
	})

	a.stats.TotalAllocations++
	a.stats.TotalBytesAlloc += size
	if size > a.stats.LargestAlloc {
		a.stats.LargestAlloc = size
	}

	return addr
}

// AllocAligned places a region at the next multiple of alignment.
// The end of file is advanced to the next boundary past the region, so
// consecutive aligned regions are padded apart.
func (a *Allocator) AllocAligned(size, alignment uint64, tag string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if alignment <= 1 {
		return a.allocLocked(size, tag)
	}

	a.padLocked(alignment)
	addr := a.allocLocked(size, tag)
	a.padLocked(alignment)
	return addr
}

func (a *Allocator) padLocked(alignment uint64) {
	if remainder := a.eofAddr % alignment; remainder != 0 {
		padding := alignment - remainder
		a.eofAddr += padding
		a.stats.TotalPadding += padding
	}
}

// EOFAddr returns the current end-of-file address.
func (a *Allocator) EOFAddr() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eofAddr
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Allocations returns a copy of all regions in allocation order.
func (a *Allocator) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make([]Allocation, len(a.allocations))
	copy(result, a.allocations)
	return result
}

// Validate checks that every region starts on a multiple of alignment,
// lies within [base, EOF) and overlaps no other region.
func (a *Allocator) Validate(alignment uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.allocations {
		if r.Addr < a.baseAddr || r.End() > a.eofAddr {
			return fmt.Errorf("%w: %s at 0x%x size %d, bounds [0x%x, 0x%x)",
				ErrBounds, r.Tag, r.Addr, r.Size, a.baseAddr, a.eofAddr)
		}
		if alignment > 1 && r.Addr%alignment != 0 {
			return fmt.Errorf("%w: %s at 0x%x is not %d-byte aligned", ErrMisaligned, r.Tag, r.Addr, alignment)
		}
	}

	sorted := make([]Allocation, len(a.allocations))
	copy(sorted, a.allocations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Addr < sorted[j].Addr })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Addr < prev.End() {
			return fmt.Errorf("%w: %s [0x%x, size %d] and %s [0x%x, size %d]",
				ErrOverlap, prev.Tag, prev.Addr, prev.Size, cur.Tag, cur.Addr, cur.Size)
		}
	}

	return nil
}
