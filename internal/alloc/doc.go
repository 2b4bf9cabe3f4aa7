// Package alloc assigns file offsets when a shotfile is written.
//
// The write path places regions in a fixed order: the header table, the
// SIGNALS list, the parameter set payloads and finally the array payloads.
// [Allocator] hands out append-only addresses for these regions, records
// each one with a tag naming the object it belongs to, and checks the
// finished layout with [Allocator.Validate] before anything is written.
//
//	a := alloc.New(0)
//	a.AllocTagged(uint64(n)*128, "headers")
//	addr := a.AllocAligned(size, 8, "Ipa")
//	if err := a.Validate(8); err != nil { ... }
package alloc
