// file: internal/sysinfo/memory_darwin.go
// version: 2.0.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

//go:build darwin

package sysinfo

import (
	"golang.org/x/sys/unix"
)

// getTotalMemoryPlatform returns hw.memsize, or 0 when sysctl fails.
func getTotalMemoryPlatform() uint64 {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return total
}

// getAvailableMemoryPlatform counts free and speculative pages. Inactive
// pages are left out, so the figure errs low and export size checks stay
// on the safe side.
func getAvailableMemoryPlatform() uint64 {
	free, err := unix.SysctlUint32("vm.page_free_count")
	if err != nil {
		return 0
	}
	speculative, err := unix.SysctlUint32("vm.page_speculative_count")
	if err != nil {
		speculative = 0
	}
	return (uint64(free) + uint64(speculative)) * uint64(unix.Getpagesize())
}
