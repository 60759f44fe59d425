// file: internal/sysinfo/memory.go
// version: 2.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package sysinfo

import (
	"runtime"
)

// totalMemoryProvider allows tests to override platform memory queries.
var totalMemoryProvider = getTotalMemoryPlatform

// availableMemoryProvider allows tests to override platform memory queries.
var availableMemoryProvider = getAvailableMemoryPlatform

// GetTotalMemory returns the total system memory in bytes.
// Returns 0 if unable to determine (will be implemented per-platform).
func GetTotalMemory() uint64 {
	return totalMemoryProvider()
}

// MemoryStats is the host memory picture plus this process's heap, as
// shown on the system status endpoint.
type MemoryStats struct {
	TotalBytes     uint64  `json:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	UsedPercent    float64 `json:"used_percent"`
	HeapBytes      uint64  `json:"heap_bytes"`
	Goroutines     int     `json:"goroutines"`
}

// GetMemoryStats returns current system memory statistics
func GetMemoryStats() (*MemoryStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	total := totalMemoryProvider()
	if total == 0 {
		// Fallback to runtime stats only
		return &MemoryStats{
			UsedBytes:  m.Sys,
			HeapBytes:  m.HeapAlloc,
			Goroutines: runtime.NumGoroutine(),
		}, nil
	}

	available := min(availableMemoryProvider(), total)
	used := total - available
	usedPercent := 0.0
	if total > 0 {
		usedPercent = float64(used) / float64(total) * 100.0
	}

	return &MemoryStats{
		TotalBytes:     total,
		AvailableBytes: available,
		UsedBytes:      used,
		UsedPercent:    usedPercent,
		HeapBytes:      m.HeapAlloc,
		Goroutines:     runtime.NumGoroutine(),
	}, nil
}

// FitsInMemory reports whether size bytes stay within fraction of the
// currently available memory. It returns true when the platform cannot
// say.
func FitsInMemory(size uint64, fraction float64) bool {
	if totalMemoryProvider() == 0 {
		return true
	}
	available := availableMemoryProvider()
	if available == 0 {
		return true
	}
	return float64(size) <= float64(available)*fraction
}
