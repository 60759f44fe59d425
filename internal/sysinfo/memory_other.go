// file: internal/sysinfo/memory_other.go
// version: 1.0.0
// guid: 5f2a8c1e-7d4b-4e93-b0a6-3c9e1d7f2b84

//go:build !linux && !darwin && !windows

package sysinfo

// Host memory is unknown here; callers fall back to runtime figures.
func getTotalMemoryPlatform() uint64 { return 0 }

func getAvailableMemoryPlatform() uint64 { return 0 }
