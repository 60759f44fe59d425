// file: internal/sysinfo/memory_test.go
// version: 2.1.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package sysinfo

import (
	"testing"
)

func withProviders(t *testing.T, total, available uint64) {
	t.Helper()
	originalTotal := totalMemoryProvider
	originalAvailable := availableMemoryProvider
	t.Cleanup(func() {
		totalMemoryProvider = originalTotal
		availableMemoryProvider = originalAvailable
	})
	totalMemoryProvider = func() uint64 { return total }
	availableMemoryProvider = func() uint64 { return available }
}

func TestGetTotalMemoryOverride(t *testing.T) {
	withProviders(t, 123, 0)
	if got := GetTotalMemory(); got != 123 {
		t.Errorf("expected overridden total memory 123, got %d", got)
	}
}

func TestGetMemoryStats(t *testing.T) {
	stats, err := GetMemoryStats()
	if err != nil {
		t.Fatalf("GetMemoryStats failed: %v", err)
	}
	if stats.UsedPercent < 0 || stats.UsedPercent > 100 {
		t.Errorf("Used percent should be between 0 and 100, got %.2f", stats.UsedPercent)
	}
	if stats.TotalBytes > 0 && stats.AvailableBytes > stats.TotalBytes {
		t.Error("Available bytes should not exceed total bytes")
	}
	if stats.HeapBytes == 0 {
		t.Error("expected heap usage to be reported")
	}
	if stats.Goroutines < 1 {
		t.Errorf("expected at least one goroutine, got %d", stats.Goroutines)
	}
}

func TestGetMemoryStatsComputed(t *testing.T) {
	withProviders(t, 8<<30, 2<<30)

	stats, err := GetMemoryStats()
	if err != nil {
		t.Fatalf("GetMemoryStats failed: %v", err)
	}
	if stats.UsedBytes != 6<<30 {
		t.Errorf("expected 6GiB used, got %d", stats.UsedBytes)
	}
	if stats.UsedPercent != 75 {
		t.Errorf("expected 75%% used, got %.2f", stats.UsedPercent)
	}
}

func TestGetMemoryStatsClampsAvailable(t *testing.T) {
	withProviders(t, 100, 500)

	stats, err := GetMemoryStats()
	if err != nil {
		t.Fatalf("GetMemoryStats failed: %v", err)
	}
	if stats.AvailableBytes != 100 || stats.UsedBytes != 0 {
		t.Errorf("expected available clamped to total, got %+v", stats)
	}
}

func TestGetMemoryStatsFallback(t *testing.T) {
	withProviders(t, 0, 0)

	stats, err := GetMemoryStats()
	if err != nil {
		t.Fatalf("GetMemoryStats fallback failed: %v", err)
	}
	if stats.TotalBytes != 0 || stats.AvailableBytes != 0 {
		t.Errorf("expected no host figures in fallback, got %+v", stats)
	}
	if stats.UsedPercent != 0 {
		t.Errorf("expected UsedPercent 0 in fallback, got %.2f", stats.UsedPercent)
	}
	if stats.UsedBytes == 0 {
		t.Error("expected runtime Sys bytes in fallback")
	}
}

func TestFitsInMemory(t *testing.T) {
	withProviders(t, 1000, 400)
	if !FitsInMemory(100, 0.25) {
		t.Error("100 bytes should fit in a quarter of 400")
	}
	if FitsInMemory(101, 0.25) {
		t.Error("101 bytes should not fit in a quarter of 400")
	}

	withProviders(t, 0, 0)
	if !FitsInMemory(1<<40, 0.25) {
		t.Error("unknown memory should not block allocation")
	}
}

func TestPlatformMemoryIsConsistent(t *testing.T) {
	total := getTotalMemoryPlatform()
	available := getAvailableMemoryPlatform()
	if total == 0 {
		t.Skip("host memory not reported on this platform")
	}
	if available > total {
		t.Errorf("available %d exceeds total %d", available, total)
	}
}
