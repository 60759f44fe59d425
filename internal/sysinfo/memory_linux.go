// file: internal/sysinfo/memory_linux.go
// version: 2.0.0
// guid: 9c0d1e2f-3a4b-5c6d-7e8f-9a0b1c2d3e4f

//go:build linux

package sysinfo

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// getTotalMemoryPlatform returns total system memory on Linux
func getTotalMemoryPlatform() uint64 {
	return readMeminfo("MemTotal:")
}

// getAvailableMemoryPlatform returns available system memory on Linux
func getAvailableMemoryPlatform() uint64 {
	return readMeminfo("MemAvailable:")
}

// readMeminfo returns the /proc/meminfo value for key in bytes, or 0.
func readMeminfo(key string) uint64 {
	file, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != key {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb * 1024
	}
	return 0
}
