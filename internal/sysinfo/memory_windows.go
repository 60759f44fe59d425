// file: internal/sysinfo/memory_windows.go
// version: 2.0.0
// guid: 0d1e2f3a-4b5c-6d7e-8f9a-0b1c2d3e4f5a

//go:build windows

package sysinfo

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// memoryStatusEx mirrors MEMORYSTATUSEX.
type memoryStatusEx struct {
	length               uint32
	memoryLoad           uint32
	totalPhys            uint64
	availPhys            uint64
	totalPageFile        uint64
	availPageFile        uint64
	totalVirtual         uint64
	availVirtual         uint64
	availExtendedVirtual uint64
}

var procGlobalMemoryStatusEx = windows.NewLazySystemDLL("kernel32.dll").NewProc("GlobalMemoryStatusEx")

// physicalMemory returns total and available physical memory, or zeros
// when the call fails.
func physicalMemory() (total, available uint64) {
	if procGlobalMemoryStatusEx.Find() != nil {
		return 0, 0
	}
	status := memoryStatusEx{}
	status.length = uint32(unsafe.Sizeof(status))
	ret, _, _ := procGlobalMemoryStatusEx.Call(uintptr(unsafe.Pointer(&status)))
	if ret == 0 {
		return 0, 0
	}
	return status.totalPhys, status.availPhys
}

func getTotalMemoryPlatform() uint64 {
	total, _ := physicalMemory()
	return total
}

func getAvailableMemoryPlatform() uint64 {
	_, available := physicalMemory()
	return available
}
