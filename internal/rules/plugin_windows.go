//go:build windows

package rules

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var libraryPatterns = []string{"%s.dll", "lib%s.dll"}

func openLibrary(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func closeLibrary(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}

func resolveUpdate(handle uintptr, symbol string) (func(*int32) int32, error) {
	addr, err := windows.GetProcAddress(windows.Handle(handle), symbol)
	if err != nil {
		return nil, err
	}
	fn := func(states *int32) int32 {
		r1, _, _ := syscall.SyscallN(addr, uintptr(unsafe.Pointer(states)))
		return int32(r1)
	}
	return fn, nil
}
