//go:build darwin || freebsd || linux

package rules

import "github.com/ebitengine/purego"

var libraryPatterns = []string{"lib%s.so", "lib%s.dylib"}

func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}

func resolveUpdate(handle uintptr, symbol string) (func(*int32) int32, error) {
	addr, err := purego.Dlsym(handle, symbol)
	if err != nil {
		return nil, err
	}
	var fn func(*int32) int32
	purego.RegisterFunc(&fn, addr)
	return fn, nil
}
