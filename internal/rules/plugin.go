package rules

import (
	"fmt"
	"path/filepath"
	"strings"
)

// binding owns one loaded shared library and the rule function resolved
// from it. The zero value is unloaded.
type binding struct {
	handle uintptr
	fn     func(*int32) int32
}

// load opens the first loadable candidate for base and binds symbol with
// the rule function signature. Any previously loaded library is released
// first; on failure the binding is left unloaded.
func (b *binding) load(base, symbol string) error {
	b.unload()

	candidates := libraryCandidates(base)
	var handle uintptr
	var opened string
	var lastErr error
	for _, path := range candidates {
		h, err := openLibrary(path)
		if err != nil {
			lastErr = err
			continue
		}
		handle, opened = h, path
		break
	}
	if handle == 0 {
		return fmt.Errorf("rules: no loadable library for %q (tried %s): %w",
			base, strings.Join(candidates, ", "), lastErr)
	}

	fn, err := resolveUpdate(handle, symbol)
	if err != nil {
		_ = closeLibrary(handle)
		return fmt.Errorf("rules: resolve symbol %q in %s: %w", symbol, opened, err)
	}

	b.handle = handle
	b.fn = fn
	return nil
}

// call invokes the bound rule function. An empty pattern passes a nil
// pointer; handling that is part of the plugin's contract, not ours.
func (b *binding) call(pattern []int32) int32 {
	var p *int32
	if len(pattern) > 0 {
		p = &pattern[0]
	}
	return b.fn(p)
}

func (b *binding) loaded() bool { return b.fn != nil }

// unload releases the library handle. Safe to call when already unloaded.
func (b *binding) unload() {
	if b.handle != 0 {
		_ = closeLibrary(b.handle)
	}
	b.handle = 0
	b.fn = nil
}

// libraryCandidates expands a configured path base into the file names
// tried in order. A base that already carries an extension is used
// verbatim; otherwise the platform prefix/extension patterns apply. A bare
// name is first tried relative to the working directory so a plugin sitting
// next to the binary wins over the system loader's search path.
func libraryCandidates(base string) []string {
	if filepath.Ext(base) != "" {
		return []string{base}
	}
	dir, name := filepath.Split(base)
	out := make([]string, 0, 2*len(libraryPatterns))
	for _, pat := range libraryPatterns {
		file := fmt.Sprintf(pat, name)
		if dir == "" {
			out = append(out, "./"+file, file)
			continue
		}
		out = append(out, filepath.Join(dir, file))
	}
	return out
}
