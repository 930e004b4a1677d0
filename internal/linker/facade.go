package linker

// DefaultRegistry is the process-wide linker state backing the package-level
// Dlopen/Dlsym/Dlclose/Dlerror façade, mirroring a single global linker
// instance.
var DefaultRegistry = NewRegistry()

// Dlopen loads path and runs its constructors, returning an opaque handle.
// flags is accepted for compatibility; only NOW/LAZY (lazy degrades to
// immediate) and LOCAL/GLOBAL (both treated as visible to global lookup,
// see DESIGN.md) are recognised.
func Dlopen(path string, flags Flag) Handle {
	m, err := DefaultRegistry.Load(path, flags)
	if err != nil {
		return 0
	}
	return m.Handle()
}

// Dlsym resolves symbol against handle, or against every loaded module plus
// the host platform loader when handle is Default.
func Dlsym(handle Handle, symbol string) uintptr {
	addr, err := DefaultRegistry.Lookup(handle, symbol)
	if err != nil {
		return 0
	}
	return addr
}

// Dlclose decrements handle's reference count, releasing it at zero.
// Returns 0 on success, non-zero on failure (matching the C contract).
func Dlclose(handle Handle) int {
	if err := DefaultRegistry.Unload(handle); err != nil {
		return -1
	}
	return 0
}

// Dlerror returns the last error message, clearing it (one-shot, matching
// the platform dlerror contract). Returns "", false when there is none.
func Dlerror() (string, bool) {
	return DefaultRegistry.takeError()
}
