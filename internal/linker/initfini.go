//go:build linux && amd64

package linker

import "github.com/ebitengine/purego"

// isValidFuncPtr rejects null and the all-ones sentinel some toolchains
// emit at init/fini array boundaries, matching is_valid_func_ptr.
func isValidFuncPtr(addr uintptr) bool {
	return addr != 0 && addr != ^uintptr(0)
}

// callNullary invokes a raw code address as a nullary void function,
// preserving the platform calling-convention ABI via purego's trampoline
// rather than casting a Go function value over the address directly.
func callNullary(addr uintptr) {
	var fn func()
	purego.RegisterFunc(&fn, addr)
	fn()
}

// callConstructors is the load half of C6: DT_INIT, then DT_INIT_ARRAY
// ascending.
func callConstructors(m *Module) {
	if isValidFuncPtr(m.initFunc) {
		logger.CtorCall(m.Name, "init", -1, uint64(m.initFunc))
		callNullary(m.initFunc)
	}
	for i := 0; i < m.initArrayLen; i++ {
		addr := readU64(m.initArray + uintptr(i)*8)
		if !isValidFuncPtr(uintptr(addr)) {
			continue
		}
		logger.CtorCall(m.Name, "init_array", i, addr)
		callNullary(uintptr(addr))
	}
}

// callDestructors is the unload half of C6: DT_FINI_ARRAY descending, then
// DT_FINI.
func callDestructors(m *Module) {
	for i := m.finiArrayLen - 1; i >= 0; i-- {
		addr := readU64(m.finiArray + uintptr(i)*8)
		if !isValidFuncPtr(uintptr(addr)) {
			continue
		}
		logger.CtorCall(m.Name, "fini_array", i, addr)
		callNullary(uintptr(addr))
	}
	if isValidFuncPtr(m.finiFunc) {
		logger.CtorCall(m.Name, "fini", -1, uint64(m.finiFunc))
		callNullary(m.finiFunc)
	}
}
