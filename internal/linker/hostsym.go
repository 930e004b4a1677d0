package linker

import "github.com/ebitengine/purego"

// This file is the D3 "host platform loader" bridge: the core's only
// coupling with the surrounding runtime, used by the C4 global-fallback
// path so an unresolved reference resolves against whatever the host's own
// dynamic loader already has mapped - mirroring dlsym(RTLD_DEFAULT, name).
//
// Asking purego's own Dlsym/RTLD_DEFAULT (the same cgo-free loader this
// package already uses in initfini.go/invoke.go to call resolved addresses)
// also gets IFUNC-exported symbols right: glibc exports memcpy, strlen, and
// friends as STT_GNU_IFUNC, so only the real platform loader's resolver -
// not a raw symbol-table value read out of /proc/self/maps - returns the
// selected implementation.
func resolveHostSymbol(name string) (uintptr, bool) {
	addr, err := purego.Dlsym(purego.RTLD_DEFAULT, name)
	if err != nil {
		return 0, false
	}
	return addr, true
}
