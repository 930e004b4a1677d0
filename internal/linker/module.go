package linker

import "unsafe"

// Handle is the opaque identifier the façade returns from load and accepts
// from lookup/unload. It is the module's base address reinterpreted as a
// handle, mirroring the soinfo-pointer-as-handle convention.
type Handle uintptr

// Sentinel handles recognised by lookup.
const (
	// Default routes lookup through the global (all-modules) search.
	Default Handle = 0
	// Next requests RTLD_NEXT-style "search starting after the caller's
	// own module" semantics, which this core does not implement.
	Next Handle = ^Handle(0)
)

// Flag bits accepted by Load, mirroring mini_dlfcn.h. Only NOW/LAZY and
// LOCAL/GLOBAL are recognised; LAZY degrades to NOW and LOCAL/GLOBAL are
// accepted without gating global-lookup visibility (see DESIGN.md).
type Flag int

const (
	Lazy   Flag = 0x0001
	Now    Flag = 0x0002
	Local  Flag = 0x0000
	Global Flag = 0x0100
)

// segment is a mapped PT_LOAD region, recorded for diagnostics and for the
// BSS/zero-fill bookkeeping carried out at load time.
type segment struct {
	vaddr  uint64
	memsz  uint64
	filesz uint64
	flags  uint32
}

// Module is the linker's per-library handle, grounded on the soinfo_t
// layout.
type Module struct {
	Name string

	baseAddr uintptr // start of the reserved mapping region
	size     uintptr // page-aligned span covering every PT_LOAD
	bias     uintptr // baseAddr - page_floor(min_vaddr)

	mapping []byte // the live host mapping, len == size

	segments []segment

	phdrAddr uintptr
	phnum    int

	dynamic uintptr // address of the first Elf64_Dyn entry

	symtab    uintptr
	strtab    uintptr
	strtabSz  uint64
	numSyms   int // derived count, 0 if unknown (linear-scan fallback applies)

	elfHash uintptr // 0 if absent
	gnuHash uintptr // 0 if absent

	rela         uintptr
	relaCount    int
	pltRela      uintptr
	pltRelaCount int

	initFunc     uintptr
	finiFunc     uintptr
	initArray    uintptr
	initArrayLen int
	finiArray    uintptr
	finiArrayLen int

	refCount int
	seq      uint64 // load sequence number, diagnostics only

	flags Flag
}

// Handle returns the module's opaque handle.
func (m *Module) Handle() Handle {
	return Handle(m.baseAddr)
}

// BaseAddr returns the module's mapping base address.
func (m *Module) BaseAddr() uintptr { return m.baseAddr }

// Bias returns the module's load bias.
func (m *Module) Bias() uintptr { return m.bias }

// Size returns the total mapped size.
func (m *Module) Size() uintptr { return m.size }

// bytes returns the live mapping as a byte slice rooted at baseAddr.
func (m *Module) bytes() []byte {
	return m.mapping
}

// ptr converts an absolute in-process address within this module's mapping
// to an unsafe.Pointer, for use by the relocation and invocation layers.
func (m *Module) ptr(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr) //nolint:govet
}

// contains reports whether addr lies within this module's reserved span.
func (m *Module) contains(addr uintptr) bool {
	return addr >= m.baseAddr && addr < m.baseAddr+m.size
}
