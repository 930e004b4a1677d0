package linker

import (
	"debug/elf"
	"unsafe"
)

// elf64Sym mirrors Elf64_Sym's on-disk/in-memory layout exactly.
type elf64Sym struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Value uint64
	Size  uint64
}

const symEntSize = unsafe.Sizeof(elf64Sym{})

// elf64Rela mirrors Elf64_Rela.
type elf64Rela struct {
	Offset uint64
	Info   uint64
	Addend int64
}

const relaEntSize = unsafe.Sizeof(elf64Rela{})

func symAt(addr uintptr, idx int) *elf64Sym {
	return (*elf64Sym)(unsafe.Pointer(addr + uintptr(idx)*symEntSize))
}

func relaAt(addr uintptr, idx int) *elf64Rela {
	return (*elf64Rela)(unsafe.Pointer(addr + uintptr(idx)*relaEntSize))
}

func relaType(info uint64) uint32   { return uint32(info) }
func relaSymIdx(info uint64) uint32 { return uint32(info >> 32) }

// parseDynamic is the C3 dynamic-section parser: it walks PT_DYNAMIC in the
// already-mapped module image and binds the tags the rest of the core
// needs, exactly as linker.c's parse_dynamic does.
func parseDynamic(v *file, m *Module) error {
	dynProg := v.dynamicSegment()
	if dynProg == nil {
		return newError(MissingSymbolTable, m.Name, "no PT_DYNAMIC segment", nil)
	}

	m.dynamic = m.bias + uintptr(dynProg.Vaddr)

	var (
		relaSz, relaEnt          uint64
		pltRelaSz                uint64
		initArraySz, finiArraySz uint64
	)

	const dtTagSize = 16 // sizeof(Elf64_Dyn)
	for i := 0; ; i++ {
		entryAddr := m.dynamic + uintptr(i)*dtTagSize
		tag := elf.DynTag(readI64(entryAddr))
		val := readU64(entryAddr + 8)
		if tag == elf.DT_NULL {
			break
		}

		switch tag {
		case elf.DT_SYMTAB:
			m.symtab = m.bias + uintptr(val)
		case elf.DT_STRTAB:
			m.strtab = m.bias + uintptr(val)
		case elf.DT_STRSZ:
			m.strtabSz = val
		case elf.DT_HASH:
			m.elfHash = m.bias + uintptr(val)
		case elf.DT_GNU_HASH:
			m.gnuHash = m.bias + uintptr(val)
		case elf.DT_RELA:
			m.rela = m.bias + uintptr(val)
		case elf.DT_RELASZ:
			relaSz = val
		case elf.DT_RELAENT:
			relaEnt = val
		case elf.DT_JMPREL:
			m.pltRela = m.bias + uintptr(val)
		case elf.DT_PLTRELSZ:
			pltRelaSz = val
		case elf.DT_INIT:
			m.initFunc = m.bias + uintptr(val)
		case elf.DT_FINI:
			m.finiFunc = m.bias + uintptr(val)
		case elf.DT_INIT_ARRAY:
			m.initArray = m.bias + uintptr(val)
		case elf.DT_INIT_ARRAYSZ:
			initArraySz = val
		case elf.DT_FINI_ARRAY:
			m.finiArray = m.bias + uintptr(val)
		case elf.DT_FINI_ARRAYSZ:
			finiArraySz = val
		}
	}

	if relaEnt == 0 {
		relaEnt = uint64(relaEntSize)
	}
	if m.rela != 0 && relaEnt != 0 {
		m.relaCount = int(relaSz / relaEnt)
	}
	if m.pltRela != 0 {
		m.pltRelaCount = int(pltRelaSz / relaEntSize)
	}
	m.initArrayLen = int(initArraySz / 8)
	m.finiArrayLen = int(finiArraySz / 8)

	if m.symtab == 0 || m.strtab == 0 {
		return newError(MissingSymbolTable, m.Name, "missing DT_SYMTAB or DT_STRTAB", nil)
	}

	m.numSyms = v.dynsymCount()

	logger.Load(m.Name, "dynamic", uint64(m.dynamic))
	return nil
}
