package linker

import "debug/elf"

// resolveRelocSymbol resolves the symbol referenced by a relocation entry.
// A symbol is "locally defined" purely by sym.Shndx != SHN_UNDEF (matching
// do_reloc exactly) - binding is irrelevant here, so a local section symbol
// (STT_SECTION/STB_LOCAL) behind a relocation resolves to its own
// load_bias+st_value just as readily as a global one. Only an undefined
// reference falls through to the global (registry + host) lookup, which is
// where the bind check (weak vs. non-weak) actually matters.
func resolveRelocSymbol(m *Module, reg *Registry, symIdx uint32) (uintptr, bool) {
	if symIdx == 0 {
		return 0, true
	}
	sym := symAt(m.symtab, int(symIdx))
	name := symbolName(m, sym)

	const shnUndef = 0
	if sym.Shndx != shnUndef {
		return m.bias + uintptr(sym.Value), true
	}

	if addr, ok := findGlobalSymbol(reg, name); ok {
		return addr, true
	}

	const stbWeak = 2
	weak := sym.Info>>4 == stbWeak
	logger.Lookup(m.Name, name, 0, "unresolved")
	return 0, weak
}

// applyRelocTable applies every entry in a single RELA table (either the
// module's .rela.dyn or its .rela.plt), per x86_64 relocation semantics.
func applyRelocTable(m *Module, reg *Registry, addr uintptr, count int, collector *collectorFunc) error {
	for i := 0; i < count; i++ {
		entry := relaAt(addr, i)
		relType := elf.R_X86_64(relaType(entry.Info))
		symIdx := relaSymIdx(entry.Info)
		target := m.bias + uintptr(entry.Offset)
		addend := entry.Addend

		var symAddr uintptr
		if symIdx != 0 {
			// An unresolved non-weak symbol logs inside resolveRelocSymbol
			// and falls through with a null address; the relocation still
			// applies rather than aborting the load.
			symAddr, _ = resolveRelocSymbol(m, reg, symIdx)
		}

		var value uint64
		switch relType {
		case elf.R_X86_64_NONE:
			continue
		case elf.R_X86_64_64:
			value = uint64(symAddr) + uint64(addend)
			writeU64(target, value)
		case elf.R_X86_64_GLOB_DAT:
			value = uint64(symAddr)
			writeU64(target, value)
		case elf.R_X86_64_JUMP_SLOT:
			value = uint64(symAddr)
			writeU64(target, value)
		case elf.R_X86_64_RELATIVE:
			value = uint64(m.bias) + uint64(addend)
			writeU64(target, value)
		case elf.R_X86_64_COPY:
			if symAddr != 0 && symIdx != 0 {
				sym := symAt(m.symtab, int(symIdx))
				memcpyAt(target, symAddr, int(sym.Size))
			}
			continue
		default:
			logger.Reloc(m.Name, relType.String(), uint64(target), 0)
			continue
		}

		logger.Reloc(m.Name, relType.String(), uint64(target), value)
		if collector != nil {
			(*collector)(relType.String(), uint64(target), value)
		}
	}
	return nil
}

// collectorFunc lets callers (the demo CLI) observe every relocation that
// writes a word as it happens (COPY and unrecognised types are not
// reported), without the core depending on the trace package.
type collectorFunc func(relType string, target, value uint64)

// relocate is the C5 relocation engine entry point: apply RELA then PLT-RELA.
func relocate(m *Module, reg *Registry, collector *collectorFunc) error {
	if m.rela != 0 {
		if err := applyRelocTable(m, reg, m.rela, m.relaCount, collector); err != nil {
			return err
		}
	}
	if m.pltRela != 0 {
		if err := applyRelocTable(m, reg, m.pltRela, m.pltRelaCount, collector); err != nil {
			return err
		}
	}
	return nil
}
