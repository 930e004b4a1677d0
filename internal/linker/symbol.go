package linker

const linearScanFallbackBound = 256

func gnuHashName(name string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(name); i++ {
		h = h*33 + uint32(name[i])
	}
	return h
}

func elfHashName(name string) uint32 {
	var h, g uint32
	for i := 0; i < len(name); i++ {
		h = (h << 4) + uint32(name[i])
		g = h & 0xF0000000
		if g != 0 {
			h ^= g >> 24
		}
		h &^= g
	}
	return h
}

func symbolName(m *Module, sym *elf64Sym) string {
	return readCString(m.strtab + uintptr(sym.Name))
}

// definedCandidate reports whether sym is an acceptable defining symbol:
// not undefined, and bound global or weak.
func definedCandidate(sym *elf64Sym) bool {
	const shnUndef = 0
	const stbGlobal, stbWeak = 1, 2
	bind := sym.Info >> 4
	return sym.Shndx != shnUndef && (bind == stbGlobal || bind == stbWeak)
}

// gnuLookup implements the GNU hash lookup algorithm exactly as specified:
// bloom filter reject, bucket dispatch, chain walk.
func gnuLookup(m *Module, name string) (*elf64Sym, bool) {
	base := m.gnuHash
	nbuckets := readU32(base)
	symoffset := readU32(base + 4)
	bloomSize := readU32(base + 8)
	bloomShift := readU32(base + 12)

	bloomBase := base + 16
	bucketsBase := bloomBase + uintptr(bloomSize)*8
	chainBase := bucketsBase + uintptr(nbuckets)*4

	h := gnuHashName(name)

	wordIdx := uintptr((h / 64) % bloomSize)
	word := readU64(bloomBase + wordIdx*8)
	mask := (uint64(1) << (h % 64)) | (uint64(1) << ((h >> bloomShift) % 64))
	if word&mask != mask {
		return nil, false
	}

	n := readU32(bucketsBase + uintptr(h%nbuckets)*4)
	if n == 0 {
		return nil, false
	}

	for {
		chainVal := readU32(chainBase + uintptr(n-symoffset)*4)
		// linker.c matches the name first and defers the bind check to the
		// caller; folding definedCandidate in here instead means a
		// name-matched but undefined chain entry doesn't short-circuit the
		// walk early - harmless since no other entry in the chain can share
		// both the name and a defining section, but worth calling out as a
		// deliberate two-steps-in-one divergence from that approach.
		if (h^chainVal)>>1 == 0 {
			sym := symAt(m.symtab, int(n))
			if symbolName(m, sym) == name && definedCandidate(sym) {
				return sym, true
			}
		}
		if chainVal&1 != 0 {
			return nil, false
		}
		n++
	}
}

// elfLookup implements the classic SysV ELF hash lookup.
func elfLookup(m *Module, name string) (*elf64Sym, bool) {
	base := m.elfHash
	nbucket := readU32(base)
	bucketsBase := base + 8
	chainBase := bucketsBase + uintptr(nbucket)*4

	h := elfHashName(name)
	i := readU32(bucketsBase + uintptr(h%nbucket)*4)
	for i != 0 {
		sym := symAt(m.symtab, int(i))
		// Same deliberate divergence as gnuLookup: name and bind are
		// checked together rather than name-then-bind in two steps.
		if symbolName(m, sym) == name && definedCandidate(sym) {
			return sym, true
		}
		i = readU32(chainBase + uintptr(i)*4)
	}
	return nil, false
}

// linearLookup scans the symbol table directly, used only when neither hash
// table is present. Bounded by the section-header-derived symbol count when
// known, else a conservative fixed fallback bound.
func linearLookup(m *Module, name string) (*elf64Sym, bool) {
	limit := m.numSyms
	if limit <= 0 {
		limit = linearScanFallbackBound
	}
	for i := 0; i < limit; i++ {
		sym := symAt(m.symtab, i)
		if sym.Name == 0 && sym.Value == 0 && sym.Info == 0 && sym.Shndx == 0 {
			continue
		}
		if definedCandidate(sym) && symbolName(m, sym) == name {
			return sym, true
		}
	}
	return nil, false
}

// findSymbol is the C4 single-module lookup: GNU hash, then ELF hash, then
// linear scan, in that order, returning the resolved in-memory address.
func findSymbol(m *Module, name string) (uintptr, bool) {
	var (
		sym   *elf64Sym
		found bool
	)
	switch {
	case m.gnuHash != 0:
		sym, found = gnuLookup(m, name)
	case m.elfHash != 0:
		sym, found = elfLookup(m, name)
	default:
		sym, found = linearLookup(m, name)
	}
	if !found {
		return 0, false
	}
	addr := m.bias + uintptr(sym.Value)
	logger.Lookup(m.Name, name, uint64(addr), "module")
	return addr, true
}

// FindSymbol looks up name within module m only (C7's non-default lookup path).
func FindSymbol(m *Module, name string) (uintptr, bool) {
	return findSymbol(m, name)
}

// findGlobalSymbol implements the global lookup: registry in insertion
// order, then the host platform loader fallback (D3).
func findGlobalSymbol(reg *Registry, name string) (uintptr, bool) {
	for _, m := range reg.ordered() {
		if addr, ok := findSymbol(m, name); ok {
			return addr, true
		}
	}
	if addr, ok := resolveHostSymbol(name); ok {
		logger.Lookup("<host>", name, uint64(addr), "host")
		return addr, true
	}
	return 0, false
}
