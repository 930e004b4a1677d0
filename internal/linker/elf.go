//go:build linux && amd64

package linker

import (
	"debug/elf"
	"os"

	"golang.org/x/sys/unix"
)

// file is an opened, validated ELF64 x86_64 object: the C1 "ELF reader"
// component. It owns the file descriptor and a read-only mapping of the
// whole file, both scoped to the load call that created it.
type file struct {
	path string
	f    *os.File
	raw  []byte // whole-file read-only mapping, released by close()
	ef   *elf.File
}

// openELF validates and opens path, returning a scoped file view.
// Every exit path must call (*file).close().
func openELF(path string) (*file, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(InvalidPath, path, "", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, newError(InvalidPath, path, "stat failed", err)
	}
	if st.Size() < 4 {
		f.Close()
		return nil, newError(InvalidFormat, path, "file too small", nil)
	}

	raw, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, newError(MmapFailed, path, "map file", err)
	}

	if raw[0] != 0x7f || raw[1] != 'E' || raw[2] != 'L' || raw[3] != 'F' {
		unix.Munmap(raw)
		f.Close()
		return nil, newError(InvalidFormat, path, "not an ELF file", nil)
	}

	ef, err := elf.NewFile(f)
	if err != nil {
		unix.Munmap(raw)
		f.Close()
		return nil, newError(InvalidFormat, path, "malformed ELF headers", err)
	}

	if ef.Class != elf.ELFCLASS64 {
		unix.Munmap(raw)
		f.Close()
		return nil, newError(InvalidFormat, path, "not a 64-bit object", nil)
	}
	if ef.Data != elf.ELFDATA2LSB {
		unix.Munmap(raw)
		f.Close()
		return nil, newError(InvalidFormat, path, "not little-endian", nil)
	}
	if ef.Machine != elf.EM_X86_64 {
		unix.Munmap(raw)
		f.Close()
		return nil, newError(InvalidFormat, path, "not x86_64", nil)
	}
	if ef.Type != elf.ET_DYN && ef.Type != elf.ET_EXEC {
		unix.Munmap(raw)
		f.Close()
		return nil, newError(InvalidFormat, path, "not a shared object or executable", nil)
	}

	logger.Load(path, "open", uint64(ef.Entry))

	return &file{path: path, f: f, raw: raw, ef: ef}, nil
}

// close releases the file mapping and descriptor.
func (v *file) close() {
	if v == nil {
		return
	}
	if v.raw != nil {
		unix.Munmap(v.raw)
		v.raw = nil
	}
	if v.f != nil {
		v.f.Close()
		v.f = nil
	}
}

// loadSegments returns the PT_LOAD program headers, in file order.
func (v *file) loadSegments() []*elf.Prog {
	var out []*elf.Prog
	for _, p := range v.ef.Progs {
		if p.Type == elf.PT_LOAD {
			out = append(out, p)
		}
	}
	return out
}

// dynamicSegment returns the PT_DYNAMIC program header, or nil if absent.
func (v *file) dynamicSegment() *elf.Prog {
	for _, p := range v.ef.Progs {
		if p.Type == elf.PT_DYNAMIC {
			return p
		}
	}
	return nil
}

// dynsymCount returns the number of entries in the .dynsym section, derived
// from its section header, or 0 if the section header table is unavailable
// (e.g. a stripped object) so the caller must fall back to a fixed bound.
func (v *file) dynsymCount() int {
	sec := v.ef.Section(".dynsym")
	if sec == nil || sec.Entsize == 0 {
		return 0
	}
	return int(sec.Size / sec.Entsize)
}
