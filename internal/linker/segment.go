//go:build linux && amd64

package linker

import (
	"debug/elf"
	"unsafe"

	"golang.org/x/sys/unix"
)

func pageSize() uint64 { return uint64(unix.Getpagesize()) }

func alignDown(v, align uint64) uint64 { return v &^ (align - 1) }
func alignUp(v, align uint64) uint64   { return alignDown(v+align-1, align) }

// mapSegments is the C2 segment mapper: it reserves a contiguous anonymous
// region sized to the module's PT_LOAD span, copies each segment's file
// bytes into place, and applies final page protections.
//
// Grounded on the real host-process mmap technique in the memmod reference
// (reserve RW anonymous, memcpy segment bytes in, mprotect afterward) rather
// than an emulator-backed MapRegion/MemWrite, since this core must execute
// real x86_64 code on the host.
func mapSegments(v *file, m *Module) error {
	progs := v.loadSegments()
	if len(progs) == 0 {
		return newError(UnsupportedSegment, m.Name, "no PT_LOAD segments", nil)
	}

	ps := pageSize()
	minVAddr := ^uint64(0)
	maxVAddr := uint64(0)
	for _, p := range progs {
		if p.Memsz == 0 {
			continue
		}
		start := alignDown(p.Vaddr, ps)
		end := alignUp(p.Vaddr+p.Memsz, ps)
		if start < minVAddr {
			minVAddr = start
		}
		if end > maxVAddr {
			maxVAddr = end
		}
	}
	if minVAddr == ^uint64(0) || maxVAddr <= minVAddr {
		return newError(UnsupportedSegment, m.Name, "empty PT_LOAD span", nil)
	}

	loadSize := maxVAddr - minVAddr
	mapping, err := unix.Mmap(-1, 0, int(loadSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return newError(MmapFailed, m.Name, "reserve", err)
	}

	base := uintptr(unsafe.Pointer(&mapping[0]))
	bias := base - uintptr(minVAddr)

	for _, p := range progs {
		if p.Filesz == 0 {
			continue
		}
		if p.Off+p.Filesz > uint64(len(v.raw)) {
			unix.Munmap(mapping)
			return newError(MmapFailed, m.Name, "segment file range out of bounds", nil)
		}
		dst := unsafe.Slice((*byte)(unsafe.Pointer(bias+uintptr(p.Vaddr))), int(p.Filesz))
		copy(dst, v.raw[p.Off:p.Off+p.Filesz])

		if p.Memsz > p.Filesz {
			tailStart := bias + uintptr(p.Vaddr+p.Filesz)
			pageEnd := alignUp(p.Vaddr+p.Filesz, ps)
			if pageEnd > p.Vaddr+p.Filesz {
				n := int(pageEnd - (p.Vaddr + p.Filesz))
				tail := unsafe.Slice((*byte)(unsafe.Pointer(tailStart)), n)
				for i := range tail {
					tail[i] = 0
				}
			}
			// The remainder beyond the page boundary is already zero: it
			// came from the anonymous reservation and was never written.
		}

		m.segments = append(m.segments, segment{
			vaddr:  p.Vaddr,
			memsz:  p.Memsz,
			filesz: p.Filesz,
			flags:  uint32(p.Flags),
		})

		logger.Load(m.Name, "segment", uint64(bias)+p.Vaddr)
	}

	for _, p := range progs {
		if p.Memsz == 0 {
			continue
		}
		start := alignDown(p.Vaddr, ps)
		end := alignUp(p.Vaddr+p.Memsz, ps)
		seg := unsafe.Slice((*byte)(unsafe.Pointer(bias+uintptr(start))), int(end-start))
		if err := unix.Mprotect(seg, progFlagsToProt(p.Flags)); err != nil {
			unix.Munmap(mapping)
			return newError(MmapFailed, m.Name, "mprotect", err)
		}
	}

	m.mapping = mapping
	m.baseAddr = base
	m.bias = bias
	m.size = uintptr(loadSize)
	return nil
}

func progFlagsToProt(flags elf.ProgFlag) int {
	prot := unix.PROT_NONE
	if flags&elf.PF_R != 0 {
		prot |= unix.PROT_READ
	}
	if flags&elf.PF_W != 0 {
		prot |= unix.PROT_WRITE
	}
	if flags&elf.PF_X != 0 {
		prot |= unix.PROT_EXEC
	}
	return prot
}

// releaseMapping unmaps the module's entire reservation in one call.
func releaseMapping(m *Module) error {
	if m.mapping == nil {
		return nil
	}
	err := unix.Munmap(m.mapping)
	m.mapping = nil
	return err
}
