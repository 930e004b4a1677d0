//go:build linux && amd64

// Package linker implements a minimal ELF64 x86_64 dynamic linker. It is
// Linux/amd64-only: the segment mapper issues real mmap/mprotect/munmap
// syscalls via golang.org/x/sys/unix, and the relocation engine encodes the
// x86_64 ABI's relocation semantics directly.
package linker
