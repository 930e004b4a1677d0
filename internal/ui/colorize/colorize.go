package colorize

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// IsDisabled returns true if colors should be suppressed: NO_COLOR is set,
// or stdout isn't a terminal.
func IsDisabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd())
}

// Address formats an address as 16 zero-padded hex digits.
func Address(addr uint64) string {
	s := fmt.Sprintf("%016x", addr)
	if IsDisabled() {
		return s
	}
	return addressStyle.Render(s)
}

// Symbol formats a resolved or unresolved symbol name.
func Symbol(name string) string {
	if IsDisabled() {
		return name
	}
	return labelStyle.Render(name)
}

// Module formats a module (shared object) name or handle.
func Module(name string) string {
	if IsDisabled() {
		return name
	}
	return nameStyle.Render(name)
}

// RelocType formats a relocation type mnemonic (e.g. R_X86_64_RELATIVE).
func RelocType(name string) string {
	if IsDisabled() {
		return name
	}
	return numberStyle.Render(name)
}

// Detail formats free-form detail text.
func Detail(detail string) string {
	if IsDisabled() {
		return detail
	}
	return commentStyle.Render(detail)
}

// Value formats a returned/printed value from a called symbol.
func Value(s string) string {
	if IsDisabled() {
		return s
	}
	return stringStyle.Render(s)
}

// HexBytes formats a raw hex dump fragment.
func HexBytes(s string) string {
	if IsDisabled() {
		return s
	}
	return hexStyle.Render(s)
}

// Error formats an error message.
func Error(s string) string {
	if IsDisabled() {
		return s
	}
	return errStyle.Render(s)
}

// Header formats a section header for the info subcommand.
func Header(s string) string {
	if IsDisabled() {
		return s
	}
	return headerStyle.Render(s)
}
