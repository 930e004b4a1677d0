package colorize

import (
	"strings"
	"testing"
)

// These tests set NO_COLOR so every renderer takes the plain-text path,
// which is the only output that's safe to assert on without depending on
// whether the test runner's stdout is a terminal.
func withNoColor(t *testing.T, fn func()) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	fn()
}

func TestIsDisabledRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !IsDisabled() {
		t.Error("IsDisabled() = false with NO_COLOR set")
	}
}

func TestRenderersPassThroughWhenDisabled(t *testing.T) {
	withNoColor(t, func() {
		if got := Address(0x1000); got != "0000000000001000" {
			t.Errorf("Address() = %q, want zero-padded hex", got)
		}
		if got := Symbol("malloc"); got != "malloc" {
			t.Errorf("Symbol() = %q, want malloc", got)
		}
		if got := Module("libfoo.so"); got != "libfoo.so" {
			t.Errorf("Module() = %q, want libfoo.so", got)
		}
		if got := RelocType("R_X86_64_RELATIVE"); got != "R_X86_64_RELATIVE" {
			t.Errorf("RelocType() = %q, want unchanged", got)
		}
		if got := Detail("loaded"); got != "loaded" {
			t.Errorf("Detail() = %q, want loaded", got)
		}
		if got := Value("42"); got != "42" {
			t.Errorf("Value() = %q, want 42", got)
		}
		if got := HexBytes("deadbeef"); got != "deadbeef" {
			t.Errorf("HexBytes() = %q, want deadbeef", got)
		}
		if got := Error("boom"); got != "boom" {
			t.Errorf("Error() = %q, want boom", got)
		}
		if got := Header("ELF header"); got != "ELF header" {
			t.Errorf("Header() = %q, want ELF header", got)
		}
	})
}

func TestAddressPadsToSixteenHexDigits(t *testing.T) {
	withNoColor(t, func() {
		got := Address(0xff)
		if len(got) != 16 {
			t.Fatalf("Address(0xff) = %q, want 16 hex digits", got)
		}
		if !strings.HasSuffix(got, "ff") {
			t.Errorf("Address(0xff) = %q, want suffix ff", got)
		}
	})
}
