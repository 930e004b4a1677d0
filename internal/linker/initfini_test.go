//go:build linux && amd64

package linker

import "testing"

func TestIsValidFuncPtr(t *testing.T) {
	cases := []struct {
		addr uintptr
		want bool
	}{
		{0, false},
		{^uintptr(0), false},
		{1, true},
		{0x555500001234, true},
	}
	for _, c := range cases {
		if got := isValidFuncPtr(c.addr); got != c.want {
			t.Errorf("isValidFuncPtr(%#x) = %v, want %v", c.addr, got, c.want)
		}
	}
}
