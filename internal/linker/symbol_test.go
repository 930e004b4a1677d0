package linker

import "testing"

func TestGnuHashName(t *testing.T) {
	cases := []struct {
		name string
		want uint32
	}{
		{"", 5381},
		{"a", 177670},
		{"ab", 5863208},
	}
	for _, c := range cases {
		if got := gnuHashName(c.name); got != c.want {
			t.Errorf("gnuHashName(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestElfHashName(t *testing.T) {
	cases := []struct {
		name string
		want uint32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 1650},
	}
	for _, c := range cases {
		if got := elfHashName(c.name); got != c.want {
			t.Errorf("elfHashName(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestGnuHashNameStable(t *testing.T) {
	// The same name must always hash the same, and distinct names should
	// not collide for this small fixture set (a real bloom filter tolerates
	// collisions, but a trivial one hints at a broken shift).
	names := []string{"malloc", "free", "printf", "dlopen", "dlsym"}
	seen := make(map[uint32]string)
	for _, n := range names {
		h := gnuHashName(n)
		if h != gnuHashName(n) {
			t.Fatalf("gnuHashName(%q) not stable across calls", n)
		}
		if prev, ok := seen[h]; ok {
			t.Errorf("unexpected hash collision between %q and %q", n, prev)
		}
		seen[h] = n
	}
}

func TestDefinedCandidate(t *testing.T) {
	const (
		shnUndef             = 0
		stbLocal, stbGlobal  = 0, 1
		stbWeak              = 2
	)
	mkInfo := func(bind uint8) uint8 { return bind << 4 }

	cases := []struct {
		name string
		sym  elf64Sym
		want bool
	}{
		{"undefined global", elf64Sym{Shndx: shnUndef, Info: mkInfo(stbGlobal)}, false},
		{"defined global", elf64Sym{Shndx: 1, Info: mkInfo(stbGlobal)}, true},
		{"defined weak", elf64Sym{Shndx: 1, Info: mkInfo(stbWeak)}, true},
		{"defined local", elf64Sym{Shndx: 1, Info: mkInfo(stbLocal)}, false},
	}
	for _, c := range cases {
		if got := definedCandidate(&c.sym); got != c.want {
			t.Errorf("%s: definedCandidate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSymbolName(t *testing.T) {
	strtab := append([]byte{0}, []byte("dlopen\x00dlsym\x00")...)
	base := addrOfSlice(strtab)

	m := &Module{strtab: base}
	sym := &elf64Sym{Name: 1}
	if got := symbolName(m, sym); got != "dlopen" {
		t.Errorf("symbolName() = %q, want %q", got, "dlopen")
	}

	sym2 := &elf64Sym{Name: uint32(1 + len("dlopen\x00"))}
	if got := symbolName(m, sym2); got != "dlsym" {
		t.Errorf("symbolName() = %q, want %q", got, "dlsym")
	}
}
