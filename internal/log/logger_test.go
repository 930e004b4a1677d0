package log

import "testing"

func TestHex(t *testing.T) {
	cases := map[uint64]string{
		0:      "0x0",
		1:      "0x1",
		255:    "0xff",
		0x1000: "0x1000",
	}
	for v, want := range cases {
		if got := Hex(v); got != want {
			t.Errorf("Hex(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestNewNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	if l == nil || l.Logger == nil {
		t.Fatal("NewNop returned an unusable logger")
	}
	// Every domain helper must be safe to call on a nop logger.
	l.Event("a.so", "mmap", "reserve", "0x1000 bytes")
	l.Load("a.so", "segment", 0x1000)
	l.Reloc("a.so", "R_X86_64_RELATIVE", 0x2000, 0x3000)
	l.Lookup("a.so", "malloc", 0x4000, "host")
	l.CtorCall("a.so", "init", -1, 0x5000)
}

func TestSetOnEventFiresFromEvent(t *testing.T) {
	l := NewNop()

	var gotModule, gotCategory, gotName, gotDetail string
	called := false
	l.SetOnEvent(func(module, category, name, detail string) {
		called = true
		gotModule, gotCategory, gotName, gotDetail = module, category, name, detail
	})

	l.Event("a.so", "reloc", "R_X86_64_64", "patched import")

	if !called {
		t.Fatal("Event did not invoke the onEvent callback")
	}
	if gotModule != "a.so" || gotCategory != "reloc" || gotName != "R_X86_64_64" || gotDetail != "patched import" {
		t.Errorf("callback got (%q, %q, %q, %q)", gotModule, gotCategory, gotName, gotDetail)
	}
}

func TestWithModulePreservesOnEvent(t *testing.T) {
	l := NewNop()
	var called bool
	l.SetOnEvent(func(module, category, name, detail string) { called = true })

	scoped := l.WithModule("a.so")
	scoped.Event("a.so", "mmap", "reserve", "")

	if !called {
		t.Error("WithModule dropped the onEvent callback")
	}
}

func TestFieldHelpers(t *testing.T) {
	if got := Addr(0x1000).Key; got != "addr" {
		t.Errorf("Addr().Key = %q, want addr", got)
	}
	if got := Size(42).Key; got != "size" {
		t.Errorf("Size().Key = %q, want size", got)
	}
	if got := Ptr("got", 0x2000).Key; got != "got" {
		t.Errorf("Ptr().Key = %q, want got", got)
	}
	if got := Fn("malloc").Key; got != "fn" {
		t.Errorf("Fn().Key = %q, want fn", got)
	}
}
