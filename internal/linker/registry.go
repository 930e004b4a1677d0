package linker

import "sync"

// Registry is the process-wide linker state: the module list and the
// one-shot error slot, per §3's "linker state" singleton. Held behind a
// mutex as a defensive measure even though the core's contract is
// single-threaded (see DESIGN.md), following the common
// mutex-guarded-map idiom for this kind of shared state.
type Registry struct {
	mu      sync.Mutex
	modules []*Module       // insertion order, authoritative for global lookup
	byHandle map[Handle]*Module
	seq     uint64

	errMu   sync.Mutex
	errMsg  string
	errSet  bool
}

// NewRegistry creates an initialized, empty registry.
func NewRegistry() *Registry {
	return &Registry{byHandle: make(map[Handle]*Module)}
}

func (r *Registry) ordered() []*Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Module, len(r.modules))
	copy(out, r.modules)
	return out
}

func (r *Registry) insert(m *Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	m.seq = r.seq
	m.refCount = 1
	r.modules = append(r.modules, m)
	r.byHandle[m.Handle()] = m
}

func (r *Registry) lookupHandle(h Handle) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byHandle[h]
	return m, ok
}

func (r *Registry) remove(m *Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byHandle, m.Handle())
	for i, x := range r.modules {
		if x == m {
			r.modules = append(r.modules[:i], r.modules[i+1:]...)
			break
		}
	}
}

// setError writes a new one-shot error, matching dlerror's dirty-flag
// semantics.
func (r *Registry) setError(err error) {
	if err == nil {
		return
	}
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errMsg = err.Error()
	r.errSet = true
}

// takeError reads and clears the error slot; a second immediate read
// returns the absence marker (empty string, false).
func (r *Registry) takeError() (string, bool) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if !r.errSet {
		return "", false
	}
	msg := r.errMsg
	r.errMsg = ""
	r.errSet = false
	return msg, true
}

// Load implements the C7 load dataflow: C1 open, C2 map, locate dynamic
// segment, C3 parse, C5 relocate, C1 close, register, then C6 construct.
func (r *Registry) Load(path string, flags Flag) (*Module, error) {
	return r.load(path, flags, nil)
}

// LoadTraced is Load with every relocation that writes a word (64,
// GLOB_DAT, JUMP_SLOT, RELATIVE) additionally reported to onReloc as it is
// applied; COPY and unrecognised types are not reported. The demo CLI's
// "call" subcommand collects these and renders them after the load (D1).
func (r *Registry) LoadTraced(path string, flags Flag, onReloc func(relType string, target, value uint64)) (*Module, error) {
	var c collectorFunc = onReloc
	return r.load(path, flags, &c)
}

func (r *Registry) load(path string, flags Flag, collector *collectorFunc) (*Module, error) {
	v, err := openELF(path)
	if err != nil {
		r.setError(err)
		return nil, err
	}
	defer v.close()

	m := &Module{Name: path, flags: flags}

	if err := mapSegments(v, m); err != nil {
		r.setError(err)
		return nil, err
	}

	if err := parseDynamic(v, m); err != nil {
		releaseMapping(m)
		r.setError(err)
		return nil, err
	}

	if err := relocate(m, r, collector); err != nil {
		releaseMapping(m)
		r.setError(err)
		return nil, err
	}

	v.close()
	r.insert(m)
	callConstructors(m)

	return m, nil
}

// Lookup implements the C7 lookup dataflow, dispatching on the sentinel
// handles per §4.7.
func (r *Registry) Lookup(h Handle, name string) (uintptr, error) {
	switch h {
	case Default:
		if addr, ok := findGlobalSymbol(r, name); ok {
			return addr, nil
		}
		err := newError(SymbolNotFound, "<default>", name, nil)
		r.setError(err)
		return 0, err
	case Next:
		err := newError(NotImplemented, "<next>", "RTLD_NEXT is not supported", nil)
		r.setError(err)
		return 0, err
	}

	m, ok := r.lookupHandle(h)
	if !ok {
		err := newError(SymbolNotFound, "<unknown handle>", name, nil)
		r.setError(err)
		return 0, err
	}
	if addr, ok := findSymbol(m, name); ok {
		return addr, nil
	}
	err := newError(SymbolNotFound, m.Name, name, nil)
	r.setError(err)
	return 0, err
}

// Unload implements the C7 unload dataflow: decrement, and at zero run
// destructors and release the mapping.
func (r *Registry) Unload(h Handle) error {
	if h == Default || h == Next {
		err := newError(NullHandle, "", "", nil)
		r.setError(err)
		return err
	}
	m, ok := r.lookupHandle(h)
	if !ok {
		err := newError(NullHandle, "", "unknown handle", nil)
		r.setError(err)
		return err
	}

	r.mu.Lock()
	m.refCount--
	remaining := m.refCount
	r.mu.Unlock()

	if remaining > 0 {
		return nil
	}

	callDestructors(m)
	r.remove(m)
	if err := releaseMapping(m); err != nil {
		wrapped := newError(MmapFailed, m.Name, "munmap", err)
		r.setError(wrapped)
		return wrapped
	}
	return nil
}
