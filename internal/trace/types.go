// Package trace provides types for linker event collection and analysis.
package trace

import "time"

// Tag represents a trace event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for trace events.
const (
	Mmap     Tag = "mmap"
	Dynamic  Tag = "dynamic"
	Symbol   Tag = "symbol"
	Reloc    Tag = "reloc"
	Ctor     Tag = "ctor"
	Dtor     Tag = "dtor"
	Lookup   Tag = "lookup"
	Host     Tag = "host"
	Fallback Tag = "fallback"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Annotations holds key-value metadata for trace events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Event represents a single linker operation, for the demo CLI's trace stream.
type Event struct {
	Module      string      // module name the event pertains to
	Tags        Tags        // multiple hashtags, first is primary
	Name        string      // operation name (e.g. "R_X86_64_RELATIVE", "add")
	Detail      string      // human-readable detail
	Annotations Annotations // key-value metadata (addr=, target=, symbol=...)
	Timestamp   time.Time   // when the event occurred
}

// NewEvent creates a new trace event with the given parameters.
func NewEvent(module, category, name, detail string) *Event {
	return &Event{
		Module:      module,
		Tags:        Tags{Tag(category)},
		Name:        name,
		Detail:      detail,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Collector accumulates events emitted during a single load/call/unload session.
type Collector struct {
	events []*Event
}

// Add appends an event to the collector.
func (c *Collector) Add(e *Event) {
	c.events = append(c.events, e)
}

// Drain returns and clears the accumulated events.
func (c *Collector) Drain() []*Event {
	events := c.events
	c.events = nil
	return events
}
