package host

import (
	"errors"
	"sync"

	"golang.org/x/text/encoding"
)

var ErrClosed = errors.New("host heap closed")

// Config holds heap configuration
type Config struct {
	// FSEncoding converts text to filesystem bytes. Nil means strict UTF-8.
	FSEncoding encoding.Encoding

	// FSEncodingName is reported in encoding errors. Defaults to "utf-8".
	FSEncodingName string
}

// Heap tracks host values that are referenced across the native boundary.
type Heap struct {
	entries   []entry
	freeList  []Handle
	objects   map[*Object]Handle
	interned  map[string]Handle
	observers []Observer
	cfg       Config
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	value    Value
	refs     uint32
	valid    bool
	interned bool
}

// NewHeap creates a heap with the default configuration.
func NewHeap() *Heap {
	return NewHeapWithConfig(nil)
}

// NewHeapWithConfig creates a heap with custom configuration.
func NewHeapWithConfig(cfg *Config) *Heap {
	h := &Heap{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		objects:  make(map[*Object]Handle),
		interned: make(map[string]Handle),
	}
	if cfg != nil {
		h.cfg = *cfg
	}
	if h.cfg.FSEncodingName == "" {
		h.cfg.FSEncodingName = "utf-8"
	}
	return h
}

// Config returns the heap configuration.
func (h *Heap) Config() Config {
	return h.cfg
}

// New returns a new reference to v. Objects keep their identity: passing the
// same *Object twice yields references to the same handle. Bytes are copied,
// so later writes to the caller's slice do not reach the heap.
func (h *Heap) New(v Value) *Owned {
	switch b := v.(type) {
	case nil:
		v = None
	case Bytes:
		v = Bytes(append([]byte{}, b...))
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return &Owned{}
	}
	if obj, ok := v.(*Object); ok {
		if handle, ok := h.objects[obj]; ok {
			ev := h.retainLocked(handle)
			h.mu.Unlock()
			h.notify(ev)
			return &Owned{heap: h, handle: handle}
		}
	}
	handle := h.createLocked(entry{value: v, refs: 1, valid: true})
	if obj, ok := v.(*Object); ok {
		h.objects[obj] = handle
	}
	h.mu.Unlock()

	h.notify(Event{Type: EventCreated, Handle: handle, Value: v, Refs: 1})
	return &Owned{heap: h, handle: handle}
}

// Intern returns a new reference to the heap's shared text object for s.
// Interned objects hold one reference of their own and live until Close.
func (h *Heap) Intern(s string) *Owned {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return &Owned{}
	}
	if handle, ok := h.interned[s]; ok {
		ev := h.retainLocked(handle)
		h.mu.Unlock()
		h.notify(ev)
		return &Owned{heap: h, handle: handle}
	}
	handle := h.createLocked(entry{value: Str(s), refs: 2, valid: true, interned: true})
	h.interned[s] = handle
	h.mu.Unlock()

	h.notify(Event{Type: EventCreated, Handle: handle, Value: Str(s), Refs: 2})
	return &Owned{heap: h, handle: handle}
}

func (h *Heap) createLocked(e entry) Handle {
	if len(h.freeList) > 0 {
		handle := h.freeList[len(h.freeList)-1]
		h.freeList = h.freeList[:len(h.freeList)-1]
		h.entries[handle-1] = e
		return handle
	}
	h.entries = append(h.entries, e)
	return Handle(len(h.entries))
}

func (h *Heap) lookupLocked(handle Handle) *entry {
	if handle == 0 || int(handle) > len(h.entries) {
		return nil
	}
	e := &h.entries[handle-1]
	if !e.valid {
		return nil
	}
	return e
}

func (h *Heap) retainLocked(handle Handle) Event {
	e := h.lookupLocked(handle)
	if e == nil {
		return Event{}
	}
	e.refs++
	return Event{Type: EventRetained, Handle: handle, Value: e.value, Refs: e.refs}
}

func (h *Heap) retain(handle Handle) bool {
	h.mu.Lock()
	if h.closed || h.lookupLocked(handle) == nil {
		h.mu.Unlock()
		return false
	}
	ev := h.retainLocked(handle)
	h.mu.Unlock()
	h.notify(ev)
	return true
}

func (h *Heap) release(handle Handle) {
	h.mu.Lock()
	e := h.lookupLocked(handle)
	if h.closed || e == nil || e.refs == 0 {
		h.mu.Unlock()
		return
	}

	e.refs--
	if e.refs > 0 || e.interned {
		ev := Event{Type: EventReleased, Handle: handle, Value: e.value, Refs: e.refs}
		h.mu.Unlock()
		h.notify(ev)
		return
	}

	value := e.value
	if obj, ok := value.(*Object); ok {
		delete(h.objects, obj)
	}
	e.valid = false
	e.value = nil
	h.freeList = append(h.freeList, handle)
	h.mu.Unlock()

	h.notify(Event{Type: EventDropped, Handle: handle, Value: value})
}

func (h *Heap) get(handle Handle) (Value, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.lookupLocked(handle)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// RefCount returns the number of references held to b's value, or 0 if the
// value is no longer live.
func (h *Heap) RefCount(b Borrowed) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.lookupLocked(b.handle)
	if e == nil {
		return 0
	}
	return int(e.refs)
}

// Live returns the number of live values, interned text included.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := 0
	for _, e := range h.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Subscribe adds an observer for lifecycle events.
func (h *Heap) Subscribe(o Observer) {
	h.obsMu.Lock()
	defer h.obsMu.Unlock()
	h.observers = append(h.observers, o)
}

// Unsubscribe removes an observer.
func (h *Heap) Unsubscribe(o Observer) {
	h.obsMu.Lock()
	defer h.obsMu.Unlock()
	for i, obs := range h.observers {
		if obs == o {
			h.observers = append(h.observers[:i], h.observers[i+1:]...)
			return
		}
	}
}

// Close drops every value and stops accepting new references.
func (h *Heap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	h.closed = true

	for i := range h.entries {
		h.entries[i] = entry{}
	}
	h.entries = nil
	h.freeList = nil
	h.objects = nil
	h.interned = nil
	return nil
}

// notify calls observers without holding obsMu, so an observer may
// Subscribe or Unsubscribe from OnHeapEvent.
func (h *Heap) notify(e Event) {
	if e.Handle == 0 {
		return
	}
	h.obsMu.RLock()
	observers := make([]Observer, len(h.observers))
	copy(observers, h.observers)
	h.obsMu.RUnlock()

	for _, o := range observers {
		o.OnHeapEvent(e)
	}
}
