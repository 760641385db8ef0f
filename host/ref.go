package host

// Borrowed is a reference whose lifetime is guaranteed by someone else. It
// carries no release obligation. The zero Borrowed refers to nothing and is
// used as the teardown signal by converters that support cleanup.
type Borrowed struct {
	heap   *Heap
	handle Handle
}

// IsZero reports whether b refers to nothing.
func (b Borrowed) IsZero() bool {
	return b.heap == nil || b.handle == 0
}

// Handle returns the heap handle.
func (b Borrowed) Handle() Handle {
	return b.handle
}

// Heap returns the heap that owns the value.
func (b Borrowed) Heap() *Heap {
	return b.heap
}

// Value returns the referenced value, or nil if b no longer refers to a live value.
func (b Borrowed) Value() Value {
	if b.IsZero() {
		return nil
	}
	v, _ := b.heap.get(b.handle)
	return v
}

// Type returns the runtime type of the referenced value.
func (b Borrowed) Type() *Type {
	return TypeOf(b.Value())
}

// TypeName returns the name of the referenced value's type.
func (b Borrowed) TypeName() string {
	return b.Type().Name
}

// Is reports whether b and other refer to the same object.
func (b Borrowed) Is(other Borrowed) bool {
	return !b.IsZero() && b.heap == other.heap && b.handle == other.handle
}

// Own takes a new counted reference to the value.
func (b Borrowed) Own() *Owned {
	if b.IsZero() || !b.heap.retain(b.handle) {
		return &Owned{}
	}
	return &Owned{heap: b.heap, handle: b.handle}
}

// Owned is a counted reference. It must be released exactly once; Release
// clears it, so repeated calls are no-ops.
type Owned struct {
	heap   *Heap
	handle Handle
}

// Borrow returns a borrowed view valid while o is held.
func (o *Owned) Borrow() Borrowed {
	if o == nil {
		return Borrowed{}
	}
	return Borrowed{heap: o.heap, handle: o.handle}
}

// Value returns the referenced value, or nil once released.
func (o *Owned) Value() Value {
	return o.Borrow().Value()
}

// Valid reports whether o still holds a reference.
func (o *Owned) Valid() bool {
	return o != nil && o.heap != nil && o.handle != 0
}

// Take moves the reference out of o into a new Owned, leaving o empty.
func (o *Owned) Take() *Owned {
	if !o.Valid() {
		return &Owned{}
	}
	moved := &Owned{heap: o.heap, handle: o.handle}
	o.heap, o.handle = nil, 0
	return moved
}

// Release drops the reference. Safe on nil and on already released references.
func (o *Owned) Release() {
	if !o.Valid() {
		return
	}
	h, handle := o.heap, o.handle
	o.heap, o.handle = nil, 0
	h.release(handle)
}
