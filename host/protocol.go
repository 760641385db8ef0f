package host

import (
	"unicode/utf8"

	"github.com/wippyai/hostconv/errors"
)

// Special method names.
const (
	MethodIndex  = "__index__"
	MethodFSPath = "__fspath__"
)

// GetAttr returns a new reference to the named instance attribute.
func (h *Heap) GetAttr(b Borrowed, name string) (*Owned, error) {
	obj, ok := b.Value().(*Object)
	if !ok {
		return nil, errors.AttributeMissing(b.TypeName(), name)
	}
	v, ok := obj.Attr(name)
	if !ok {
		return nil, errors.AttributeMissing(obj.typ.Name, name)
	}
	return h.New(v), nil
}

// LookupSpecial finds a special method on the value's type. Instance
// attributes are not consulted.
func (h *Heap) LookupSpecial(b Borrowed, name string) (Method, bool) {
	return b.Type().Lookup(name)
}

// IsInstance reports whether b's value is an instance of t or a subtype.
func (h *Heap) IsInstance(b Borrowed, t *Type) bool {
	return b.Type().IsSubtype(t)
}

// Index coerces b to an Int through the index protocol. Ints are returned as
// a new reference to themselves; other values must define __index__ and it
// must return an Int.
func (h *Heap) Index(b Borrowed) (*Owned, error) {
	if _, ok := b.Value().(Int); ok {
		return b.Own(), nil
	}

	m, ok := h.LookupSpecial(b, MethodIndex)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseHost, b.TypeName(),
			"'%s' object cannot be interpreted as an integer", b.TypeName())
	}
	res, err := m(h, b)
	if err != nil {
		return nil, err
	}
	if _, ok := res.Value().(Int); !ok {
		name := res.Borrow().TypeName()
		res.Release()
		return nil, errors.TypeMismatch(errors.PhaseHost, name,
			"__index__ returned non-int (type %s)", name)
	}
	return res, nil
}

// AsUint64 reads an Int as an unsigned 64-bit integer. The full range,
// including 2^64-1, is valid; failures are reported only through the error.
func AsUint64(v Value) (uint64, error) {
	i, ok := v.(Int)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseHost, TypeName(v),
			"an integer is required (got type %s)", TypeName(v))
	}
	if i.Sign() < 0 {
		return 0, errors.Overflow(errors.PhaseHost, i.String(), "can't convert negative int to unsigned")
	}
	if i.BitLen() > 64 {
		return 0, errors.Overflow(errors.PhaseHost, i.String(), "int too big to convert")
	}
	return i.Big().Uint64(), nil
}

// FSEncode converts text to a new bytes object in the heap's filesystem
// encoding.
func (h *Heap) FSEncode(b Borrowed) (*Owned, error) {
	s, ok := b.Value().(Str)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseHost, b.TypeName(),
			"expected str, not %s", b.TypeName())
	}
	if !utf8.ValidString(string(s)) {
		return nil, errors.Unencodable(errors.PhaseHost, h.cfg.FSEncodingName,
			errors.InvalidUTF8(errors.PhaseHost, []byte(s)))
	}

	if h.cfg.FSEncoding == nil {
		return h.New(Bytes(s)), nil
	}
	out, err := h.cfg.FSEncoding.NewEncoder().String(string(s))
	if err != nil {
		return nil, errors.Unencodable(errors.PhaseHost, h.cfg.FSEncodingName, err)
	}
	return h.New(Bytes(out)), nil
}
