package conv

import (
	"encoding/binary"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

// ByteOrder is the byte order of a native target.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// Binary returns the encoding/binary byte order.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ByteOrderString returns a new reference to the heap's interned "little" or
// "big" text. Every call for the same byte order yields the same object.
func ByteOrderString(h *host.Heap, littleEndian bool) *host.Owned {
	if littleEndian {
		return h.Intern("little")
	}
	return h.Intern("big")
}

// ByteOrderArg converts "little" or "big", or None when AllowNone is set.
type ByteOrderArg struct {
	Value     ByteOrder
	AllowNone bool
	IsNone    bool
}

// Convert implements Converter.
func (a *ByteOrderArg) Convert(h *host.Heap, v host.Borrowed) error {
	val := v.Value()
	a.IsNone = host.IsNone(val)
	if a.AllowNone && a.IsNone {
		return nil
	}

	s, ok := val.(host.Str)
	if ok {
		switch s {
		case "little":
			a.Value = LittleEndian
			return nil
		case "big":
			a.Value = BigEndian
			return nil
		}
	}

	msg := "expected 'little' or 'big' for byteorder"
	if a.AllowNone {
		msg = "expected 'little', 'big', or None for byteorder"
	}
	// A rejected None is a type error; any other mismatch is a value error.
	if a.IsNone {
		return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			HostType(v.TypeName()).
			Detail("%s", msg).
			Build()
	}
	return errors.New(errors.PhaseConvert, errors.KindInvalidValue).
		HostType(v.TypeName()).
		Value(host.Repr(val)).
		Detail("%s", msg).
		Build()
}

// LittleEndian reports whether the converted order is little endian.
func (a *ByteOrderArg) LittleEndian() bool {
	return a.Value == LittleEndian
}
