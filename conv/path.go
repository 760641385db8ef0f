package conv

import (
	"bytes"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

// pathSource is the accepted shape of a path argument, resolved once per
// conversion.
type pathSource uint8

const (
	pathUnsupported pathSource = iota
	pathBytes
	pathText
	pathLike
)

func classifyPath(v host.Value) pathSource {
	switch v.(type) {
	case host.Bytes:
		return pathBytes
	case host.Str:
		return pathText
	case *host.Object:
		return pathLike
	default:
		return pathUnsupported
	}
}

// PathArg converts text, bytes, or an object implementing __fspath__ into
// path bytes without embedded NULs.
//
// The bytes returned by Bytes stay valid until Release. Release is
// idempotent and safe on the zero value; calling Convert with the zero
// host.Borrowed releases as well.
type PathArg struct {
	object    *host.Owned
	cleanup   *host.Owned
	path      []byte
	AllowNone bool
	IsNone    bool
}

// Convert implements Converter.
func (p *PathArg) Convert(h *host.Heap, v host.Borrowed) error {
	if v.IsZero() {
		p.Release()
		return nil
	}
	p.Release()

	obj := v.Own()
	if p.AllowNone && host.IsNone(obj.Value()) {
		p.object = obj
		p.IsNone = true
		return nil
	}

	src := classifyPath(obj.Value())
	if src == pathLike || src == pathUnsupported {
		fspath, ok := h.LookupSpecial(obj.Borrow(), host.MethodFSPath)
		if !ok {
			err := pathTypeError(obj.Borrow())
			obj.Release()
			return err
		}
		res, err := fspath(h, obj.Borrow())
		obj.Release()
		if err != nil {
			return err
		}
		obj = res
		src = classifyPath(obj.Value())
	}

	var buf *host.Owned
	switch src {
	case pathText:
		encoded, err := h.FSEncode(obj.Borrow())
		if err != nil {
			obj.Release()
			return err
		}
		buf = encoded
	case pathBytes:
		buf = obj.Borrow().Own()
	default:
		err := pathTypeError(obj.Borrow())
		obj.Release()
		return err
	}

	data := buf.Value().(host.Bytes)
	if bytes.IndexByte(data, 0) >= 0 {
		buf.Release()
		obj.Release()
		return errors.EmbeddedNul(errors.PhaseConvert, data)
	}

	if buf.Borrow().Is(obj.Borrow()) {
		buf.Release()
	} else {
		p.cleanup = buf
	}
	p.object = obj
	p.path = data
	return nil
}

func pathTypeError(b host.Borrowed) error {
	return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		HostType(b.TypeName()).
		Detail("expected string, bytes, or path-like object, not %s", b.TypeName()).
		Build()
}

// Bytes returns the converted path, or nil for None and after Release.
func (p *PathArg) Bytes() []byte {
	return p.path
}

// Len returns the length of the converted path in bytes.
func (p *PathArg) Len() int {
	return len(p.path)
}

func (p *PathArg) String() string {
	return string(p.path)
}

// Object returns the host object keeping the path alive.
func (p *PathArg) Object() host.Borrowed {
	return p.object.Borrow()
}

// Release drops the references held by the descriptor.
func (p *PathArg) Release() {
	p.object.Release()
	p.cleanup.Release()
	p.object, p.cleanup = nil, nil
	p.path = nil
	p.IsNone = false
}
