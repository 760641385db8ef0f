package conv

import (
	"bytes"
	stderrors "errors"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

func pathLikeType(name string, result func(h *host.Heap) (*host.Owned, error)) *host.Type {
	return host.NewType(name, nil).Define(host.MethodFSPath, func(h *host.Heap, self host.Borrowed) (*host.Owned, error) {
		return result(h)
	})
}

func TestPathArg_TextAndBytes(t *testing.T) {
	h := host.NewHeap()

	for _, value := range []host.Value{host.Str("/tmp/x"), host.Bytes("/tmp/x")} {
		v := newValue(t, h, value)
		var p PathArg
		if err := p.Convert(h, v); err != nil {
			t.Fatalf("Convert(%s): %v", host.Repr(value), err)
		}
		if !bytes.Equal(p.Bytes(), []byte("/tmp/x")) || p.Len() != 6 {
			t.Errorf("Convert(%s) = %q (%d bytes)", host.Repr(value), p.Bytes(), p.Len())
		}
		if p.String() != "/tmp/x" {
			t.Errorf("String() = %q", p.String())
		}
		if p.IsNone {
			t.Error("IsNone should be false")
		}
		if !p.Object().Is(v) {
			t.Error("descriptor should keep the argument object")
		}
		p.Release()
	}
}

func TestPathArg_CallerBufferReuse(t *testing.T) {
	h := host.NewHeap()
	raw := []byte("/tmp/x")
	v := newValue(t, h, host.Bytes(raw))

	var p PathArg
	if err := p.Convert(h, v); err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	raw[1] = 0
	if got := p.Bytes(); string(got) != "/tmp/x" || bytes.IndexByte(got, 0) >= 0 {
		t.Errorf("converted path changed with the caller's buffer: %q", got)
	}
}

func TestPathArg_Ownership(t *testing.T) {
	h := host.NewHeap()

	t.Run("bytes keep one reference", func(t *testing.T) {
		v := newValue(t, h, host.Bytes("/bin/sh"))
		done := expectNoLeak(t, h)

		var p PathArg
		if err := p.Convert(h, v); err != nil {
			t.Fatal(err)
		}
		if p.cleanup != nil {
			t.Error("bytes input must not keep a secondary buffer")
		}
		if got := h.RefCount(v); got != 2 {
			t.Errorf("refcount while held = %d, want 2", got)
		}
		p.Release()
		done()
	})

	t.Run("text keeps object and encoded buffer", func(t *testing.T) {
		v := newValue(t, h, host.Str("/bin/sh"))
		done := expectNoLeak(t, h)

		var p PathArg
		if err := p.Convert(h, v); err != nil {
			t.Fatal(err)
		}
		if p.cleanup == nil {
			t.Fatal("text input must keep the encoded buffer")
		}
		buf := p.cleanup.Borrow()
		if buf.Is(v) {
			t.Error("encoded buffer must be a distinct object")
		}
		if got := h.RefCount(v); got != 2 {
			t.Errorf("argument refcount while held = %d, want 2", got)
		}
		p.Release()
		if h.RefCount(buf) != 0 {
			t.Error("encoded buffer not released")
		}
		done()
	})

	t.Run("path-like returning bytes", func(t *testing.T) {
		typ := pathLikeType("RawPath", func(h *host.Heap) (*host.Owned, error) {
			return h.New(host.Bytes("/dev/mem")), nil
		})
		v := newValue(t, h, host.NewObject(typ, nil))
		done := expectNoLeak(t, h)

		var p PathArg
		if err := p.Convert(h, v); err != nil {
			t.Fatal(err)
		}
		if p.String() != "/dev/mem" {
			t.Errorf("path = %q", p.String())
		}
		if p.Object().Is(v) {
			t.Error("descriptor should hold the __fspath__ result, not the original object")
		}
		if got := h.RefCount(v); got != 1 {
			t.Errorf("original refcount = %d, want 1", got)
		}
		if p.cleanup != nil {
			t.Error("bytes result must not keep a secondary buffer")
		}
		p.Release()
		done()
	})
}

func TestPathArg_PathLikeMatchesText(t *testing.T) {
	h := host.NewHeap()
	typ := pathLikeType("PosixPath", func(h *host.Heap) (*host.Owned, error) {
		return h.New(host.Str("/etc/passwd")), nil
	})

	var direct, viaProtocol PathArg
	if err := direct.Convert(h, newValue(t, h, host.Str("/etc/passwd"))); err != nil {
		t.Fatal(err)
	}
	defer direct.Release()

	v := newValue(t, h, host.NewObject(typ, nil))
	done := expectNoLeak(t, h)
	if err := viaProtocol.Convert(h, v); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(direct.Bytes(), viaProtocol.Bytes()) || direct.Len() != viaProtocol.Len() {
		t.Errorf("path-like = %q, direct = %q", viaProtocol.Bytes(), direct.Bytes())
	}
	viaProtocol.Release()
	done()
}

func TestPathArg_None(t *testing.T) {
	h := host.NewHeap()
	v := newValue(t, h, host.None)

	p := PathArg{AllowNone: true}
	if err := p.Convert(h, v); err != nil {
		t.Fatal(err)
	}
	if !p.IsNone || p.Bytes() != nil || p.Len() != 0 {
		t.Errorf("None gave IsNone=%v bytes=%q", p.IsNone, p.Bytes())
	}
	if h.RefCount(v) != 2 {
		t.Errorf("None reference should be held, refcount = %d", h.RefCount(v))
	}
	p.Release()
	if h.RefCount(v) != 1 {
		t.Errorf("refcount after release = %d, want 1", h.RefCount(v))
	}
}

func TestPathArg_Errors(t *testing.T) {
	raised := stderrors.New("fspath exploded")
	failing := pathLikeType("Failing", func(h *host.Heap) (*host.Owned, error) {
		return nil, raised
	})
	wrongResult := pathLikeType("Wrong", func(h *host.Heap) (*host.Owned, error) {
		return h.New(host.NewInt(3)), nil
	})
	nulResult := pathLikeType("Nul", func(h *host.Heap) (*host.Owned, error) {
		return h.New(host.Str("a\x00b")), nil
	})

	tests := []struct {
		value   host.Value
		cause   error
		cfg     *host.Config
		name    string
		wantExc string
		wantMsg string
	}{
		{
			name:    "embedded nul text",
			value:   host.Str("a\x00b"),
			wantExc: "TypeError",
			wantMsg: "path has embedded nul character",
		},
		{
			name:    "embedded nul bytes",
			value:   host.Bytes("/tmp/\x00x"),
			wantExc: "TypeError",
			wantMsg: "path has embedded nul character",
		},
		{
			name:    "embedded nul from path-like",
			value:   host.NewObject(nulResult, nil),
			wantExc: "TypeError",
			wantMsg: "path has embedded nul character",
		},
		{
			name:    "int",
			value:   host.NewInt(3),
			wantExc: "TypeError",
			wantMsg: "expected string, bytes, or path-like object, not int",
		},
		{
			name:    "none rejected",
			value:   host.None,
			wantExc: "TypeError",
			wantMsg: "expected string, bytes, or path-like object, not NoneType",
		},
		{
			name:    "object without fspath",
			value:   host.NewObject(host.NewType("Thing", nil), nil),
			wantExc: "TypeError",
			wantMsg: "expected string, bytes, or path-like object, not Thing",
		},
		{
			name:    "fspath returns int",
			value:   host.NewObject(wrongResult, nil),
			wantExc: "TypeError",
			wantMsg: "expected string, bytes, or path-like object, not int",
		},
		{
			name:  "fspath raises",
			value: host.NewObject(failing, nil),
			cause: raised,
		},
		{
			name:    "unencodable",
			value:   host.Str("/tmp/€"),
			cfg:     &host.Config{FSEncoding: charmap.ISO8859_1, FSEncodingName: "latin-1"},
			wantExc: "UnicodeError",
			wantMsg: "'latin-1' codec can't encode path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := host.NewHeapWithConfig(tt.cfg)
			v := newValue(t, h, tt.value)
			done := expectNoLeak(t, h)

			var p PathArg
			err := p.Convert(h, v)
			done()

			if err == nil {
				t.Fatalf("expected error, got path %q", p.Bytes())
			}
			if tt.cause != nil {
				if err != tt.cause {
					t.Errorf("error = %v, want collaborator error unchanged", err)
				}
			} else {
				if got := errors.Exception(err); got != tt.wantExc {
					t.Errorf("Exception = %q, want %q", got, tt.wantExc)
				}
				if got := errors.Message(err); got != tt.wantMsg {
					t.Errorf("Message = %q, want %q", got, tt.wantMsg)
				}
			}
			if p.object != nil || p.cleanup != nil || p.Bytes() != nil {
				t.Error("failed conversion must leave the descriptor empty")
			}
			if h.RefCount(v) != 1 {
				t.Errorf("argument refcount = %d, want 1", h.RefCount(v))
			}
		})
	}
}

func TestPathArg_Teardown(t *testing.T) {
	h := host.NewHeap()
	v := newValue(t, h, host.Str("/tmp/x"))
	done := expectNoLeak(t, h)

	var p PathArg
	if err := p.Convert(h, v); err != nil {
		t.Fatal(err)
	}
	if err := p.Convert(h, host.Borrowed{}); err != nil {
		t.Fatalf("teardown: %v", err)
	}
	if p.Bytes() != nil {
		t.Error("teardown should clear the path")
	}
	// teardown of an already released descriptor is a no-op
	if err := p.Convert(h, host.Borrowed{}); err != nil {
		t.Fatalf("second teardown: %v", err)
	}
	p.Release()
	done()

	var zero PathArg
	zero.Release()
	if err := zero.Convert(nil, host.Borrowed{}); err != nil {
		t.Fatalf("teardown on zero descriptor: %v", err)
	}
}

func TestPathArg_Reconvert(t *testing.T) {
	h := host.NewHeap()
	first := newValue(t, h, host.Str("/a"))
	second := newValue(t, h, host.Bytes("/b"))
	done := expectNoLeak(t, h)

	var p PathArg
	if err := p.Convert(h, first); err != nil {
		t.Fatal(err)
	}
	if err := p.Convert(h, second); err != nil {
		t.Fatal(err)
	}
	if p.String() != "/b" {
		t.Errorf("path = %q, want /b", p.String())
	}
	if h.RefCount(first) != 1 {
		t.Errorf("first argument still held: refcount %d", h.RefCount(first))
	}
	p.Release()
	done()
}
