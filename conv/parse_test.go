package conv

import (
	"testing"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

func TestParse_Binding(t *testing.T) {
	h := host.NewHeap()
	one := newValue(t, h, host.NewInt(1))
	little := newValue(t, h, host.Str("little"))

	params := func() []Param {
		return []Param{
			{Name: "address", Conv: &Uint64Arg{}},
			{Name: "byteorder", Conv: &ByteOrderArg{}, Optional: true},
		}
	}

	tests := []struct {
		kwargs  map[string]host.Borrowed
		name    string
		wantMsg string
		args    []host.Borrowed
	}{
		{name: "positional", args: []host.Borrowed{one, little}},
		{name: "keyword", kwargs: map[string]host.Borrowed{"address": one, "byteorder": little}},
		{name: "optional omitted", args: []host.Borrowed{one}},
		{
			name:    "too many",
			args:    []host.Borrowed{one, little, one},
			wantMsg: "read() takes at most 2 arguments (3 given)",
		},
		{
			name:    "unknown keyword",
			args:    []host.Borrowed{one},
			kwargs:  map[string]host.Borrowed{"size": one},
			wantMsg: "read() got an unexpected keyword argument 'size'",
		},
		{
			name:    "duplicate",
			args:    []host.Borrowed{one},
			kwargs:  map[string]host.Borrowed{"address": one},
			wantMsg: "read() got multiple values for argument 'address' (pos 1)",
		},
		{
			name:    "missing required",
			kwargs:  map[string]host.Borrowed{"byteorder": little},
			wantMsg: "read() missing required argument 'address' (pos 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := Parse(h, "read", tt.args, tt.kwargs, params()...)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if !call.Bound("address") {
					t.Error("address should be bound")
				}
				call.Release()
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Exception(err); got != "TypeError" {
				t.Errorf("Exception = %q, want TypeError", got)
			}
			if got := errors.Message(err); got != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestParse_ConvertsValues(t *testing.T) {
	h := host.NewHeap()
	done := expectNoLeak(t, h)

	addr := h.New(mustInt(t, "18446744073709551615"))
	order := h.New(host.Str("big"))
	path := h.New(host.Str("/proc/kcore"))

	var (
		a Uint64Arg
		b = ByteOrderArg{AllowNone: true}
		p PathArg
	)
	call, err := Parse(h, "open",
		[]host.Borrowed{addr.Borrow(), order.Borrow()},
		map[string]host.Borrowed{"path": path.Borrow()},
		Param{Name: "address", Conv: &a},
		Param{Name: "byteorder", Conv: &b},
		Param{Name: "path", Conv: &p},
		Param{Name: "flags", Conv: &Uint64Arg{}, Optional: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	if a.Value != 1<<64-1 {
		t.Errorf("address = %#x", a.Value)
	}
	if b.Value != BigEndian || b.IsNone {
		t.Errorf("byteorder = %v (none=%v)", b.Value, b.IsNone)
	}
	if p.String() != "/proc/kcore" {
		t.Errorf("path = %q", p.String())
	}
	if call.Bound("flags") {
		t.Error("flags should not be bound")
	}
	if call.Bound("nope") {
		t.Error("unknown parameter reported as bound")
	}

	call.Release()
	call.Release()
	if p.Bytes() != nil {
		t.Error("path not released with the call")
	}

	addr.Release()
	order.Release()
	path.Release()
	done()
}

// countingConv records its conversions and releases.
type countingConv struct {
	err      error
	converts int
	releases int
}

func (c *countingConv) Convert(*host.Heap, host.Borrowed) error {
	c.converts++
	return c.err
}

func (c *countingConv) Release() { c.releases++ }

func TestParse_ReleasesOnFailure(t *testing.T) {
	h := host.NewHeap()
	path := newValue(t, h, host.Str("/tmp/x"))
	bad := newValue(t, h, host.Str("middle"))
	done := expectNoLeak(t, h)

	var p PathArg
	first := &countingConv{}
	last := &countingConv{}
	call, err := Parse(h, "f", []host.Borrowed{path, path, bad, path}, nil,
		Param{Name: "path", Conv: &p},
		Param{Name: "first", Conv: first},
		Param{Name: "byteorder", Conv: &ByteOrderArg{}},
		Param{Name: "last", Conv: last},
	)
	done()

	if call != nil {
		t.Fatal("expected nil call on failure")
	}
	if got := errors.Message(err); got != "expected 'little' or 'big' for byteorder" {
		t.Errorf("Message = %q", got)
	}
	if p.Bytes() != nil {
		t.Error("path converted before the failure must be released")
	}
	if first.releases != 1 {
		t.Errorf("first released %d times, want 1", first.releases)
	}
	if last.converts != 0 || last.releases != 0 {
		t.Errorf("last converted %d times, released %d times; want untouched", last.converts, last.releases)
	}
}

func TestParse_NilCallRelease(t *testing.T) {
	var c *Call
	c.Release()
}
