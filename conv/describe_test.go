package conv

import (
	"testing"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

func TestDescribe(t *testing.T) {
	h := host.NewHeap()
	arch, archs := host.EnumType("Architecture", map[string]uint64{"PPC64": 2})

	var path PathArg
	if err := path.Convert(h, newValue(t, h, host.Str("/tmp/\"x\""))); err != nil {
		t.Fatal(err)
	}
	defer path.Release()

	enum := &EnumArg{Type: arch}
	if err := enum.Convert(h, newValue(t, h, archs["PPC64"])); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		conv Converter
		want string
	}{
		{&ByteOrderArg{Value: BigEndian}, "byteorder('big')"},
		{&ByteOrderArg{AllowNone: true, IsNone: true}, "byteorder(None)"},
		{&Uint64Arg{Value: 0xffff0000}, "uint64(0xffff0000)"},
		{&Uint64Arg{AllowNone: true, IsNone: true}, "uint64(None)"},
		{enum, "Architecture(2)"},
		{&EnumArg{Value: 3}, "enum(3)"},
		{&path, `path(b"/tmp/\"x\"", length=8)`},
		{&PathArg{IsNone: true}, "path(None)"},
	}
	for _, tt := range tests {
		got, err := Describe(tt.conv)
		if err != nil {
			t.Errorf("Describe(%T): %v", tt.conv, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Describe(%T) = %q, want %q", tt.conv, got, tt.want)
		}
	}
}

func TestDescribe_Unknown(t *testing.T) {
	_, err := Describe(&countingConv{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := errors.Message(err); got != "cannot describe converter *conv.countingConv" {
		t.Errorf("Message = %q", got)
	}
}
