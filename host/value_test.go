package host

import (
	"math/big"
	"testing"
)

func TestTypeOf(t *testing.T) {
	obj := NewObject(NewType("Path", nil), nil)
	tests := []struct {
		value Value
		want  string
	}{
		{None, "NoneType"},
		{Str("x"), "str"},
		{Bytes("x"), "bytes"},
		{NewInt(1), "int"},
		{obj, "Path"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.value); got != tt.want {
			t.Errorf("TypeName(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
	if !IsNone(None) || IsNone(Str("None")) {
		t.Error("IsNone confused by the string None")
	}
}

func TestType_LookupAndSubtype(t *testing.T) {
	base := NewType("Base", nil)
	child := NewType("Child", base)
	called := false
	base.Define(MethodFSPath, func(h *Heap, self Borrowed) (*Owned, error) {
		called = true
		return h.New(Str("/")), nil
	})

	m, ok := child.Lookup(MethodFSPath)
	if !ok {
		t.Fatal("inherited method not found")
	}
	res, err := m(NewHeap(), Borrowed{})
	if err != nil {
		t.Fatal(err)
	}
	if !called || res.Value() != Str("/") {
		t.Errorf("method called %v, returned %#v", called, res.Value())
	}

	if _, ok := child.Lookup(MethodIndex); ok {
		t.Error("undefined method found")
	}

	if !child.IsSubtype(base) || !child.IsSubtype(ObjectType) {
		t.Error("Child is not a subtype of its bases")
	}
	if base.IsSubtype(child) {
		t.Error("Base is a subtype of Child")
	}
	if child.String() != "Child" {
		t.Errorf("String = %q", child.String())
	}
}

func TestInt(t *testing.T) {
	var zero Int
	if zero.String() != "0" || zero.Sign() != 0 || zero.BitLen() != 0 || zero.Big().Int64() != 0 {
		t.Errorf("zero Int = %s, sign %d, bitlen %d", zero.String(), zero.Sign(), zero.BitLen())
	}

	max, ok := ParseInt("18446744073709551615")
	if !ok || max.BitLen() != 64 {
		t.Errorf("ParseInt(max uint64) = %s, %v", max, ok)
	}

	if _, ok := ParseInt("12x"); ok {
		t.Error("ParseInt accepted 12x")
	}

	src := big.NewInt(5)
	i := NewBigInt(src)
	src.SetInt64(6)
	if i.String() != "5" {
		t.Errorf("NewBigInt aliases its argument: %s", i)
	}

	if got := NewUint(^uint64(0)).String(); got != "18446744073709551615" {
		t.Errorf("NewUint(max) = %s", got)
	}
}

func TestRepr(t *testing.T) {
	arch, members := EnumType("Architecture", map[string]uint64{"X86_64": 1})
	if arch.Name != "Architecture" {
		t.Errorf("Name = %q", arch.Name)
	}
	tests := []struct {
		value Value
		want  string
	}{
		{members["X86_64"], "Architecture.X86_64"},
		{None, "None"},
		{Str("a"), `"a"`},
		{Bytes("a\x00"), `b"a\x00"`},
		{NewInt(-3), "-3"},
		{NewObject(ObjectType, nil), "<object object>"},
	}
	for _, tt := range tests {
		if got := Repr(tt.value); got != tt.want {
			t.Errorf("Repr = %s, want %s", got, tt.want)
		}
	}
}

func TestEnumType(t *testing.T) {
	typ, members := EnumType("PlatformFlags", map[string]uint64{
		"IS_64_BIT":        1,
		"IS_LITTLE_ENDIAN": 2,
	})
	if len(members) != 2 {
		t.Fatalf("got %d members", len(members))
	}
	v, ok := members["IS_LITTLE_ENDIAN"].Attr("value")
	if !ok || v.(Int).String() != "2" {
		t.Errorf("value attribute = %v, %v", v, ok)
	}
	if members["IS_64_BIT"].Type() != typ {
		t.Error("member type differs from the enum type")
	}
}
