package host

import (
	"math/big"
	"strconv"
)

// Value is a host runtime value. The set of variants is closed.
type Value interface {
	hostValue()
}

// NoneType is the type of the absent sentinel.
type NoneType struct{}

// None is the absent sentinel.
var None Value = NoneType{}

// Str is host text.
type Str string

// Bytes is a host byte buffer.
type Bytes []byte

// Int is an arbitrary precision host integer. The zero Int is 0.
type Int struct {
	v *big.Int
}

func (NoneType) hostValue() {}
func (Str) hostValue()      {}
func (Bytes) hostValue()    {}
func (Int) hostValue()      {}
func (*Object) hostValue()  {}

// IsNone reports whether v is the absent sentinel.
func IsNone(v Value) bool {
	_, ok := v.(NoneType)
	return ok
}

// NewInt returns an Int holding x.
func NewInt(x int64) Int {
	return Int{v: big.NewInt(x)}
}

// NewUint returns an Int holding x.
func NewUint(x uint64) Int {
	return Int{v: new(big.Int).SetUint64(x)}
}

// NewBigInt returns an Int holding a copy of x.
func NewBigInt(x *big.Int) Int {
	return Int{v: new(big.Int).Set(x)}
}

// ParseInt parses a base-10 integer literal of any size.
func ParseInt(s string) (Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, false
	}
	return Int{v: v}, true
}

// Big returns a copy of the integer.
func (i Int) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

// Sign returns -1, 0 or +1.
func (i Int) Sign() int {
	if i.v == nil {
		return 0
	}
	return i.v.Sign()
}

// BitLen returns the length of the absolute value in bits.
func (i Int) BitLen() int {
	if i.v == nil {
		return 0
	}
	return i.v.BitLen()
}

func (i Int) String() string {
	if i.v == nil {
		return "0"
	}
	return i.v.String()
}

// Method is a host method bound at call time. It returns a new reference.
type Method func(h *Heap, self Borrowed) (*Owned, error)

// Type is a host runtime type.
type Type struct {
	Base    *Type
	methods map[string]Method
	Name    string
}

// Builtin types.
var (
	ObjectType = &Type{Name: "object"}
	NoneTypeT  = &Type{Name: "NoneType", Base: ObjectType}
	StrType    = &Type{Name: "str", Base: ObjectType}
	BytesType  = &Type{Name: "bytes", Base: ObjectType}
	IntType    = &Type{Name: "int", Base: ObjectType}
)

// NewType creates a type deriving from base, or from object when base is nil.
func NewType(name string, base *Type) *Type {
	if base == nil {
		base = ObjectType
	}
	return &Type{Name: name, Base: base}
}

// Define attaches a method to the type and returns the type.
func (t *Type) Define(name string, m Method) *Type {
	if t.methods == nil {
		t.methods = make(map[string]Method)
	}
	t.methods[name] = m
	return t
}

// Lookup finds a method on the type or its bases.
func (t *Type) Lookup(name string) (Method, bool) {
	for cur := t; cur != nil; cur = cur.Base {
		if m, ok := cur.methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// IsSubtype reports whether t is other or derives from it.
func (t *Type) IsSubtype(other *Type) bool {
	for cur := t; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	return t.Name
}

// Object is an instance of a user-defined type.
type Object struct {
	typ   *Type
	attrs map[string]Value
}

// NewObject creates an instance of t with a copy of attrs.
func NewObject(t *Type, attrs map[string]Value) *Object {
	o := &Object{typ: t, attrs: make(map[string]Value, len(attrs))}
	for k, v := range attrs {
		o.attrs[k] = v
	}
	return o
}

// Type returns the object's type.
func (o *Object) Type() *Type {
	return o.typ
}

// Attr returns an instance attribute.
func (o *Object) Attr(name string) (Value, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

// SetAttr sets an instance attribute.
func (o *Object) SetAttr(name string, v Value) {
	o.attrs[name] = v
}

// TypeOf returns the runtime type of v.
func TypeOf(v Value) *Type {
	switch v := v.(type) {
	case NoneType:
		return NoneTypeT
	case Str:
		return StrType
	case Bytes:
		return BytesType
	case Int:
		return IntType
	case *Object:
		return v.typ
	default:
		return ObjectType
	}
}

// TypeName returns the name of v's runtime type.
func TypeName(v Value) string {
	return TypeOf(v).Name
}

// Repr renders v the way the host prints it in diagnostics.
func Repr(v Value) string {
	switch v := v.(type) {
	case NoneType:
		return "None"
	case Str:
		return strconv.Quote(string(v))
	case Bytes:
		return "b" + strconv.Quote(string(v))
	case Int:
		return v.String()
	case *Object:
		if name, ok := v.attrs["name"].(Str); ok {
			return v.typ.Name + "." + string(name)
		}
		return "<" + v.typ.Name + " object>"
	default:
		return "<unknown>"
	}
}

// EnumType builds an enum wrapper type whose members carry integer "value"
// and text "name" attributes.
func EnumType(name string, members map[string]uint64) (*Type, map[string]*Object) {
	t := NewType(name, nil)
	out := make(map[string]*Object, len(members))
	for member, value := range members {
		out[member] = NewObject(t, map[string]Value{
			"name":  Str(member),
			"value": NewUint(value),
		})
	}
	return t, out
}
