package conv

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

func byteOrderType() *wit.TypeDef {
	name := "byte-order"
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "little"}, {Name: "big"}}},
	}
}

func optional(t wit.Type, allowNone bool) wit.Type {
	if !allowNone {
		return t
	}
	return &wit.TypeDef{Kind: &wit.Option{Type: t}}
}

// WitType implements Typed.
func (a *ByteOrderArg) WitType() wit.Type {
	return optional(byteOrderType(), a.AllowNone)
}

// WitType implements Typed.
func (a *Uint64Arg) WitType() wit.Type {
	return optional(wit.U64{}, a.AllowNone)
}

// WitType implements Typed. Paths cross as raw bytes.
func (p *PathArg) WitType() wit.Type {
	return optional(&wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, p.AllowNone)
}

// WitType implements Typed. Enum wrappers cross as their u32 value.
func (a *EnumArg) WitType() wit.Type {
	if a.Type == nil {
		return optional(wit.U32{}, a.AllowNone)
	}
	name := a.Type.Name
	return optional(&wit.TypeDef{Name: &name, Kind: wit.U32{}}, a.AllowNone)
}

// WitType returns the parameter's native type, or nil if its converter does
// not describe one.
func (p Param) WitType() wit.Type {
	if t, ok := p.Conv.(Typed); ok {
		return t.WitType()
	}
	return nil
}

// Signature renders a parameter list as "fn(name: type, ...)".
func Signature(fn string, params ...Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Name + ": " + TypeString(p.WitType())
		if p.Optional {
			s += "?"
		}
		parts[i] = s
	}
	return fn + "(" + strings.Join(parts, ", ") + ")"
}

// TypeString renders a WIT type in WIT syntax.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "_"
	case wit.U8:
		return "u8"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.Option:
			return "option<" + TypeString(k.Type) + ">"
		case *wit.List:
			return "list<" + TypeString(k.Type) + ">"
		case *wit.Enum:
			names := make([]string, len(k.Cases))
			for i, c := range k.Cases {
				names[i] = c.Name
			}
			return "enum { " + strings.Join(names, ", ") + " }"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
