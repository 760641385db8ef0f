package host

import (
	"reflect"

	"github.com/zclconf/go-cty/cty"

	"github.com/wippyai/hostconv/errors"
)

// CtyBytes is the capsule type carrying host byte buffers through cty.
var CtyBytes = cty.Capsule("bytes", reflect.TypeOf([]byte(nil)))

// CtyObject is the capsule type carrying host objects through cty.
var CtyObject = cty.Capsule("object", reflect.TypeOf(Object{}))

// BytesVal wraps b in a cty capsule.
func BytesVal(b []byte) cty.Value {
	return cty.CapsuleVal(CtyBytes, &b)
}

// ObjectVal wraps o in a cty capsule.
func ObjectVal(o *Object) cty.Value {
	return cty.CapsuleVal(CtyObject, o)
}

// FromCty converts a cty value into a host value. Null becomes None, whole
// numbers become Int and objects or maps become plain objects whose
// attributes are converted recursively.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return None, nil
	}
	if !v.IsKnown() {
		return nil, errors.InvalidValue(errors.PhaseParse, nil, "value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return Str(v.AsString()), nil

	case ty == cty.Number:
		f := v.AsBigFloat()
		if !f.IsInt() {
			return nil, errors.InvalidValue(errors.PhaseParse, f.String(),
				"number %s is not an integer", f.Text('g', -1))
		}
		i, _ := f.Int(nil)
		return Int{v: i}, nil

	case ty == cty.Bool:
		if v.True() {
			return NewInt(1), nil
		}
		return NewInt(0), nil

	case ty.Equals(CtyBytes):
		b := *(v.EncapsulatedValue().(*[]byte))
		return Bytes(append([]byte(nil), b...)), nil

	case ty.Equals(CtyObject):
		return v.EncapsulatedValue().(*Object), nil

	case ty.IsObjectType() || ty.IsMapType():
		attrs := make(map[string]Value)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			hv, err := FromCty(val)
			if err != nil {
				return nil, errors.New(errors.PhaseParse, errors.KindInvalidValue).
					Path(key.AsString()).
					Cause(err).
					Detail("in attribute '%s'", key.AsString()).
					Build()
			}
			attrs[key.AsString()] = hv
		}
		return NewObject(ObjectType, attrs), nil

	default:
		return nil, errors.New(errors.PhaseParse, errors.KindTypeMismatch).
			HostType(ty.FriendlyName()).
			Detail("unsupported cty type %s", ty.FriendlyName()).
			Build()
	}
}
