package conv

import (
	"fmt"
	"math"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

// EnumArg converts an instance of Type, an enum wrapper, to the integer held
// in its "value" attribute.
type EnumArg struct {
	Type      *host.Type
	Value     uint32
	AllowNone bool
	IsNone    bool
}

// Convert implements Converter.
func (a *EnumArg) Convert(h *host.Heap, v host.Borrowed) error {
	a.IsNone = host.IsNone(v.Value())
	if a.AllowNone && a.IsNone {
		return nil
	}
	if a.Type == nil {
		return errors.NotInitialized(errors.PhaseConvert, "enum converter type")
	}

	if !h.IsInstance(v, a.Type) {
		orNone := ""
		if a.AllowNone {
			orNone = " or None"
		}
		return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			HostType(v.TypeName()).
			Detail("expected %s%s, not %s", a.Type.Name, orNone, v.TypeName()).
			Build()
	}

	attr, err := h.GetAttr(v, "value")
	if err != nil {
		return err
	}
	defer attr.Release()

	x, err := host.AsUint64(attr.Value())
	if err != nil {
		return err
	}
	if x > math.MaxUint32 {
		return errors.Overflow(errors.PhaseConvert, x,
			fmt.Sprintf("%s value %d does not fit in 32 bits", a.Type.Name, x))
	}
	a.Value = uint32(x)
	return nil
}
