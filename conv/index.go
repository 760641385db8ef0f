package conv

import (
	"github.com/wippyai/hostconv/host"
)

// Uint64Arg converts integers, and objects implementing __index__, to uint64.
// The whole range is accepted; 2^64-1 is an ordinary result.
type Uint64Arg struct {
	Value     uint64
	AllowNone bool
	IsNone    bool
}

// Convert implements Converter.
func (a *Uint64Arg) Convert(h *host.Heap, v host.Borrowed) error {
	val := v.Value()
	a.IsNone = host.IsNone(val)
	if a.AllowNone && a.IsNone {
		return nil
	}

	if _, ok := val.(host.Int); ok {
		x, err := host.AsUint64(val)
		if err != nil {
			return err
		}
		a.Value = x
		return nil
	}

	idx, err := h.Index(v)
	if err != nil {
		return err
	}
	defer idx.Release()

	x, err := host.AsUint64(idx.Value())
	if err != nil {
		return err
	}
	a.Value = x
	return nil
}
