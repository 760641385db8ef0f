package conv

import (
	"go.uber.org/zap"

	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
)

// Param binds one named argument to a converter.
type Param struct {
	Conv     Converter
	Name     string
	Optional bool
}

// Call holds the converters bound by Parse. Release must be called once the
// native call that consumes the converted values has returned.
type Call struct {
	fn        string
	params    []Param
	converted []bool
	released  bool
}

// Parse binds positional args and keyword kwargs to params and converts each
// bound argument. Missing optional parameters are left untouched.
//
// On failure every converter that already succeeded is released and the
// error of the failing converter is returned unchanged.
func Parse(h *host.Heap, fn string, args []host.Borrowed, kwargs map[string]host.Borrowed, params ...Param) (*Call, error) {
	if len(args) > len(params) {
		return nil, errors.Argument(fn, "takes at most %d arguments (%d given)", len(params), len(args))
	}

	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p.Name] = i
	}
	for name := range kwargs {
		if _, ok := index[name]; !ok {
			return nil, errors.Argument(fn, "got an unexpected keyword argument '%s'", name)
		}
	}

	values := make([]host.Borrowed, len(params))
	present := make([]bool, len(params))
	for i, p := range params {
		kw, byName := kwargs[p.Name]
		switch {
		case i < len(args) && byName:
			return nil, errors.Argument(fn, "got multiple values for argument '%s' (pos %d)", p.Name, i+1)
		case i < len(args):
			values[i], present[i] = args[i], true
		case byName:
			values[i], present[i] = kw, true
		case !p.Optional:
			return nil, errors.Argument(fn, "missing required argument '%s' (pos %d)", p.Name, i+1)
		}
	}

	call := &Call{fn: fn, params: params, converted: make([]bool, len(params))}
	for i, p := range params {
		if !present[i] {
			continue
		}
		if err := p.Conv.Convert(h, values[i]); err != nil {
			Logger().Debug("argument conversion failed",
				zap.String("func", fn),
				zap.String("param", p.Name),
				zap.String("type", values[i].TypeName()),
				zap.Error(err))
			call.Release()
			return nil, err
		}
		call.converted[i] = true
	}
	return call, nil
}

// Bound reports whether the named parameter received a value.
func (c *Call) Bound(name string) bool {
	for i, p := range c.params {
		if p.Name == name {
			return c.converted[i]
		}
	}
	return false
}

// Release releases every converted parameter that holds references.
// Safe to call more than once.
func (c *Call) Release() {
	if c == nil || c.released {
		return
	}
	c.released = true
	for i, p := range c.params {
		if !c.converted[i] {
			continue
		}
		if r, ok := p.Conv.(Releaser); ok {
			r.Release()
			Logger().Debug("released argument",
				zap.String("func", c.fn),
				zap.String("param", p.Name))
		}
	}
}
