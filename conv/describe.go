package conv

import (
	"fmt"
	"strconv"

	"github.com/wippyai/hostconv/errors"
)

// Describe renders a converted descriptor the way the host prints it.
func Describe(c Converter) (string, error) {
	var f Fragments
	var err error

	switch a := c.(type) {
	case *ByteOrderArg:
		err = describeOptional(&f, "byteorder", a.IsNone && a.AllowNone, "'%s'", a.Value)
	case *Uint64Arg:
		err = describeOptional(&f, "uint64", a.IsNone && a.AllowNone, "%#x", a.Value)
	case *EnumArg:
		name := "enum"
		if a.Type != nil {
			name = a.Type.Name
		}
		err = describeOptional(&f, name, a.IsNone && a.AllowNone, "%d", a.Value)
	case *PathArg:
		if err = f.AppendText("path("); err != nil {
			return "", err
		}
		if a.IsNone {
			err = f.AppendText("None")
		} else {
			err = f.AppendFormat("b%s, length=%d", strconv.Quote(string(a.Bytes())), a.Len())
		}
		if err == nil {
			err = f.AppendText(")")
		}
	default:
		goType := fmt.Sprintf("%T", c)
		return "", errors.New(errors.PhaseFormat, errors.KindTypeMismatch).
			GoType(goType).
			Detail("cannot describe converter %s", goType).
			Build()
	}
	if err != nil {
		return "", err
	}
	return f.String(), nil
}

func describeOptional(f *Fragments, name string, none bool, format string, args ...any) error {
	if err := f.AppendFormat("%s(", name); err != nil {
		return err
	}
	if none {
		if err := f.AppendText("None"); err != nil {
			return err
		}
	} else if err := f.AppendFormatArgs(format, args); err != nil {
		return err
	}
	return f.AppendText(")")
}
