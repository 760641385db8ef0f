package conv

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/hostconv/errors"
)

// Fragments is an ordered list of text pieces that make up one message.
type Fragments struct {
	parts []string
}

// AppendText appends a single fragment. The list is unchanged on failure.
func (f *Fragments) AppendText(text string) error {
	if !utf8.ValidString(text) {
		return errors.InvalidUTF8(errors.PhaseFormat, []byte(text))
	}
	f.parts = append(f.parts, text)
	return nil
}

// AppendFormat appends one fragment built from a format template.
func (f *Fragments) AppendFormat(format string, args ...any) error {
	return f.AppendFormatArgs(format, args)
}

// AppendFormatArgs is AppendFormat for an argument list that has already
// been captured.
func (f *Fragments) AppendFormatArgs(format string, args []any) error {
	return f.AppendText(fmt.Sprintf(format, args...))
}

// Len returns the number of fragments.
func (f *Fragments) Len() int {
	return len(f.parts)
}

// Parts returns a copy of the fragments.
func (f *Fragments) Parts() []string {
	return append([]string(nil), f.parts...)
}

// Join concatenates the fragments with sep.
func (f *Fragments) Join(sep string) string {
	return strings.Join(f.parts, sep)
}

func (f *Fragments) String() string {
	return f.Join("")
}
