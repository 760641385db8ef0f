package conv

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/hostconv/host"
)

// Converter converts a borrowed host value into the receiver.
//
// Converters that also implement Releaser treat the zero host.Borrowed as a
// teardown signal: they release what they hold and report success.
type Converter interface {
	Convert(h *host.Heap, v host.Borrowed) error
}

// Releaser is implemented by converters that keep host references alive
// after a successful conversion. Release is idempotent.
type Releaser interface {
	Release()
}

// Typed is implemented by converters that can describe the native parameter
// they produce.
type Typed interface {
	WitType() wit.Type
}

var (
	_ Converter = (*ByteOrderArg)(nil)
	_ Converter = (*Uint64Arg)(nil)
	_ Converter = (*PathArg)(nil)
	_ Converter = (*EnumArg)(nil)
	_ Releaser  = (*PathArg)(nil)
	_ Typed     = (*ByteOrderArg)(nil)
	_ Typed     = (*Uint64Arg)(nil)
	_ Typed     = (*PathArg)(nil)
	_ Typed     = (*EnumArg)(nil)
)
