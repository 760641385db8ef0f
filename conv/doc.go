// Package conv converts host values into native primitives.
//
// Each converter is a small descriptor that owns its result for the duration
// of one call:
//
//	ByteOrderArg  "little" / "big" text to a ByteOrder
//	Uint64Arg     integers and __index__ objects to uint64
//	PathArg       text, bytes and __fspath__ objects to NUL-free path bytes
//	EnumArg       instances of an enum wrapper type to their uint32 value
//
// All converters implement Converter. Converters that keep host references
// alive (PathArg) also implement Releaser and must be released once the
// native call has finished.
//
// # Ownership
//
// A converter receives a host.Borrowed and never releases it. Every reference
// it acquires while converting is released before Convert returns, except the
// ones it keeps in the descriptor. On failure nothing is kept.
//
// # Errors
//
// Errors from host collaborators (__index__, __fspath__, the filesystem
// encoder) are returned unchanged. Errors detected by the converter itself
// are *errors.Error values whose Kind maps to the host exception class.
//
// # Dispatch
//
// Parse binds positional and keyword arguments to a list of Params and runs
// their converters in order. If any converter fails, the ones that already
// succeeded are released before Parse returns.
//
// # Message Fragments
//
// Fragments assembles multi-part diagnostic text one piece at a time; the
// descriptors use it to render their Repr.
package conv
