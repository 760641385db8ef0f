// Package errors provides structured error types for host value conversion.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Every Kind maps to the exception class the host runtime raises
// for it, so callers can surface an Error without inspecting its fields:
//
//	err := errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
//		Path("read", "address").
//		HostType("str").
//		Detail("'str' object cannot be interpreted as an integer").
//		Build()
//
//	errors.Exception(err) // "TypeError"
//	errors.Message(err)   // "'str' object cannot be interpreted as an integer"
//
// Errors returned by host collaborators (coercion methods, encoders) are
// passed through unchanged; Exception and Message still resolve them.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
