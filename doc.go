// Package hostconv marshals values between a dynamic, reference-counted host
// runtime and a native library running in WebAssembly linear memory.
//
// Every value that reaches the native side passes through a converter. The
// converters are the only place where ownership of host objects crosses the
// boundary, so each of them is written against explicit ownership types
// rather than manual reference counting.
//
// # Architecture Overview
//
//	hostconv/         Root package with the native Memory and Allocator interfaces
//	├── host/         Host runtime model: heap, owned/borrowed references, protocols
//	├── conv/         Argument converters, message fragments, argument dispatch
//	├── native/       wazero-backed linear memory that receives converted values
//	├── errors/       Structured error types mapped to host exceptions
//	└── cmd/hostconv  Command line driver for call files
//
// # Quick Start
//
// Convert a path argument and hand it to the native side:
//
//	heap := host.NewHeap()
//	arg := heap.New(host.Str("/tmp/x"))
//	defer arg.Release()
//
//	var path conv.PathArg
//	if err := path.Convert(heap, arg.Borrow()); err != nil {
//	    return err
//	}
//	defer path.Release()
//
//	arena, err := native.New(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer arena.Close(ctx)
//
//	ptr, n, err := arena.LowerPath("path", &path)
//
// # Argument Dispatch
//
// Converters share one calling convention, so a whole call signature can be
// parsed at once. On failure every converter that already succeeded is
// released before Parse returns:
//
//	var (
//	    order conv.ByteOrderArg
//	    addr  conv.Uint64Arg
//	)
//	call, err := conv.Parse(heap, "read", args, kwargs,
//	    conv.Param{Name: "address", Conv: &addr},
//	    conv.Param{Name: "byteorder", Conv: &order, Optional: true},
//	)
//	if err != nil {
//	    return err
//	}
//	defer call.Release()
//
// # Thread Safety
//
// Heap is safe for concurrent use. A converter descriptor belongs to a single
// call and must not be shared between goroutines.
package hostconv
