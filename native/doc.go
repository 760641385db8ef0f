// Package native provides the linear memory that converted arguments are
// lowered into before a native call.
//
// An Arena owns a wazero runtime with a single module that exports its
// memory. Values are written with the Lower methods, which record every
// block they allocate under the argument name; Reset frees them after the
// native call returns.
//
//	arena, err := native.New(ctx, &native.Config{MemoryLimitPages: 16})
//	if err != nil {
//	    return err
//	}
//	defer arena.Close(ctx)
//
//	ptr, n, err := arena.LowerPath("path", &path)
//	...
//	arena.Reset()
//
// Memory and Allocator implement the root package interfaces and can be used
// directly when a caller manages its own AllocationList. The lowering
// helpers only depend on those interfaces.
package native
