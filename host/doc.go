// Package host models the dynamic, reference-counted runtime whose values
// cross into native code.
//
// # Values
//
// A host Value is one of a closed set of variants:
//
//	None      the absent sentinel
//	Str       text
//	Bytes     a byte buffer
//	Int       an arbitrary precision integer
//	*Object   an instance of a user-defined Type with attributes and methods
//
// # Heap and Ownership
//
// Values reach the boundary through a Heap, which assigns each live value a
// Handle and counts the references held to it. References come in two forms:
//
//	Borrowed  a view valid while someone else holds a reference
//	*Owned    a counted reference that must be released exactly once
//
//	heap := host.NewHeap()
//	s := heap.New(host.Str("/tmp/x")) // refcount 1
//	extra := s.Borrow().Own()          // refcount 2
//	extra.Release()                    // refcount 1
//	s.Release()                        // dropped
//
// Release clears the Owned, so a second Release is a no-op.
//
// # Protocols
//
// The heap implements the host protocols converters rely on:
//
//	GetAttr        attribute lookup by name
//	LookupSpecial  method lookup on the type (e.g. __index__, __fspath__)
//	Index          integer coercion through __index__
//	FSEncode       text to bytes in the filesystem encoding
//	IsInstance     nominal type check including subtypes
//
// # Observers
//
// Register observers to track reference lifecycle events:
//
//	heap.Subscribe(obs)
//
// Tests use observers to assert that a failed conversion released every
// reference it acquired.
package host
