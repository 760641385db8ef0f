package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wippyai/hostconv/conv"
	"github.com/wippyai/hostconv/host"
	"github.com/wippyai/hostconv/native"
)

type enumInfo struct {
	typ     *host.Type
	members map[string]*host.Object
}

var enums = map[string]enumInfo{}

func defineEnum(name string, members map[string]uint64) *host.Type {
	typ, objs := host.EnumType(name, members)
	enums[name] = enumInfo{typ: typ, members: objs}
	return typ
}

var (
	architectureType = defineEnum("Architecture", map[string]uint64{
		"UNKNOWN": 0,
		"X86_64":  1,
		"PPC64":   2,
		"AARCH64": 3,
		"S390X":   4,
	})
	platformFlagsType = defineEnum("PlatformFlags", map[string]uint64{
		"IS_64_BIT":        1,
		"IS_LITTLE_ENDIAN": 2,
	})
)

const flagLittleEndian = 2

// signature is a native entry point with its argument converters.
type signature struct {
	params func() []conv.Param
	run    func(env *callEnv) ([]string, error)
	name   string
	doc    string
}

// callEnv is what a signature sees once its arguments are converted.
type callEnv struct {
	heap   *host.Heap
	arena  *native.Arena
	call   *conv.Call
	params []conv.Param
}

func (e *callEnv) arg(name string) conv.Converter {
	for _, p := range e.params {
		if p.Name == name {
			return p.Conv
		}
	}
	return nil
}

var signatures = map[string]signature{
	"read_u64": {
		name: "read_u64",
		doc:  "lower an address in the requested byte order",
		params: func() []conv.Param {
			return []conv.Param{
				{Name: "address", Conv: &conv.Uint64Arg{}},
				{Name: "byteorder", Conv: &conv.ByteOrderArg{AllowNone: true}, Optional: true},
			}
		},
		run: func(env *callEnv) ([]string, error) {
			addr := env.arg("address").(*conv.Uint64Arg)
			order := env.arg("byteorder").(*conv.ByteOrderArg)
			bo := conv.LittleEndian
			if !order.IsNone {
				bo = order.Value
			}
			ptr, err := env.arena.LowerUint64("address", addr.Value, bo)
			if err != nil {
				return nil, err
			}
			raw, err := env.arena.Memory().Read(ptr, 8)
			if err != nil {
				return nil, err
			}
			back, err := env.arena.ReadUint64(ptr, bo)
			if err != nil {
				return nil, err
			}
			return []string{
				fmt.Sprintf("lowered at %#x: % x", ptr, raw),
				fmt.Sprintf("read back: %#x", back),
			}, nil
		},
	},
	"open": {
		name: "open",
		doc:  "lower a filesystem path",
		params: func() []conv.Param {
			return []conv.Param{
				{Name: "path", Conv: &conv.PathArg{}},
				{Name: "arch", Conv: &conv.EnumArg{Type: architectureType, AllowNone: true}, Optional: true},
			}
		},
		run: func(env *callEnv) ([]string, error) {
			lines, err := runLowerPath(env)
			if err != nil {
				return nil, err
			}
			arch := env.arg("arch").(*conv.EnumArg)
			if !env.call.Bound("arch") || arch.IsNone {
				return lines, nil
			}
			ptr, err := env.arena.LowerUint32("arch", arch.Value, conv.LittleEndian)
			if err != nil {
				return nil, err
			}
			raw, err := env.arena.Memory().Read(ptr, 4)
			if err != nil {
				return nil, err
			}
			return append(lines, fmt.Sprintf("arch lowered at %#x: % x", ptr, raw)), nil
		},
	},
	"stat": {
		name: "stat",
		doc:  "lower an optional path",
		params: func() []conv.Param {
			return []conv.Param{
				{Name: "path", Conv: &conv.PathArg{AllowNone: true}},
			}
		},
		run: runLowerPath,
	},
	"platform_byteorder": {
		name: "platform_byteorder",
		doc:  "byte order of a platform",
		params: func() []conv.Param {
			return []conv.Param{
				{Name: "arch", Conv: &conv.EnumArg{Type: architectureType}},
				{Name: "flags", Conv: &conv.EnumArg{Type: platformFlagsType}},
			}
		},
		run: func(env *callEnv) ([]string, error) {
			flags := env.arg("flags").(*conv.EnumArg)
			order := conv.ByteOrderString(env.heap, flags.Value&flagLittleEndian != 0)
			defer order.Release()
			return []string{"byteorder: " + host.Repr(order.Value())}, nil
		},
	},
}

func runLowerPath(env *callEnv) ([]string, error) {
	path := env.arg("path").(*conv.PathArg)
	ptr, n, err := env.arena.LowerPath("path", path)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return []string{"lowered: NULL"}, nil
	}
	back, err := env.arena.ReadCString(ptr)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("lowered at %#x (%d bytes): %q", ptr, n, back)}, nil
}

func signatureNames() []string {
	names := make([]string, 0, len(signatures))
	for name := range signatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runner executes calls against one heap and arena.
type runner struct {
	heap  *host.Heap
	arena *native.Arena
	dump  io.Writer
}

// execute converts the call's arguments against the named signature, lowers
// the converted values and returns the report lines.
func (r *runner) execute(c callSpec) ([]string, error) {
	h, arena := r.heap, r.arena
	sig, ok := signatures[c.Func]
	if !ok {
		return nil, fmt.Errorf("unknown function %q (have %s)", c.Func, strings.Join(signatureNames(), ", "))
	}

	var refs []*host.Owned
	defer func() {
		for _, r := range refs {
			r.Release()
		}
	}()
	hold := func(v host.Value) host.Borrowed {
		o := h.New(v)
		refs = append(refs, o)
		return o.Borrow()
	}
	args := make([]host.Borrowed, len(c.Args))
	for i, v := range c.Args {
		args[i] = hold(v)
	}
	kwargs := make(map[string]host.Borrowed, len(c.Kwargs))
	for k, v := range c.Kwargs {
		kwargs[k] = hold(v)
	}

	params := sig.params()
	call, err := conv.Parse(h, sig.name, args, kwargs, params...)
	if err != nil {
		return nil, err
	}
	defer call.Release()
	defer arena.Reset()

	var lines []string
	for _, p := range params {
		if !call.Bound(p.Name) {
			continue
		}
		if r.dump != nil {
			dumpConfig.Fdump(r.dump, p.Conv)
		}
		desc, err := conv.Describe(p.Conv)
		if err != nil {
			return nil, err
		}
		lines = append(lines, p.Name+" = "+desc)
	}
	out, err := sig.run(&callEnv{heap: h, arena: arena, call: call, params: params})
	if err != nil {
		return nil, err
	}
	return append(lines, out...), nil
}
