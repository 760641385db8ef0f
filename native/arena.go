package native

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/hostconv/conv"
	"github.com/wippyai/hostconv/errors"
)

// Config holds arena configuration
type Config struct {
	// MemoryLimitPages caps linear memory growth. Zero keeps the wazero default.
	MemoryLimitPages uint32

	// InitialPages is the size linear memory starts with. Defaults to 1.
	InitialPages uint32
}

// Arena is a WebAssembly instance whose linear memory receives lowered
// arguments. Blocks written by the Lower methods are recorded under the
// argument name they were lowered for and freed by Reset or Close.
type Arena struct {
	runtime wazero.Runtime
	mem     *Memory
	alloc   *Allocator
	allocs  *AllocationList
	closed  bool
	mu      sync.Mutex
}

// New instantiates an arena with the given configuration. A nil config uses
// the defaults.
func New(ctx context.Context, cfg *Config) (*Arena, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.InitialPages == 0 {
		c.InitialPages = 1
	}
	if c.MemoryLimitPages > 0 && c.InitialPages > c.MemoryLimitPages {
		return nil, errors.InvalidValue(errors.PhaseLower, c.InitialPages,
			"initial pages %d exceed memory limit %d", c.InitialPages, c.MemoryLimitPages)
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := runtime.InstantiateWithConfig(ctx, memoryModule(c.InitialPages),
		wazero.NewModuleConfig().WithName("hostconv-arena"))
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Wrap(errors.PhaseLower, errors.KindAllocation, err, "instantiate arena")
	}
	wmem := mod.ExportedMemory("memory")
	if wmem == nil {
		_ = runtime.Close(ctx)
		return nil, errors.NotInitialized(errors.PhaseLower, "arena memory")
	}

	mem := NewMemory(wmem)
	Logger().Debug("arena created",
		zap.Uint32("pages", c.InitialPages),
		zap.Uint32("limit_pages", c.MemoryLimitPages))
	return &Arena{
		runtime: runtime,
		mem:     mem,
		alloc:   NewAllocator(mem),
		allocs:  &AllocationList{},
	}, nil
}

// memoryModule encodes a module that only defines and exports one memory.
func memoryModule(pages uint32) []byte {
	memories := append([]byte{0x01, 0x00}, uleb128(pages)...)

	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	bin = append(bin, 0x05)
	bin = append(bin, uleb128(uint32(len(memories)))...)
	bin = append(bin, memories...)

	export := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}
	bin = append(bin, 0x07, byte(len(export)))
	return append(bin, export...)
}

func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

// Memory returns the arena's linear memory.
func (a *Arena) Memory() *Memory {
	return a.mem
}

// Allocator returns the arena's allocator.
func (a *Arena) Allocator() *Allocator {
	return a.alloc
}

// Pending returns the number of recorded blocks not yet freed.
func (a *Arena) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs.Len()
}

// Allocations returns the recorded blocks in allocation order.
func (a *Arena) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs.Snapshot()
}

// Owner returns the argument whose block contains ptr.
func (a *Arena) Owner(ptr uint32) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	alloc, ok := a.allocs.Lookup(ptr)
	return alloc.Label, ok
}

func (a *Arena) allocate(label string, size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, errors.NotInitialized(errors.PhaseLower, "arena")
	}
	ptr, err := a.alloc.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	a.allocs.Add(label, ptr, size, align)
	return ptr, nil
}

// LowerPath copies a converted path into linear memory followed by a NUL
// terminator and returns its address and length without the terminator.
// None lowers to (0, 0).
func (a *Arena) LowerPath(label string, p *conv.PathArg) (uint32, uint32, error) {
	if p.IsNone {
		return 0, 0, nil
	}
	data := p.Bytes()
	n := uint32(len(data))
	ptr, err := a.allocate(label, n+1, 1)
	if err != nil {
		return 0, 0, err
	}
	if err := writeCString(a.mem, ptr, data); err != nil {
		return 0, 0, err
	}
	return ptr, n, nil
}

// LowerUint64 writes v as eight bytes in the given byte order and returns
// the address.
func (a *Arena) LowerUint64(label string, v uint64, order conv.ByteOrder) (uint32, error) {
	ptr, err := a.allocate(label, 8, 8)
	if err != nil {
		return 0, err
	}
	if err := writeUint64(a.mem, ptr, v, order); err != nil {
		return 0, err
	}
	return ptr, nil
}

// LowerUint32 writes v as four bytes in the given byte order and returns the
// address. Enum values are lowered this way.
func (a *Arena) LowerUint32(label string, v uint32, order conv.ByteOrder) (uint32, error) {
	ptr, err := a.allocate(label, 4, 4)
	if err != nil {
		return 0, err
	}
	if err := writeUint32(a.mem, ptr, v, order); err != nil {
		return 0, err
	}
	return ptr, nil
}

// ReadUint64 reads eight bytes at ptr in the given byte order.
func (a *Arena) ReadUint64(ptr uint32, order conv.ByteOrder) (uint64, error) {
	return readUint64(a.mem, ptr, order)
}

// ReadUint32 reads four bytes at ptr in the given byte order.
func (a *Arena) ReadUint32(ptr uint32, order conv.ByteOrder) (uint32, error) {
	return readUint32(a.mem, ptr, order)
}

// ReadCString returns a copy of the NUL-terminated bytes at ptr.
func (a *Arena) ReadCString(ptr uint32) ([]byte, error) {
	return readCString(a.mem, ptr)
}

// Reset frees every recorded block.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.allocs.Len() > 0 {
		Logger().Debug("arena reset",
			zap.Int("blocks", a.allocs.Len()),
			zap.Uint32("bytes", a.allocs.Bytes()),
			zap.Stringer("allocations", a.allocs))
	}
	a.allocs.Free(a.alloc)
}

// Close frees recorded blocks and closes the wazero runtime. Further calls
// are no-ops.
func (a *Arena) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.allocs.Free(a.alloc)
	a.mu.Unlock()

	if err := a.runtime.Close(ctx); err != nil {
		return fmt.Errorf("close arena runtime: %w", err)
	}
	return nil
}
