package native

import (
	hostconv "github.com/wippyai/hostconv"
	"github.com/wippyai/hostconv/conv"
	"github.com/wippyai/hostconv/errors"
)

// writeCString writes data followed by a NUL terminator at ptr.
func writeCString(mem hostconv.Memory, ptr uint32, data []byte) error {
	if err := mem.Write(ptr, data); err != nil {
		return err
	}
	return mem.WriteU8(ptr+uint32(len(data)), 0)
}

// readCString copies bytes from ptr up to the first NUL. Memories that report
// their size bound the scan; others stop at the first failed read.
func readCString(mem hostconv.Memory, ptr uint32) ([]byte, error) {
	limit := uint64(1) << 32
	if s, ok := mem.(hostconv.MemorySizer); ok {
		limit = uint64(s.Size())
	}
	if uint64(ptr) >= limit {
		return nil, errors.OutOfBounds(errors.PhaseLower, ptr, 1)
	}

	var out []byte
	for off := uint64(ptr); off < limit; off++ {
		b, err := mem.ReadU8(uint32(off))
		if err != nil {
			break
		}
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
	}
	return nil, errors.New(errors.PhaseLower, errors.KindOutOfBounds).
		Value(ptr).
		Detail("string at %#x is not terminated", ptr).
		Build()
}

func writeUint64(mem hostconv.Memory, ptr uint32, v uint64, order conv.ByteOrder) error {
	if order == conv.LittleEndian {
		return mem.WriteU64(ptr, v)
	}
	var buf [8]byte
	order.Binary().PutUint64(buf[:], v)
	return mem.Write(ptr, buf[:])
}

func readUint64(mem hostconv.Memory, ptr uint32, order conv.ByteOrder) (uint64, error) {
	if order == conv.LittleEndian {
		return mem.ReadU64(ptr)
	}
	data, err := mem.Read(ptr, 8)
	if err != nil {
		return 0, err
	}
	return order.Binary().Uint64(data), nil
}

func writeUint32(mem hostconv.Memory, ptr uint32, v uint32, order conv.ByteOrder) error {
	if order == conv.LittleEndian {
		return mem.WriteU32(ptr, v)
	}
	var buf [4]byte
	order.Binary().PutUint32(buf[:], v)
	return mem.Write(ptr, buf[:])
}

func readUint32(mem hostconv.Memory, ptr uint32, order conv.ByteOrder) (uint32, error) {
	if order == conv.LittleEndian {
		return mem.ReadU32(ptr)
	}
	data, err := mem.Read(ptr, 4)
	if err != nil {
		return 0, err
	}
	return order.Binary().Uint32(data), nil
}
