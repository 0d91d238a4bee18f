package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const defaultBlockBytes = 4096

// fileFlash is read-only flash backed by a host file.
type fileFlash struct {
	mu   sync.Mutex
	f    *os.File
	size uint32
}

// NewFileFlash opens path as a flash image.
func NewFileFlash(path string) (Flash, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if st.Size() > int64(^uint32(0)) {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s: %d bytes: %w", path, st.Size(), ErrOutOfRange)
	}
	return &fileFlash{f: f, size: uint32(st.Size())}, f, nil
}

func (f *fileFlash) SizeBytes() uint32  { return f.size }
func (f *fileFlash) BlockBytes() uint32 { return defaultBlockBytes }

func (f *fileFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, ErrOutOfRange)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

// memFlash is flash backed by a byte slice.
type memFlash struct {
	data       []byte
	blockBytes uint32
}

// NewMemFlash returns flash holding data, read in blocks of blockBytes.
func NewMemFlash(data []byte, blockBytes uint32) Flash {
	if blockBytes == 0 {
		blockBytes = defaultBlockBytes
	}
	return &memFlash{data: data, blockBytes: blockBytes}
}

func (m *memFlash) SizeBytes() uint32  { return uint32(len(m.data)) }
func (m *memFlash) BlockBytes() uint32 { return m.blockBytes }

func (m *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	if int(off) >= len(m.data) {
		return 0, fmt.Errorf("flash read at %d: %w", off, ErrOutOfRange)
	}
	return copy(p, m.data[off:]), nil
}

// FlashReader reads flash as an io.ReaderAt one whole block at a time,
// keeping the most recently used blocks in a small cache.
type FlashReader struct {
	flash  Flash
	blocks []cachedBlock
	clock  uint64

	// Reads counts blocks fetched from flash.
	Reads int
}

type cachedBlock struct {
	num  int64 // -1 if empty
	used uint64
	data []byte
	n    int
}

// NewFlashReader returns a reader over flash caching up to cacheBlocks
// blocks.
func NewFlashReader(flash Flash, cacheBlocks int) *FlashReader {
	r := &FlashReader{flash: flash, blocks: make([]cachedBlock, max(cacheBlocks, 1))}
	for i := range r.blocks {
		r.blocks[i] = cachedBlock{num: -1, data: make([]byte, flash.BlockBytes())}
	}
	return r
}

// ReadAt implements io.ReaderAt.
func (r *FlashReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("read at %d: %w", off, ErrOutOfRange)
	}
	size := int64(r.flash.SizeBytes())
	blockBytes := int64(r.flash.BlockBytes())
	n := 0
	for n < len(p) {
		pos := off + int64(n)
		if pos >= size {
			return n, io.EOF
		}
		b, err := r.block(pos / blockBytes)
		if err != nil {
			return n, err
		}
		within := int(pos % blockBytes)
		if within >= b.n {
			return n, io.ErrUnexpectedEOF
		}
		n += copy(p[n:], b.data[within:b.n])
	}
	return n, nil
}

func (r *FlashReader) block(num int64) (*cachedBlock, error) {
	r.clock++
	victim := &r.blocks[0]
	for i := range r.blocks {
		b := &r.blocks[i]
		if b.num == num {
			b.used = r.clock
			return b, nil
		}
		if b.used < victim.used {
			victim = b
		}
	}

	victim.num = -1
	off := uint32(num) * uint32(len(victim.data))
	n, err := r.flash.ReadAt(victim.data, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	r.Reads++
	victim.num = num
	victim.n = n
	victim.used = r.clock
	return victim, nil
}
