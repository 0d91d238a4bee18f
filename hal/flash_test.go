package hal

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestFlashReaderCrossesBlocks(t *testing.T) {
	data := testData(1000)
	r := NewFlashReader(NewMemFlash(data, 64), 2)

	buf := make([]byte, 200)
	n, err := r.ReadAt(buf, 50)
	require.NoError(t, err)
	assert.Equal(t, 200, n)
	assert.Equal(t, data[50:250], buf)
	assert.Equal(t, 4, r.Reads)
}

func TestFlashReaderCachesBlocks(t *testing.T) {
	r := NewFlashReader(NewMemFlash(testData(1000), 64), 2)

	buf := make([]byte, 8)
	for range 3 {
		_, err := r.ReadAt(buf, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, r.Reads)

	// Evicts the least recently used block
	_, _ = r.ReadAt(buf, 100)
	_, _ = r.ReadAt(buf, 200)
	_, _ = r.ReadAt(buf, 10)
	assert.Equal(t, 4, r.Reads)
}

func TestFlashReaderEOF(t *testing.T) {
	data := testData(100)
	r := NewFlashReader(NewMemFlash(data, 64), 1)

	buf := make([]byte, 10)
	n, err := r.ReadAt(buf, 95)
	assert.Equal(t, 5, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, data[95:], buf[:5])

	_, err = r.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestFileFlash(t *testing.T) {
	data := testData(5000)
	path := filepath.Join(t.TempDir(), "flash.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	flash, closer, err := NewFileFlash(path)
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, uint32(5000), flash.SizeBytes())

	r := NewFlashReader(flash, 4)
	buf := make([]byte, 300)
	_, err = r.ReadAt(buf, 4000)
	require.NoError(t, err)
	assert.Equal(t, data[4000:4300], buf)

	_, err = flash.ReadAt(buf, 6000)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
