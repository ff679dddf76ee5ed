package console

import (
	"errors"
	"io"
	"sync"
)

// ErrEmpty is returned by ReadByte when nothing is buffered.
var ErrEmpty = errors.New("console: fifo empty")

// FifoBuffer is a circular buffer for received console bytes. A reader
// goroutine fills it and the foreground loop drains it without blocking.
type FifoBuffer struct {
	mu    sync.Mutex
	buf   []byte
	read  int
	write int
	size  int

	dropped uint32 // Bytes discarded because the buffer was full
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer and returns how much fit
func (f *FifoBuffer) Write(data []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			f.dropped += uint32(len(data) - written)
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	read := 0
	for i := range data {
		if f.read == f.write {
			// Buffer empty
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// ReadByte removes one byte without blocking
func (f *FifoBuffer) ReadByte() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.read == f.write {
		return 0, ErrEmpty
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, nil
}

// Buffered returns the number of bytes available for reading
func (f *FifoBuffer) Buffered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available()
}

func (f *FifoBuffer) available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size - f.available() - 1
}

// Dropped returns how many bytes were lost to overflow
func (f *FifoBuffer) Dropped() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = 0
	f.write = 0
}

// Fill copies r into the buffer until r fails. Each chunk read from r
// is passed to filter first; filter may drop bytes or return false to
// stop. A nil filter keeps everything. Fill returns nil on io.EOF.
func (f *FifoBuffer) Fill(r io.Reader, filter func([]byte) ([]byte, bool)) error {
	var chunk [64]byte
	for {
		n, err := r.Read(chunk[:])
		if n > 0 {
			data := chunk[:n]
			keep := true
			if filter != nil {
				data, keep = filter(data)
			}
			f.Write(data)
			if !keep {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
