package console

import (
	"errors"
	"strings"
	"testing"
)

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if !fifo.IsEmpty() {
		t.Error("New FIFO should be empty")
	}
	if _, err := fifo.ReadByte(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty from empty FIFO, got %v", err)
	}

	written := fifo.Write([]byte("asd"))
	if written != 3 {
		t.Errorf("Expected to write 3 bytes, wrote %d", written)
	}
	if fifo.Buffered() != 3 {
		t.Errorf("Expected 3 bytes buffered, got %d", fifo.Buffered())
	}

	b, err := fifo.ReadByte()
	if err != nil || b != 'a' {
		t.Errorf("Expected 'a', got %q (%v)", b, err)
	}
	if fifo.Buffered() != 2 {
		t.Errorf("After one ReadByte, expected 2 buffered, got %d", fifo.Buffered())
	}

	// One slot is reserved, so a size-10 FIFO stores 9
	fifo.Reset()
	written = fifo.Write(make([]byte, 12))
	if written != 9 {
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
	if fifo.Dropped() != 3 {
		t.Errorf("Expected 3 dropped bytes, got %d", fifo.Dropped())
	}
	if fifo.Free() != 0 {
		t.Errorf("Expected full FIFO, %d free", fifo.Free())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	readBuf := make([]byte, 2)
	fifo.Read(readBuf)

	// Write more (will wrap around)
	if written := fifo.Write([]byte{5, 6}); written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	var got []byte
	for fifo.Buffered() > 0 {
		b, _ := fifo.ReadByte()
		got = append(got, b)
	}
	if string(got) != string([]byte{3, 4, 5, 6}) {
		t.Errorf("Wrap-around data mismatch: got %v", got)
	}
}

func TestFifoBufferFill(t *testing.T) {
	fifo := NewFifoBuffer(32)

	err := fifo.Fill(strings.NewReader("dds\x03ignored"), func(p []byte) ([]byte, bool) {
		for i, b := range p {
			if b == 0x03 {
				return p[:i], false
			}
		}
		return p, true
	})
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	got := make([]byte, 8)
	n := fifo.Read(got)
	if string(got[:n]) != "dds" {
		t.Errorf("Expected \"dds\", got %q", got[:n])
	}
}
