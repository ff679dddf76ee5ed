package console

import (
	"bytes"
	"errors"
	"testing"
)

// chunkWriter accepts at most max bytes per call
type chunkWriter struct {
	buf bytes.Buffer
	max int
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	if len(p) > c.max {
		p = p[:c.max]
	}
	return c.buf.Write(p)
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("endpoint stalled")
}

func TestFlushWriterPartialWrites(t *testing.T) {
	sink := &chunkWriter{max: 3}
	fw := NewFlushWriter(sink)

	n, err := fw.Write([]byte("Potentiometer voltage: 900mV"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 28 || sink.buf.String() != "Potentiometer voltage: 900mV" {
		t.Errorf("Expected whole frame, got %d bytes %q", n, sink.buf.String())
	}
}

func TestFlushWriterDisconnect(t *testing.T) {
	fw := NewFlushWriter(brokenWriter{})

	for i := 0; i < maxWriteFailures; i++ {
		if _, err := fw.Write([]byte("x")); err == nil {
			t.Fatal("Expected write error")
		}
	}
	if fw.Disconnected() {
		t.Fatal("should not be disconnected before the limit")
	}
	if _, err := fw.Write([]byte("x")); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Expected ErrDisconnected, got %v", err)
	}
	if !fw.Disconnected() {
		t.Error("Expected disconnected state")
	}

	fw.Reconnect()
	if fw.Disconnected() {
		t.Error("Reconnect should clear the state")
	}
}
