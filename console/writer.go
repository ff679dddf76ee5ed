package console

import (
	"errors"
	"io"
)

// ErrDisconnected is returned once a FlushWriter has given up on its sink.
var ErrDisconnected = errors.New("console: output disconnected")

// maxWriteFailures is how many consecutive failed writes mark the sink
// as disconnected.
const maxWriteFailures = 10

// FlushWriter writes whole frames to a sink that may accept partial
// writes, such as a USB CDC endpoint. After repeated failures it drops
// output until Reconnect is called.
type FlushWriter struct {
	w            io.Writer
	failures     uint32
	disconnected bool
}

// NewFlushWriter wraps w.
func NewFlushWriter(w io.Writer) *FlushWriter {
	return &FlushWriter{w: w}
}

// Write sends all of p, retrying partial writes.
func (fw *FlushWriter) Write(p []byte) (int, error) {
	if fw.disconnected {
		return 0, ErrDisconnected
	}

	written := 0
	for written < len(p) {
		n, err := fw.w.Write(p[written:])
		written += n
		if err != nil || n == 0 {
			// No progress, likely disconnect
			fw.failures++
			if fw.failures > maxWriteFailures {
				fw.disconnected = true
				fw.failures = 0
				return written, ErrDisconnected
			}
			if err == nil {
				err = io.ErrShortWrite
			}
			return written, err
		}
	}
	fw.failures = 0
	return written, nil
}

// Disconnected reports whether the writer has given up on its sink.
func (fw *FlushWriter) Disconnected() bool {
	return fw.disconnected
}

// Reconnect clears the disconnected state.
func (fw *FlushWriter) Reconnect() {
	fw.disconnected = false
	fw.failures = 0
}
