package core

import "io"

// ANSI sequences used by the console display.
const (
	ansiClearScreen = "\x1b[2J\x1b[;H"
	ansiHideCursor  = "\x1b[?25l"
	ansiEraseLine   = "\x1b[K"
	ansiLinesUp     = "\x1b[4F" // Back to the first reading line
)

const bannerText = "****************** SAR ADC: Various Processing of Conversion Result ******************\r\n" +
	"Press 'a' key to decrease the average count:\r\n" +
	"    [256 -> 128 -> 64 -> 32 -> 16 -> 8 -> 4 -> 2 -> 1]\r\n" +
	"Press 'd' key to increase the average count:\r\n" +
	"    [1 -> 2 -> 4 -> 8 -> 16 -> 32 -> 64 -> 128 -> 256]\r\n" +
	"Press 's' key to change the output format:\r\n" +
	"    [(Unsigned/Right Aligned) -> (Signed/Right Aligned) -> (Left Aligned) -> (Unsigned/Right Aligned)...]\r\n\n"

// Reading is one processed conversion, ready for display.
type Reading struct {
	Format     OutputFormat // Active format the sample was converted with
	Count      AverageCount // Active average count
	Raw        uint16       // Signal code as delivered
	Code       uint16       // Right-justified code after the format transform
	Reference  uint16       // Band-gap code
	MilliVolts uint32
}

// Reporter renders readings. Report runs in interrupt context and must
// not block for long.
type Reporter interface {
	Report(r Reading)
}

// MultiReporter fans a reading out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(r Reading) {
	for _, rep := range m {
		rep.Report(r)
	}
}

// ConsoleReporter draws readings as four lines that are redrawn in
// place on an ANSI terminal.
type ConsoleReporter struct {
	w   io.Writer
	buf []byte
}

// NewConsoleReporter creates a reporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w, buf: make([]byte, 0, 160)}
}

// Banner clears the screen, prints the key help and hides the cursor.
func (c *ConsoleReporter) Banner() {
	c.buf = append(c.buf[:0], ansiClearScreen...)
	c.buf = append(c.buf, bannerText...)
	c.buf = append(c.buf, ansiHideCursor...)
	c.w.Write(c.buf)
}

// Report draws r and moves the cursor back so the next report
// overwrites it. The frame goes out in a single Write.
func (c *ConsoleReporter) Report(r Reading) {
	c.buf = AppendReading(c.buf[:0], r)
	c.w.Write(c.buf)
}

// AppendReading appends the display frame for r to dst.
func AppendReading(dst []byte, r Reading) []byte {
	dst = append(dst, "Output format: "...)
	dst = append(dst, r.Format.String()...)
	dst = append(dst, ansiEraseLine+"\r\nAverage count: "...)
	dst = appendUint(dst, uint32(r.Count))
	dst = append(dst, ansiEraseLine+"\r\nConversion result raw value: 0x"...)
	dst = appendHex16(dst, r.Raw)
	dst = append(dst, ansiEraseLine+"\r\nPotentiometer voltage: "...)
	dst = appendUint(dst, r.MilliVolts)
	dst = append(dst, "mV"+ansiEraseLine+"\r\n"+ansiLinesUp...)
	return dst
}
