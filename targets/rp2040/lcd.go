//go:build rp2040

package main

import (
	"machine"
	"strconv"

	"tinygo.org/x/drivers/hd44780i2c"

	"sarproc/core"
)

// Common PCF8574 backpack addresses, tried in order.
var lcdAddresses = []uint8{0x27, 0x3F}

// LCDReporter mirrors the reading on a 16x2 character LCD. The I2C
// transfer is slow, so it only redraws when the text changes.
type LCDReporter struct {
	dev  hd44780i2c.Device
	last [2][]byte
	line []byte
}

// NewLCDReporter configures the I2C bus and the first LCD that answers.
func NewLCDReporter(bus *machine.I2C) (*LCDReporter, error) {
	err := bus.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		return nil, err
	}

	for _, addr := range lcdAddresses {
		// Probe with a harmless expander write before handing the address to the driver
		if bus.Tx(uint16(addr), []byte{0}, nil) != nil {
			continue
		}
		dev := hd44780i2c.New(bus, addr)
		if err := dev.Configure(hd44780i2c.Config{Width: 16, Height: 2}); err != nil {
			return nil, err
		}
		dev.ClearDisplay()
		return &LCDReporter{dev: dev, line: make([]byte, 0, 16)}, nil
	}
	return nil, errNoLCD
}

func (l *LCDReporter) Report(r core.Reading) {
	l.line = append(l.line[:0], "V: "...)
	l.line = strconv.AppendUint(l.line, uint64(r.MilliVolts), 10)
	l.line = append(l.line, " mV"...)
	l.draw(0)

	l.line = append(l.line[:0], "avg "...)
	l.line = strconv.AppendUint(l.line, uint64(r.Count), 10)
	l.line = append(l.line, ' ')
	l.line = append(l.line, formatTag(r.Format)...)
	l.draw(1)
}

// draw writes l.line to row y, padded to clear the previous text.
func (l *LCDReporter) draw(y uint8) {
	for len(l.line) < 16 {
		l.line = append(l.line, ' ')
	}
	if string(l.last[y]) == string(l.line) {
		return
	}
	l.last[y] = append(l.last[y][:0], l.line...)
	l.dev.SetCursor(0, y)
	l.dev.Print(l.line)
}

// formatTag is a short form of the format label that fits the LCD.
func formatTag(f core.OutputFormat) string {
	switch f {
	case core.SignedRightAligned:
		return "S/R"
	case core.LeftAligned:
		return "L"
	default:
		return "U/R"
	}
}
