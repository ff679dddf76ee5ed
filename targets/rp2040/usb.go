//go:build rp2040

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// TinyGo automatically sets up USB CDC-ACM on RP2040
func InitUSB() {
	// Configure machine.Serial (which is USB CDC on RP2040)
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// usbConsole adapts machine.Serial to the console interfaces: the core
// intake polls Buffered/ReadByte and the reporter writes frames.
type usbConsole struct{}

func (usbConsole) Buffered() int {
	return machine.Serial.Buffered()
}

func (usbConsole) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

func (usbConsole) Write(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
