//go:build linux || darwin

// Package term puts the controlling terminal into raw mode so single
// keypresses reach the command intake without line buffering.
package term

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Terminal remembers the attributes to restore.
type Terminal struct {
	fd    int
	saved *unix.Termios
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	return err == nil
}

// MakeRaw switches fd to raw mode: no echo, no line discipline, no
// signal keys, one byte per read.
func MakeRaw(fd int) (*Terminal, error) {
	saved, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("term: get attributes: %w", err)
	}

	raw := *saved
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("term: set raw mode: %w", err)
	}
	return &Terminal{fd: fd, saved: saved}, nil
}

// Restore puts back the attributes saved by MakeRaw.
func (t *Terminal) Restore() error {
	if t == nil || t.saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.saved); err != nil {
		return fmt.Errorf("term: restore: %w", err)
	}
	return nil
}
