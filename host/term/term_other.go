//go:build !linux && !darwin

package term

import "errors"

// ErrUnsupported is returned on platforms without termios.
var ErrUnsupported = errors.New("term: raw mode not supported on this platform")

// Terminal is a placeholder on unsupported platforms.
type Terminal struct{}

// IsTerminal always reports false.
func IsTerminal(fd int) bool {
	return false
}

// MakeRaw always fails.
func MakeRaw(fd int) (*Terminal, error) {
	return nil, ErrUnsupported
}

// Restore is a no-op.
func (t *Terminal) Restore() error {
	return nil
}
