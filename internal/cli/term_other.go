//go:build !linux

package cli

import "os"

// IsTerminal reports true on platforms without a termios check
func IsTerminal(f *os.File) bool {
	return f != nil
}
