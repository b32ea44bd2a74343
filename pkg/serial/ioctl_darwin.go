//go:build darwin

package serial

import "golang.org/x/sys/unix"

// macOS termios ioctl numbers
const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
	ioctlTCFlush    = unix.TIOCFLUSH
)
