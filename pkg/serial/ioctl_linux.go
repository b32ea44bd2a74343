//go:build linux

package serial

import "golang.org/x/sys/unix"

// Linux termios ioctl numbers
const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
	ioctlTCFlush    = unix.TCFLSH
)
