// Command forwarding to the motor-control MCU.
//
// The host sends one ASCII frame per channel update:
//
//	T<channel>=<value>\r\n
//
// where value is the throttle command formatted with three decimals,
// e.g. "T1=0.425". The MCU side tolerates dropped frames; the host
// resends the current command on every sample tick it changes.

package serial

import (
	"fmt"
	"io"
	"sync"
)

// CommandLink forwards throttle commands over a serial port. It only
// writes a frame when the value actually changed, keeping the link idle
// while the throttle is released.
type CommandLink struct {
	mu   sync.Mutex
	w    io.Writer
	last map[int]float32
}

// NewCommandLink creates a CommandLink on top of an open port or any
// other writer.
func NewCommandLink(w io.Writer) *CommandLink {
	return &CommandLink{
		w:    w,
		last: make(map[int]float32),
	}
}

// Send forwards a throttle command for a channel. Unchanged values are
// suppressed.
func (l *CommandLink) Send(channel int, value float32) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.last[channel]; ok && prev == value {
		return nil
	}
	if _, err := fmt.Fprintf(l.w, "T%d=%.3f\r\n", channel, value); err != nil {
		return err
	}
	l.last[channel] = value
	return nil
}

// Reset clears the change suppression state so the next Send always
// writes a frame.
func (l *CommandLink) Reset() {
	l.mu.Lock()
	l.last = make(map[int]float32)
	l.mu.Unlock()
}
