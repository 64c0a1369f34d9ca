package monitor

import "errors"

var (
	// ErrConnectionLost wraps a read or write failure on an open
	// session. The supervisor reconnects when it sees it.
	ErrConnectionLost = errors.New("connection lost")

	// ErrInterrupted is returned when the operator interrupts while the
	// supervisor is waiting for the device.
	ErrInterrupted = errors.New("interrupted while waiting for device")
)
