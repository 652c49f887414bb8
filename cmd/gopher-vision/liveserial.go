package main

import (
	"time"

	"github.com/tarm/serial"
)

// serialPort abstracts tarm/serial for testability, mirroring the shape the
// teacher's internal/serial package exposes over the same library.
type serialPort interface {
	Read(p []byte) (int, error)
	Close() error
}

// openSerialPort is a hook so tests can substitute a fake port.
var openSerialPort = func(name string, baud int, readTimeout time.Duration) (serialPort, error) {
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: readTimeout}
	return serial.OpenPort(cfg)
}
