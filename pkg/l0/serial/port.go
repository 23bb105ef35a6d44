// Package serial opens serial ports as roboclaw transports.
package serial

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Driver names.
const (
	DriverBugst = "bugst"
	DriverTarm  = "tarm"
)

var (
	// ErrClosed indicates the port was closed.
	ErrClosed = errors.New("serial port closed")
	// ErrUnknownDriver indicates no driver registered under the name.
	ErrUnknownDriver = errors.New("unknown serial driver")
)

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3").
	Device string
	// Baud rate. USB connected controllers ignore it.
	Baud int
	// ReadTimeout bounds every Read.
	ReadTimeout time.Duration
	// Driver selects the implementation, DriverBugst when empty.
	Driver string
}

// DefaultConfig returns the configuration of a USB connected controller.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 10 * time.Millisecond,
		Driver:      DriverBugst,
	}
}

// Port is an open serial port.
type Port interface {
	io.ReadWriteCloser
	// DiscardInput drops any received but unread bytes.
	DiscardInput() error
}

// Opener opens the device described by cfg.
type Opener func(cfg *Config) (Port, error)

var (
	driversLock sync.RWMutex
	drivers     = make(map[string]Opener)
)

// Register makes a driver available by name.
func Register(name string, opener Opener) {
	driversLock.Lock()
	defer driversLock.Unlock()
	drivers[name] = opener
}

// Drivers lists registered driver names.
func Drivers() []string {
	driversLock.RLock()
	defer driversLock.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the port with the configured driver. The returned Port
// reports ErrClosed from every operation after Close.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	name := cfg.Driver
	if name == "" {
		name = DriverBugst
	}
	driversLock.RLock()
	opener := drivers[name]
	driversLock.RUnlock()
	if opener == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	p, err := opener(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return &guardedPort{port: p}, nil
}

type guardedPort struct {
	port   Port
	lock   sync.RWMutex
	closed bool
}

func (p *guardedPort) Read(b []byte) (int, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.closed {
		return 0, ErrClosed
	}
	return p.port.Read(b)
}

func (p *guardedPort) Write(b []byte) (int, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.closed {
		return 0, ErrClosed
	}
	return p.port.Write(b)
}

func (p *guardedPort) DiscardInput() error {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.closed {
		return ErrClosed
	}
	return p.port.DiscardInput()
}

func (p *guardedPort) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	return p.port.Close()
}
