package serial

import (
	"github.com/tarm/serial"
)

func init() {
	Register(DriverTarm, openTarm)
}

type tarmPort struct {
	*serial.Port
}

func openTarm(cfg *Config) (Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &tarmPort{Port: port}, nil
}

// DiscardInput flushes both directions, tarm has no input-only flush.
func (p *tarmPort) DiscardInput() error {
	return p.Flush()
}
