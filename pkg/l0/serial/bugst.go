package serial

import (
	"go.bug.st/serial"
)

func init() {
	Register(DriverBugst, openBugst)
}

type bugstPort struct {
	serial.Port
}

func openBugst(cfg *Config) (Port, error) {
	port, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, err
		}
	}
	return &bugstPort{Port: port}, nil
}

func (p *bugstPort) DiscardInput() error {
	return p.ResetInputBuffer()
}

// Ports lists the serial ports present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
