package drive

import (
	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

// Motors is the part of a roboclaw.Device the drive uses.
type Motors interface {
	Forward(m roboclaw.Motor, speed uint8) error
	MixedSpeed(qpps1, qpps2 int32) error
	ResetEncoders() error
	ReadEncoder(m roboclaw.Motor) (roboclaw.EncoderReading, error)
	ReadVersion() (string, error)
	Vitals
}

// Vitals are the health readings of a controller.
type Vitals interface {
	ReadError() (roboclaw.ErrorStatus, error)
	ReadMainBattery() (float64, error)
	ReadLogicBattery() (float64, error)
	ReadTemperature() (float64, error)
	ReadTemperature2() (float64, error)
}

var _ Motors = (*roboclaw.Device)(nil)

// Channels.
const (
	M1 = roboclaw.M1
	M2 = roboclaw.M2
)
