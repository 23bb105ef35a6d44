package drive

import (
	"context"
	"errors"
	"fmt"

	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

var errNoReply = errors.New("no reply")

// fakeMotors records commands and serves readings.
type fakeMotors struct {
	calls []string

	enc       [2]int32
	encErr    error
	status    roboclaw.ErrorStatus
	statusErr error
	battErr   error
	// forwardFails fails this many Forward calls.
	forwardFails int
}

func (m *fakeMotors) Forward(motor roboclaw.Motor, speed uint8) error {
	m.calls = append(m.calls, fmt.Sprintf("forward %s %d", motor, speed))
	if m.forwardFails > 0 {
		m.forwardFails--
		return errNoReply
	}
	return nil
}

func (m *fakeMotors) MixedSpeed(qpps1, qpps2 int32) error {
	m.calls = append(m.calls, fmt.Sprintf("speed %d %d", qpps1, qpps2))
	return nil
}

func (m *fakeMotors) ResetEncoders() error {
	m.calls = append(m.calls, "reset")
	return nil
}

func (m *fakeMotors) ReadEncoder(motor roboclaw.Motor) (roboclaw.EncoderReading, error) {
	if m.encErr != nil {
		return roboclaw.EncoderReading{}, m.encErr
	}
	return roboclaw.EncoderReading{Count: m.enc[motor-1]}, nil
}

func (m *fakeMotors) ReadVersion() (string, error) {
	return "USB Roboclaw 2x7a v4.1.34\n", nil
}

func (m *fakeMotors) ReadError() (roboclaw.ErrorStatus, error) {
	return m.status, m.statusErr
}

func (m *fakeMotors) ReadMainBattery() (float64, error) {
	return 12.3, m.battErr
}

func (m *fakeMotors) ReadLogicBattery() (float64, error) {
	return 5, nil
}

func (m *fakeMotors) ReadTemperature() (float64, error) {
	return 30.5, nil
}

func (m *fakeMotors) ReadTemperature2() (float64, error) {
	return 31, nil
}

type fakePublisher struct {
	odoms []*Odom
	diags []*Diagnostics
}

func (p *fakePublisher) PublishOdometry(_ context.Context, o *Odom) error {
	p.odoms = append(p.odoms, o)
	return nil
}

func (p *fakePublisher) PublishDiagnostics(_ context.Context, d *Diagnostics) error {
	p.diags = append(p.diags, d)
	return nil
}
