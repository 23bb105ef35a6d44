package roboclaw

import (
	"fmt"
	"math"
)

// Fixed-point scales of PID gains on the wire.
const (
	VelocityPIDScale = 65536
	PositionPIDScale = 1024
)

// ToFixed scales v and rounds it to the nearest integer representable by f.
func ToFixed(v float64, scale float64, f Field) (int64, error) {
	scaled := math.Round(v * scale)
	if math.IsNaN(scaled) || scaled < float64(f.Min()) || scaled > float64(f.Max()) {
		return 0, fmt.Errorf("%w: %g doesn't fit after scaling by %g", ErrInvalidArgument, v, scale)
	}
	return int64(scaled), nil
}

// FromFixed converts a wire integer back to a real value.
func FromFixed(v int64, scale float64) float64 {
	return float64(v) / scale
}

func fixedArgs(scale float64, vals ...float64) ([]int64, error) {
	args := make([]int64, len(vals))
	for n, v := range vals {
		fixed, err := ToFixed(v, scale, U32)
		if err != nil {
			return nil, err
		}
		args[n] = fixed
	}
	return args, nil
}

// VelocityPID are the velocity loop constants. QPPS is the speed in pulses
// per second at full power.
type VelocityPID struct {
	P, I, D float64
	QPPS    uint32
}

// SetVelocityPID writes the velocity loop constants.
func (d *Device) SetVelocityPID(m Motor, pid VelocityPID) error {
	args, err := fixedArgs(VelocityPIDScale, pid.D, pid.P, pid.I)
	if err != nil {
		return err
	}
	args = append(args, int64(pid.QPPS))
	return d.writeCmd(m.pick(OpSetM1VelocityPID, OpSetM2VelocityPID), args...)
}

// ReadVelocityPID reads the velocity loop constants.
func (d *Device) ReadVelocityPID(m Motor) (VelocityPID, error) {
	vals, err := d.read(m.pick(OpGetM1VelocityPID, OpGetM2VelocityPID))
	if err != nil {
		return VelocityPID{}, err
	}
	return VelocityPID{
		P:    FromFixed(vals[0], VelocityPIDScale),
		I:    FromFixed(vals[1], VelocityPIDScale),
		D:    FromFixed(vals[2], VelocityPIDScale),
		QPPS: uint32(vals[3]),
	}, nil
}

// PositionPID are the position loop constants.
type PositionPID struct {
	P, I, D  float64
	IMax     uint32
	Deadzone uint32
	Min      uint32
	Max      uint32
}

// SetPositionPID writes the position loop constants.
func (d *Device) SetPositionPID(m Motor, pid PositionPID) error {
	args, err := fixedArgs(PositionPIDScale, pid.D, pid.P, pid.I)
	if err != nil {
		return err
	}
	args = append(args, int64(pid.IMax), int64(pid.Deadzone), int64(pid.Min), int64(pid.Max))
	return d.writeCmd(m.pick(OpSetM1PositionPID, OpSetM2PositionPID), args...)
}

// ReadPositionPID reads the position loop constants.
func (d *Device) ReadPositionPID(m Motor) (PositionPID, error) {
	vals, err := d.read(m.pick(OpGetM1PositionPID, OpGetM2PositionPID))
	if err != nil {
		return PositionPID{}, err
	}
	return PositionPID{
		P:        FromFixed(vals[0], PositionPIDScale),
		I:        FromFixed(vals[1], PositionPIDScale),
		D:        FromFixed(vals[2], PositionPIDScale),
		IMax:     uint32(vals[3]),
		Deadzone: uint32(vals[4]),
		Min:      uint32(vals[5]),
		Max:      uint32(vals[6]),
	}, nil
}
