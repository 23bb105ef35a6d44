package roboclaw

import "errors"

// BufferMode selects whether a distance/position command is queued behind
// the running one or replaces it.
type BufferMode uint8

// Buffer modes.
const (
	Buffered  BufferMode = 0
	Immediate BufferMode = 1
)

// Move is one leg of a speed/accel/decel/position command.
type Move struct {
	Accel    uint32
	Speed    uint32
	Decel    uint32
	Position uint32
}

func (mv Move) args() []int64 {
	return []int64{int64(mv.Accel), int64(mv.Speed), int64(mv.Decel), int64(mv.Position)}
}

// Forward drives the motor forward, 0 (stop) to 127 (full speed).
func (d *Device) Forward(m Motor, speed uint8) error {
	return d.writeCmd(m.pick(OpM1Forward, OpM2Forward), int64(speed))
}

// Backward drives the motor backward, 0 (stop) to 127 (full speed).
func (d *Device) Backward(m Motor, speed uint8) error {
	return d.writeCmd(m.pick(OpM1Backward, OpM2Backward), int64(speed))
}

// Drive7Bit drives the motor with 0 full backward, 64 stop, 127 full forward.
func (d *Device) Drive7Bit(m Motor, value uint8) error {
	return d.writeCmd(m.pick(OpM1Drive7Bit, OpM2Drive7Bit), int64(value))
}

// MixedForward drives forward in mixed mode.
func (d *Device) MixedForward(speed uint8) error {
	return d.write(OpMixedForward, int64(speed))
}

// MixedBackward drives backward in mixed mode.
func (d *Device) MixedBackward(speed uint8) error {
	return d.write(OpMixedBackward, int64(speed))
}

// MixedRight turns right in mixed mode.
func (d *Device) MixedRight(speed uint8) error {
	return d.write(OpMixedRight, int64(speed))
}

// MixedLeft turns left in mixed mode.
func (d *Device) MixedLeft(speed uint8) error {
	return d.write(OpMixedLeft, int64(speed))
}

// MixedDrive7Bit drives forward/backward in mixed mode, 64 is stop.
func (d *Device) MixedDrive7Bit(value uint8) error {
	return d.write(OpMixedDrive7Bit, int64(value))
}

// MixedTurn7Bit turns left/right in mixed mode, 64 is straight.
func (d *Device) MixedTurn7Bit(value uint8) error {
	return d.write(OpMixedTurn7Bit, int64(value))
}

// Stop commands zero forward speed on both channels. Both channels are
// attempted even if the first fails.
func (d *Device) Stop() error {
	return errors.Join(d.Forward(M1, 0), d.Forward(M2, 0))
}

// Duty sets the signed duty cycle, -32767 to +32767.
func (d *Device) Duty(m Motor, duty int16) error {
	return d.writeCmd(m.pick(OpM1Duty, OpM2Duty), int64(duty))
}

// MixedDuty sets the duty cycle of both channels.
func (d *Device) MixedDuty(duty1, duty2 int16) error {
	return d.write(OpMixedDuty, int64(duty1), int64(duty2))
}

// DutyAccel ramps to the duty cycle with the acceleration.
func (d *Device) DutyAccel(m Motor, duty int16, accel uint32) error {
	return d.writeCmd(m.pick(OpM1DutyAccel, OpM2DutyAccel), int64(duty), int64(accel))
}

// MixedDutyAccel ramps both channels.
func (d *Device) MixedDutyAccel(duty1 int16, accel1 uint32, duty2 int16, accel2 uint32) error {
	return d.write(OpMixedDutyAccel, int64(duty1), int64(accel1), int64(duty2), int64(accel2))
}

// Speed sets the signed speed in encoder quadrature pulses per second.
func (d *Device) Speed(m Motor, qpps int32) error {
	return d.writeCmd(m.pick(OpM1Speed, OpM2Speed), int64(qpps))
}

// MixedSpeed sets the speed of both channels in one transaction.
func (d *Device) MixedSpeed(qpps1, qpps2 int32) error {
	return d.write(OpMixedSpeed, int64(qpps1), int64(qpps2))
}

// SpeedAccel ramps to the speed with the acceleration.
func (d *Device) SpeedAccel(m Motor, accel uint32, qpps int32) error {
	return d.writeCmd(m.pick(OpM1SpeedAccel, OpM2SpeedAccel), int64(accel), int64(qpps))
}

// MixedSpeedAccel ramps both channels with a shared acceleration.
func (d *Device) MixedSpeedAccel(accel uint32, qpps1, qpps2 int32) error {
	return d.write(OpMixedSpeedAccel, int64(accel), int64(qpps1), int64(qpps2))
}

// MixedSpeed2Accel ramps both channels with individual accelerations.
func (d *Device) MixedSpeed2Accel(accel1 uint32, qpps1 int32, accel2 uint32, qpps2 int32) error {
	return d.write(OpMixedSpeed2Accel, int64(accel1), int64(qpps1), int64(accel2), int64(qpps2))
}

// SpeedDistance runs at speed for a distance in encoder counts.
func (d *Device) SpeedDistance(m Motor, qpps int32, distance uint32, mode BufferMode) error {
	return d.writeCmd(m.pick(OpM1SpeedDist, OpM2SpeedDist),
		int64(qpps), int64(distance), int64(mode))
}

// MixedSpeedDistance runs both channels for a distance.
func (d *Device) MixedSpeedDistance(qpps1 int32, distance1 uint32, qpps2 int32, distance2 uint32, mode BufferMode) error {
	return d.write(OpMixedSpeedDist,
		int64(qpps1), int64(distance1), int64(qpps2), int64(distance2), int64(mode))
}

// SpeedAccelDistance ramps to speed and runs for a distance.
func (d *Device) SpeedAccelDistance(m Motor, accel uint32, qpps int32, distance uint32, mode BufferMode) error {
	return d.writeCmd(m.pick(OpM1SpeedAccelDist, OpM2SpeedAccelDist),
		int64(accel), int64(qpps), int64(distance), int64(mode))
}

// MixedSpeedAccelDistance ramps both channels with a shared acceleration.
func (d *Device) MixedSpeedAccelDistance(accel uint32, qpps1 int32, distance1 uint32, qpps2 int32, distance2 uint32, mode BufferMode) error {
	return d.write(OpMixedSpeedAccelDist,
		int64(accel), int64(qpps1), int64(distance1), int64(qpps2), int64(distance2), int64(mode))
}

// MixedSpeed2AccelDistance ramps both channels with individual accelerations.
func (d *Device) MixedSpeed2AccelDistance(accel1 uint32, qpps1 int32, distance1 uint32,
	accel2 uint32, qpps2 int32, distance2 uint32, mode BufferMode) error {
	return d.write(OpMixedSpeed2AccelDist,
		int64(accel1), int64(qpps1), int64(distance1),
		int64(accel2), int64(qpps2), int64(distance2), int64(mode))
}

// SpeedAccelDecelPosition moves to an absolute encoder position.
func (d *Device) SpeedAccelDecelPosition(m Motor, mv Move, mode BufferMode) error {
	args := append(mv.args(), int64(mode))
	return d.writeCmd(m.pick(OpM1SpeedAccelDecelPos, OpM2SpeedAccelDecelPos), args...)
}

// MixedSpeedAccelDecelPosition moves both channels to absolute positions.
func (d *Device) MixedSpeedAccelDecelPosition(mv1, mv2 Move, mode BufferMode) error {
	args := append(append(mv1.args(), mv2.args()...), int64(mode))
	return d.write(OpMixedSpeedAccelDecelPos, args...)
}

// SetDefaultAccel sets the acceleration used by duty commands without one.
func (d *Device) SetDefaultAccel(m Motor, accel uint32) error {
	return d.writeCmd(m.pick(OpSetM1DefaultAccel, OpSetM2DefaultAccel), int64(accel))
}
