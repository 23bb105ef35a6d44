package roboclaw

// Encoder status bits.
const (
	EncoderUnderflow uint8 = 0x01
	EncoderBackward  uint8 = 0x02
	EncoderOverflow  uint8 = 0x04
)

// EncoderReading is the count of one quadrature encoder.
type EncoderReading struct {
	Count  int32
	Status uint8
}

// Underflow indicates the counter wrapped below zero.
func (e EncoderReading) Underflow() bool { return e.Status&EncoderUnderflow != 0 }

// Backward indicates the motor is turning backward.
func (e EncoderReading) Backward() bool { return e.Status&EncoderBackward != 0 }

// Overflow indicates the counter wrapped above the maximum.
func (e EncoderReading) Overflow() bool { return e.Status&EncoderOverflow != 0 }

// SpeedReading is a measured speed. Direction is 0 forward, 1 backward.
type SpeedReading struct {
	Speed     int32
	Direction uint8
}

func (d *Device) readCounter(cmd *Command) (int32, uint8, error) {
	vals, err := d.read(cmd)
	if err != nil {
		return 0, 0, err
	}
	return int32(vals[0]), uint8(vals[1]), nil
}

// ReadEncoder reads the encoder count.
func (d *Device) ReadEncoder(m Motor) (EncoderReading, error) {
	count, status, err := d.readCounter(m.pick(OpGetM1Encoder, OpGetM2Encoder))
	return EncoderReading{Count: count, Status: status}, err
}

// ReadSpeed reads the speed in pulses per second.
func (d *Device) ReadSpeed(m Motor) (SpeedReading, error) {
	speed, dir, err := d.readCounter(m.pick(OpGetM1Speed, OpGetM2Speed))
	return SpeedReading{Speed: speed, Direction: dir}, err
}

// ReadInstSpeed reads the raw speed in pulses per 1/300 second.
func (d *Device) ReadInstSpeed(m Motor) (SpeedReading, error) {
	speed, dir, err := d.readCounter(m.pick(OpGetM1InstSpeed, OpGetM2InstSpeed))
	return SpeedReading{Speed: speed, Direction: dir}, err
}

// ResetEncoders zeroes both encoder counters.
func (d *Device) ResetEncoders() error {
	return d.write(OpResetEncoders)
}

// SetEncoder sets the encoder counter.
func (d *Device) SetEncoder(m Motor, count int32) error {
	return d.writeCmd(m.pick(OpSetM1EncoderCount, OpSetM2EncoderCount), int64(uint32(count)))
}
