package roboclaw

import "strings"

// ErrorStatus is the controller error word.
type ErrorStatus uint16

// Error status bits.
const (
	ErrM1OverCurrent    ErrorStatus = 0x0001
	ErrM2OverCurrent    ErrorStatus = 0x0002
	ErrEStop            ErrorStatus = 0x0004
	ErrTemperature      ErrorStatus = 0x0008
	ErrTemperature2     ErrorStatus = 0x0010
	ErrMainBatteryHigh  ErrorStatus = 0x0020
	ErrLogicBatteryHigh ErrorStatus = 0x0040
	ErrLogicBatteryLow  ErrorStatus = 0x0080
	ErrM1DriverFault    ErrorStatus = 0x0100
	ErrM2DriverFault    ErrorStatus = 0x0200
	WarnMainBatteryHigh ErrorStatus = 0x0400
	WarnMainBatteryLow  ErrorStatus = 0x0800
	WarnTemperature     ErrorStatus = 0x1000
	WarnTemperature2    ErrorStatus = 0x2000
	StatusM1Home        ErrorStatus = 0x4000
	StatusM2Home        ErrorStatus = 0x8000
)

var errorStatusNames = []struct {
	bit  ErrorStatus
	name string
}{
	{ErrM1OverCurrent, "M1 over current"},
	{ErrM2OverCurrent, "M2 over current"},
	{ErrEStop, "Emergency Stop"},
	{ErrTemperature, "Temperature1"},
	{ErrTemperature2, "Temperature2"},
	{ErrMainBatteryHigh, "Main batt voltage high"},
	{ErrLogicBatteryHigh, "Logic batt voltage high"},
	{ErrLogicBatteryLow, "Logic batt voltage low"},
	{ErrM1DriverFault, "M1 driver fault"},
	{ErrM2DriverFault, "M2 driver fault"},
	{WarnMainBatteryHigh, "Main batt voltage high"},
	{WarnMainBatteryLow, "Main batt voltage low"},
	{WarnTemperature, "Temperature1"},
	{WarnTemperature2, "Temperature2"},
	{StatusM1Home, "M1 home"},
	{StatusM2Home, "M2 home"},
}

// Has checks all bits in mask are set.
func (s ErrorStatus) Has(mask ErrorStatus) bool {
	return s&mask == mask
}

// Bits splits the status into individual set bits, lowest first.
func (s ErrorStatus) Bits() []ErrorStatus {
	var bits []ErrorStatus
	for _, item := range errorStatusNames {
		if s&item.bit != 0 {
			bits = append(bits, item.bit)
		}
	}
	return bits
}

// String implements fmt.Stringer.
func (s ErrorStatus) String() string {
	if s == 0 {
		return "Normal"
	}
	var names []string
	for _, item := range errorStatusNames {
		if s&item.bit != 0 {
			names = append(names, item.name)
		}
	}
	return strings.Join(names, ", ")
}

// Buffers is the number of queued commands per channel; 0x80 means the
// buffer is empty and idle.
type Buffers struct {
	M1, M2 uint8
}

// BufferIdle is reported for an empty buffer with no command running.
const BufferIdle uint8 = 0x80

// PWMs are the current PWM outputs, -32767 to +32767.
type PWMs struct {
	M1, M2 int16
}

// Currents are motor currents in amps.
type Currents struct {
	M1, M2 float64
}

// VoltageLimits are battery cutoffs in volts.
type VoltageLimits struct {
	Min, Max float64
}

// CurrentLimit is the current limit of one channel in amps.
type CurrentLimit struct {
	Max, Min float64
}

// PinFunctions are the modes of pins S3, S4 and S5.
type PinFunctions struct {
	S3, S4, S5 uint8
}

// Deadband is the RC/analog deadband, in tenths of percent.
type Deadband struct {
	Reverse, Forward uint8
}

// EncoderModes are the encoder modes of both channels.
type EncoderModes struct {
	M1, M2 uint8
}

const (
	voltScale    = 10
	ampScale     = 100
	celsiusScale = 10
)

// ReadVersion reads the firmware identification string.
func (d *Device) ReadVersion() (string, error) {
	reply, err := d.conn.Execute(d.addr, mustLookup(OpGetVersion))
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (d *Device) readScaled(op Opcode, scale float64) (float64, error) {
	vals, err := d.read(mustLookup(op))
	if err != nil {
		return 0, err
	}
	return FromFixed(vals[0], scale), nil
}

func (d *Device) readPair(op Opcode) (int64, int64, error) {
	vals, err := d.read(mustLookup(op))
	if err != nil {
		return 0, 0, err
	}
	return vals[0], vals[1], nil
}

// ReadMainBattery reads the main battery voltage in volts.
func (d *Device) ReadMainBattery() (float64, error) {
	return d.readScaled(OpGetMainBattery, voltScale)
}

// ReadLogicBattery reads the logic battery voltage in volts.
func (d *Device) ReadLogicBattery() (float64, error) {
	return d.readScaled(OpGetLogicBattery, voltScale)
}

// ReadTemperature reads the board temperature in degrees Celsius.
func (d *Device) ReadTemperature() (float64, error) {
	return d.readScaled(OpGetTemperature, celsiusScale)
}

// ReadTemperature2 reads the second temperature sensor in degrees Celsius.
func (d *Device) ReadTemperature2() (float64, error) {
	return d.readScaled(OpGetTemperature2, celsiusScale)
}

// ReadError reads the error status word.
func (d *Device) ReadError() (ErrorStatus, error) {
	vals, err := d.read(mustLookup(OpGetError))
	if err != nil {
		return 0, err
	}
	return ErrorStatus(vals[0]), nil
}

// ReadBuffers reads the command buffer depths.
func (d *Device) ReadBuffers() (Buffers, error) {
	m1, m2, err := d.readPair(OpGetBuffers)
	return Buffers{M1: uint8(m1), M2: uint8(m2)}, err
}

// ReadPWMs reads the PWM outputs.
func (d *Device) ReadPWMs() (PWMs, error) {
	m1, m2, err := d.readPair(OpGetPWMs)
	return PWMs{M1: int16(m1), M2: int16(m2)}, err
}

// ReadCurrents reads the motor currents.
func (d *Device) ReadCurrents() (Currents, error) {
	m1, m2, err := d.readPair(OpGetCurrents)
	return Currents{M1: FromFixed(m1, ampScale), M2: FromFixed(m2, ampScale)}, err
}

func (d *Device) readVoltageLimits(op Opcode) (VoltageLimits, error) {
	lo, hi, err := d.readPair(op)
	return VoltageLimits{Min: FromFixed(lo, voltScale), Max: FromFixed(hi, voltScale)}, err
}

// ReadMainVoltageLimits reads the main battery cutoffs.
func (d *Device) ReadMainVoltageLimits() (VoltageLimits, error) {
	return d.readVoltageLimits(OpGetMainVoltages)
}

// ReadLogicVoltageLimits reads the logic battery cutoffs.
func (d *Device) ReadLogicVoltageLimits() (VoltageLimits, error) {
	return d.readVoltageLimits(OpGetLogicVoltages)
}

// ReadMaxCurrent reads the current limit of the channel.
func (d *Device) ReadMaxCurrent(m Motor) (CurrentLimit, error) {
	vals, err := d.read(m.pick(OpGetM1MaxCurrent, OpGetM2MaxCurrent))
	if err != nil {
		return CurrentLimit{}, err
	}
	return CurrentLimit{Max: FromFixed(vals[0], ampScale), Min: FromFixed(vals[1], ampScale)}, nil
}

// ReadPinFunctions reads the S3, S4 and S5 pin modes.
func (d *Device) ReadPinFunctions() (PinFunctions, error) {
	vals, err := d.read(mustLookup(OpGetPinFunctions))
	if err != nil {
		return PinFunctions{}, err
	}
	return PinFunctions{S3: uint8(vals[0]), S4: uint8(vals[1]), S5: uint8(vals[2])}, nil
}

// ReadDeadband reads the RC/analog deadband.
func (d *Device) ReadDeadband() (Deadband, error) {
	rev, fwd, err := d.readPair(OpGetDeadband)
	return Deadband{Reverse: uint8(rev), Forward: uint8(fwd)}, err
}

// ReadEncoderModes reads the encoder modes.
func (d *Device) ReadEncoderModes() (EncoderModes, error) {
	m1, m2, err := d.readPair(OpGetEncoderModes)
	return EncoderModes{M1: uint8(m1), M2: uint8(m2)}, err
}

// ReadConfig reads the configuration word.
func (d *Device) ReadConfig() (uint16, error) {
	vals, err := d.read(mustLookup(OpGetConfig))
	if err != nil {
		return 0, err
	}
	return uint16(vals[0]), nil
}

// ReadPWMMode reads the PWM drive mode.
func (d *Device) ReadPWMMode() (uint8, error) {
	vals, err := d.read(mustLookup(OpGetPWMMode))
	if err != nil {
		return 0, err
	}
	return uint8(vals[0]), nil
}
