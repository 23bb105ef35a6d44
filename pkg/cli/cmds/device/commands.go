// Package device provides shell commands over the typed controller API.
package device

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/roboclaw.go/pkg/cli/sh"
	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

// Encoders are the counts of both channels.
type Encoders struct {
	M1, M2 roboclaw.EncoderReading
}

// Speeds are the measured speeds of both channels.
type Speeds struct {
	M1, M2 roboclaw.SpeedReading
}

// Volts are battery voltages and cutoffs.
type Volts struct {
	Main, Logic             float64
	MainLimits, LogicLimits roboclaw.VoltageLimits
}

// String implements fmt.Stringer.
func (v Volts) String() string {
	return fmt.Sprintf("main=%.1fV [%.1f, %.1f] logic=%.1fV [%.1f, %.1f]",
		v.Main, v.MainLimits.Min, v.MainLimits.Max,
		v.Logic, v.LogicLimits.Min, v.LogicLimits.Max)
}

// Temps are board temperatures in Celsius.
type Temps struct {
	Temp, Temp2 float64
}

// String implements fmt.Stringer.
func (t Temps) String() string {
	return fmt.Sprintf("temp=%.1fC temp2=%.1fC", t.Temp, t.Temp2)
}

// Currents are motor currents and limits in amps.
type Currents struct {
	roboclaw.Currents
	M1Limit, M2Limit roboclaw.CurrentLimit
}

// String implements fmt.Stringer.
func (c Currents) String() string {
	return fmt.Sprintf("M1=%.2fA (max %.2fA) M2=%.2fA (max %.2fA)",
		c.M1, c.M1Limit.Max, c.M2, c.M2Limit.Max)
}

// Version reads the firmware version.
func Version(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return dev.ReadVersion()
}

// ReadEncoders reads both encoders.
func ReadEncoders(dev *roboclaw.Device, _ []string) (interface{}, error) {
	var enc Encoders
	var err error
	if enc.M1, err = dev.ReadEncoder(roboclaw.M1); err != nil {
		return nil, err
	}
	if enc.M2, err = dev.ReadEncoder(roboclaw.M2); err != nil {
		return nil, err
	}
	return enc, nil
}

// ResetEncoders zeroes both encoders.
func ResetEncoders(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return nil, dev.ResetEncoders()
}

// SetEncoder parses "MOTOR COUNT".
func SetEncoder(dev *roboclaw.Device, args []string) (interface{}, error) {
	m, count, err := motorAndInt(args, "COUNT", 32)
	if err != nil {
		return nil, err
	}
	return nil, dev.SetEncoder(m, int32(count))
}

// ReadSpeeds reads the measured speeds.
func ReadSpeeds(dev *roboclaw.Device, _ []string) (interface{}, error) {
	var s Speeds
	var err error
	if s.M1, err = dev.ReadSpeed(roboclaw.M1); err != nil {
		return nil, err
	}
	if s.M2, err = dev.ReadSpeed(roboclaw.M2); err != nil {
		return nil, err
	}
	return s, nil
}

// Speed parses "MOTOR QPPS".
func Speed(dev *roboclaw.Device, args []string) (interface{}, error) {
	m, qpps, err := motorAndInt(args, "QPPS", 32)
	if err != nil {
		return nil, err
	}
	return nil, dev.Speed(m, int32(qpps))
}

// MixedSpeed parses "QPPS1 QPPS2".
func MixedSpeed(dev *roboclaw.Device, args []string) (interface{}, error) {
	if err := expectArgs(args, "QPPS1", "QPPS2"); err != nil {
		return nil, err
	}
	q1, err := parseInt(args[0], "QPPS1", 32)
	if err != nil {
		return nil, err
	}
	q2, err := parseInt(args[1], "QPPS2", 32)
	if err != nil {
		return nil, err
	}
	return nil, dev.MixedSpeed(int32(q1), int32(q2))
}

// Duty parses "MOTOR DUTY".
func Duty(dev *roboclaw.Device, args []string) (interface{}, error) {
	m, duty, err := motorAndInt(args, "DUTY", 16)
	if err != nil {
		return nil, err
	}
	return nil, dev.Duty(m, int16(duty))
}

func drive(backward bool) sh.DeviceFunc {
	return func(dev *roboclaw.Device, args []string) (interface{}, error) {
		m, speed, err := motorAndInt(args, "SPEED", 8)
		if err != nil {
			return nil, err
		}
		if speed < 0 || speed > 127 {
			return nil, fmt.Errorf("%w: SPEED %d out of range [0, 127]", roboclaw.ErrInvalidArgument, speed)
		}
		if backward {
			return nil, dev.Backward(m, uint8(speed))
		}
		return nil, dev.Forward(m, uint8(speed))
	}
}

// Stop commands both channels to zero.
func Stop(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return nil, dev.Stop()
}

// ReadPID parses "MOTOR [vel|pos]".
func ReadPID(dev *roboclaw.Device, args []string) (interface{}, error) {
	if err := expectArgs(args, "MOTOR"); err != nil {
		return nil, err
	}
	m, err := ParseMotor(args[0])
	if err != nil {
		return nil, err
	}
	loop := "vel"
	if len(args) > 1 {
		loop = args[1]
	}
	switch loop {
	case "vel":
		return dev.ReadVelocityPID(m)
	case "pos":
		return dev.ReadPositionPID(m)
	}
	return nil, fmt.Errorf("unknown loop %q, expect vel or pos", loop)
}

// SetPID parses "MOTOR vel P I D QPPS" or
// "MOTOR pos P I D IMAX DEADZONE MIN MAX".
func SetPID(dev *roboclaw.Device, args []string) (interface{}, error) {
	if err := expectArgs(args, "MOTOR", "LOOP"); err != nil {
		return nil, err
	}
	m, err := ParseMotor(args[0])
	if err != nil {
		return nil, err
	}
	switch args[1] {
	case "vel":
		pid, err := ParseVelocityPID(args[2:])
		if err != nil {
			return nil, err
		}
		return nil, dev.SetVelocityPID(m, pid)
	case "pos":
		pid, err := ParsePositionPID(args[2:])
		if err != nil {
			return nil, err
		}
		return nil, dev.SetPositionPID(m, pid)
	}
	return nil, fmt.Errorf("unknown loop %q, expect vel or pos", args[1])
}

// ReadVolts reads battery voltages and cutoffs.
func ReadVolts(dev *roboclaw.Device, _ []string) (interface{}, error) {
	var v Volts
	var err error
	if v.Main, err = dev.ReadMainBattery(); err != nil {
		return nil, err
	}
	if v.Logic, err = dev.ReadLogicBattery(); err != nil {
		return nil, err
	}
	if v.MainLimits, err = dev.ReadMainVoltageLimits(); err != nil {
		return nil, err
	}
	if v.LogicLimits, err = dev.ReadLogicVoltageLimits(); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadTemps reads both temperature sensors.
func ReadTemps(dev *roboclaw.Device, _ []string) (interface{}, error) {
	var t Temps
	var err error
	if t.Temp, err = dev.ReadTemperature(); err != nil {
		return nil, err
	}
	if t.Temp2, err = dev.ReadTemperature2(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadCurrents reads motor currents and limits.
func ReadCurrents(dev *roboclaw.Device, _ []string) (interface{}, error) {
	var c Currents
	var err error
	if c.Currents, err = dev.ReadCurrents(); err != nil {
		return nil, err
	}
	if c.M1Limit, err = dev.ReadMaxCurrent(roboclaw.M1); err != nil {
		return nil, err
	}
	if c.M2Limit, err = dev.ReadMaxCurrent(roboclaw.M2); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadError reads the error status.
func ReadError(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return dev.ReadError()
}

// ReadBuffers reads command buffer depths.
func ReadBuffers(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return dev.ReadBuffers()
}

// ReadPWMs reads PWM outputs.
func ReadPWMs(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return dev.ReadPWMs()
}

// Save writes the settings to non-volatile memory.
func Save(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return nil, dev.WriteNVM()
}

// Stats reports transaction counters of the link.
func Stats(dev *roboclaw.Device, _ []string) (interface{}, error) {
	return dev.Conn().Stats(), nil
}

func cmd(name, alias, help string, fn sh.DeviceFunc) *ishell.Cmd {
	c := &ishell.Cmd{Name: name, Help: help, Func: sh.DeviceCmd(fn)}
	if alias != "" {
		c.Aliases = []string{alias}
	}
	return c
}

// Commands lists the device commands.
var Commands = []*ishell.Cmd{
	cmd("version", "ver", "", Version),
	cmd("enc", "e", "", ReadEncoders),
	cmd("enc.reset", "er", "", ResetEncoders),
	cmd("enc.set", "", "MOTOR COUNT", SetEncoder),
	cmd("speeds", "", "", ReadSpeeds),
	cmd("speed", "s", "MOTOR QPPS", Speed),
	cmd("mspeed", "ms", "QPPS1 QPPS2", MixedSpeed),
	cmd("duty", "", "MOTOR DUTY(-32767..32767)", Duty),
	cmd("fwd", "f", "MOTOR SPEED(0..127)", drive(false)),
	cmd("back", "b", "MOTOR SPEED(0..127)", drive(true)),
	cmd("stop", "x", "", Stop),
	cmd("pid", "", "MOTOR [vel|pos]", ReadPID),
	cmd("pid.set", "", "MOTOR vel P I D QPPS | MOTOR pos P I D IMAX DEADZONE MIN MAX", SetPID),
	cmd("volts", "v", "", ReadVolts),
	cmd("temps", "t", "", ReadTemps),
	cmd("currents", "i", "", ReadCurrents),
	cmd("error", "err", "", ReadError),
	cmd("buffers", "", "", ReadBuffers),
	cmd("pwms", "", "", ReadPWMs),
	cmd("save", "", "", Save),
	cmd("stats", "", "", Stats),
}

func init() {
	sh.AddCmds(Commands...)
}
