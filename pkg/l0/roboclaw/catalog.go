package roboclaw

import "fmt"

// Opcode is the command byte defined by the controller firmware.
type Opcode byte

// Opcodes. Values are fixed by the firmware.
const (
	OpM1Forward               Opcode = 0
	OpM1Backward              Opcode = 1
	OpSetMinMainBattery       Opcode = 2
	OpSetMaxMainBattery       Opcode = 3
	OpM2Forward               Opcode = 4
	OpM2Backward              Opcode = 5
	OpM1Drive7Bit             Opcode = 6
	OpM2Drive7Bit             Opcode = 7
	OpMixedForward            Opcode = 8
	OpMixedBackward           Opcode = 9
	OpMixedRight              Opcode = 10
	OpMixedLeft               Opcode = 11
	OpMixedDrive7Bit          Opcode = 12
	OpMixedTurn7Bit           Opcode = 13
	OpGetM1Encoder            Opcode = 16
	OpGetM2Encoder            Opcode = 17
	OpGetM1Speed              Opcode = 18
	OpGetM2Speed              Opcode = 19
	OpResetEncoders           Opcode = 20
	OpGetVersion              Opcode = 21
	OpSetM1EncoderCount       Opcode = 22
	OpSetM2EncoderCount       Opcode = 23
	OpGetMainBattery          Opcode = 24
	OpGetLogicBattery         Opcode = 25
	OpSetMinLogicBattery      Opcode = 26
	OpSetMaxLogicBattery      Opcode = 27
	OpSetM1VelocityPID        Opcode = 28
	OpSetM2VelocityPID        Opcode = 29
	OpGetM1InstSpeed          Opcode = 30
	OpGetM2InstSpeed          Opcode = 31
	OpM1Duty                  Opcode = 32
	OpM2Duty                  Opcode = 33
	OpMixedDuty               Opcode = 34
	OpM1Speed                 Opcode = 35
	OpM2Speed                 Opcode = 36
	OpMixedSpeed              Opcode = 37
	OpM1SpeedAccel            Opcode = 38
	OpM2SpeedAccel            Opcode = 39
	OpMixedSpeedAccel         Opcode = 40
	OpM1SpeedDist             Opcode = 41
	OpM2SpeedDist             Opcode = 42
	OpMixedSpeedDist          Opcode = 43
	OpM1SpeedAccelDist        Opcode = 44
	OpM2SpeedAccelDist        Opcode = 45
	OpMixedSpeedAccelDist     Opcode = 46
	OpGetBuffers              Opcode = 47
	OpGetPWMs                 Opcode = 48
	OpGetCurrents             Opcode = 49
	OpMixedSpeed2Accel        Opcode = 50
	OpMixedSpeed2AccelDist    Opcode = 51
	OpM1DutyAccel             Opcode = 52
	OpM2DutyAccel             Opcode = 53
	OpMixedDutyAccel          Opcode = 54
	OpGetM1VelocityPID        Opcode = 55
	OpGetM2VelocityPID        Opcode = 56
	OpSetMainVoltages         Opcode = 57
	OpSetLogicVoltages        Opcode = 58
	OpGetMainVoltages         Opcode = 59
	OpGetLogicVoltages        Opcode = 60
	OpSetM1PositionPID        Opcode = 61
	OpSetM2PositionPID        Opcode = 62
	OpGetM1PositionPID        Opcode = 63
	OpGetM2PositionPID        Opcode = 64
	OpM1SpeedAccelDecelPos    Opcode = 65
	OpM2SpeedAccelDecelPos    Opcode = 66
	OpMixedSpeedAccelDecelPos Opcode = 67
	OpSetM1DefaultAccel       Opcode = 68
	OpSetM2DefaultAccel       Opcode = 69
	OpSetPinFunctions         Opcode = 74
	OpGetPinFunctions         Opcode = 75
	OpSetDeadband             Opcode = 76
	OpGetDeadband             Opcode = 77
	OpRestoreDefaults         Opcode = 80
	OpGetTemperature          Opcode = 82
	OpGetTemperature2         Opcode = 83
	OpGetError                Opcode = 90
	OpGetEncoderModes         Opcode = 91
	OpSetM1EncoderMode        Opcode = 92
	OpSetM2EncoderMode        Opcode = 93
	OpWriteNVM                Opcode = 94
	OpReadNVM                 Opcode = 95
	OpSetConfig               Opcode = 98
	OpGetConfig               Opcode = 99
	OpSetM1MaxCurrent         Opcode = 133
	OpSetM2MaxCurrent         Opcode = 134
	OpGetM1MaxCurrent         Opcode = 135
	OpGetM2MaxCurrent         Opcode = 136
	OpSetPWMMode              Opcode = 148
	OpGetPWMMode              Opcode = 149
)

// ReplyKind is the shape of a command reply.
type ReplyKind int

// Reply kinds.
const (
	// ReplyAck is a single acknowledge byte after the request trailer.
	ReplyAck ReplyKind = iota
	// ReplyValues is a fixed tuple of fields followed by a trailer.
	ReplyValues
	// ReplyLongs is Count unsigned 32-bit values followed by a trailer.
	ReplyLongs
	// ReplyString is a zero-terminated string followed by a trailer.
	ReplyString
)

// String implements fmt.Stringer.
func (k ReplyKind) String() string {
	switch k {
	case ReplyAck:
		return "ack"
	case ReplyValues:
		return "values"
	case ReplyLongs:
		return "longs"
	case ReplyString:
		return "string"
	}
	return fmt.Sprintf("ReplyKind(%d)", int(k))
}

// Command describes the request and reply shape of one opcode.
type Command struct {
	Name  string
	Op    Opcode
	Args  []Field
	Reply ReplyKind
	// Values is the reply tuple of ReplyValues.
	Values []Field
	// Count is the number of values of ReplyLongs.
	Count int
}

// IsRead indicates the command sends no arguments and no request trailer.
func (c *Command) IsRead() bool {
	return c.Reply != ReplyAck
}

// String implements fmt.Stringer.
func (c *Command) String() string {
	return fmt.Sprintf("%s(%d)", c.Name, c.Op)
}

func write(name string, op Opcode, args ...Field) *Command {
	return &Command{Name: name, Op: op, Args: args, Reply: ReplyAck}
}

func read(name string, op Opcode, values ...Field) *Command {
	return &Command{Name: name, Op: op, Reply: ReplyValues, Values: values}
}

func readLongs(name string, op Opcode, count int) *Command {
	return &Command{Name: name, Op: op, Reply: ReplyLongs, Count: count}
}

func readString(name string, op Opcode) *Command {
	return &Command{Name: name, Op: op, Reply: ReplyString}
}

var commands = []*Command{
	write("M1FORWARD", OpM1Forward, U8),
	write("M1BACKWARD", OpM1Backward, U8),
	write("SETMINMB", OpSetMinMainBattery, U8),
	write("SETMAXMB", OpSetMaxMainBattery, U8),
	write("M2FORWARD", OpM2Forward, U8),
	write("M2BACKWARD", OpM2Backward, U8),
	write("M17BIT", OpM1Drive7Bit, U8),
	write("M27BIT", OpM2Drive7Bit, U8),
	write("MIXEDFORWARD", OpMixedForward, U8),
	write("MIXEDBACKWARD", OpMixedBackward, U8),
	write("MIXEDRIGHT", OpMixedRight, U8),
	write("MIXEDLEFT", OpMixedLeft, U8),
	write("MIXEDFB", OpMixedDrive7Bit, U8),
	write("MIXEDLR", OpMixedTurn7Bit, U8),
	read("GETM1ENC", OpGetM1Encoder, S32, U8),
	read("GETM2ENC", OpGetM2Encoder, S32, U8),
	read("GETM1SPEED", OpGetM1Speed, S32, U8),
	read("GETM2SPEED", OpGetM2Speed, S32, U8),
	write("RESETENC", OpResetEncoders),
	readString("GETVERSION", OpGetVersion),
	write("SETM1ENCCOUNT", OpSetM1EncoderCount, U32),
	write("SETM2ENCCOUNT", OpSetM2EncoderCount, U32),
	read("GETMBATT", OpGetMainBattery, U16),
	read("GETLBATT", OpGetLogicBattery, U16),
	write("SETMINLB", OpSetMinLogicBattery, U8),
	write("SETMAXLB", OpSetMaxLogicBattery, U8),
	write("SETM1PID", OpSetM1VelocityPID, U32, U32, U32, U32),
	write("SETM2PID", OpSetM2VelocityPID, U32, U32, U32, U32),
	read("GETM1ISPEED", OpGetM1InstSpeed, S32, U8),
	read("GETM2ISPEED", OpGetM2InstSpeed, S32, U8),
	write("M1DUTY", OpM1Duty, S16),
	write("M2DUTY", OpM2Duty, S16),
	write("MIXEDDUTY", OpMixedDuty, S16, S16),
	write("M1SPEED", OpM1Speed, S32),
	write("M2SPEED", OpM2Speed, S32),
	write("MIXEDSPEED", OpMixedSpeed, S32, S32),
	write("M1SPEEDACCEL", OpM1SpeedAccel, U32, S32),
	write("M2SPEEDACCEL", OpM2SpeedAccel, U32, S32),
	write("MIXEDSPEEDACCEL", OpMixedSpeedAccel, U32, S32, S32),
	write("M1SPEEDDIST", OpM1SpeedDist, S32, U32, U8),
	write("M2SPEEDDIST", OpM2SpeedDist, S32, U32, U8),
	write("MIXEDSPEEDDIST", OpMixedSpeedDist, S32, U32, S32, U32, U8),
	write("M1SPEEDACCELDIST", OpM1SpeedAccelDist, U32, S32, U32, U8),
	write("M2SPEEDACCELDIST", OpM2SpeedAccelDist, U32, S32, U32, U8),
	write("MIXEDSPEEDACCELDIST", OpMixedSpeedAccelDist, U32, S32, U32, S32, U32, U8),
	read("GETBUFFERS", OpGetBuffers, U8, U8),
	read("GETPWMS", OpGetPWMs, S16, S16),
	read("GETCURRENTS", OpGetCurrents, S16, S16),
	write("MIXEDSPEED2ACCEL", OpMixedSpeed2Accel, U32, S32, U32, S32),
	write("MIXEDSPEED2ACCELDIST", OpMixedSpeed2AccelDist, U32, S32, U32, U32, S32, U32, U8),
	write("M1DUTYACCEL", OpM1DutyAccel, S16, U32),
	write("M2DUTYACCEL", OpM2DutyAccel, S16, U32),
	write("MIXEDDUTYACCEL", OpMixedDutyAccel, S16, U32, S16, U32),
	readLongs("READM1PID", OpGetM1VelocityPID, 4),
	readLongs("READM2PID", OpGetM2VelocityPID, 4),
	write("SETMAINVOLTAGES", OpSetMainVoltages, U16, U16),
	write("SETLOGICVOLTAGES", OpSetLogicVoltages, U16, U16),
	read("GETMINMAXMAINVOLTAGES", OpGetMainVoltages, U16, U16),
	read("GETMINMAXLOGICVOLTAGES", OpGetLogicVoltages, U16, U16),
	write("SETM1POSPID", OpSetM1PositionPID, U32, U32, U32, U32, U32, U32, U32),
	write("SETM2POSPID", OpSetM2PositionPID, U32, U32, U32, U32, U32, U32, U32),
	readLongs("READM1POSPID", OpGetM1PositionPID, 7),
	readLongs("READM2POSPID", OpGetM2PositionPID, 7),
	write("M1SPEEDACCELDECCELPOS", OpM1SpeedAccelDecelPos, U32, U32, U32, U32, U8),
	write("M2SPEEDACCELDECCELPOS", OpM2SpeedAccelDecelPos, U32, U32, U32, U32, U8),
	write("MIXEDSPEEDACCELDECCELPOS", OpMixedSpeedAccelDecelPos, U32, U32, U32, U32, U32, U32, U32, U32, U8),
	write("SETM1DEFAULTACCEL", OpSetM1DefaultAccel, U32),
	write("SETM2DEFAULTACCEL", OpSetM2DefaultAccel, U32),
	write("SETPINFUNCTIONS", OpSetPinFunctions, U8, U8, U8),
	read("GETPINFUNCTIONS", OpGetPinFunctions, U8, U8, U8),
	write("SETDEADBAND", OpSetDeadband, U8, U8),
	read("GETDEADBAND", OpGetDeadband, U8, U8),
	write("RESTOREDEFAULTS", OpRestoreDefaults),
	read("GETTEMP", OpGetTemperature, U16),
	read("GETTEMP2", OpGetTemperature2, U16),
	read("GETERROR", OpGetError, U16),
	read("GETENCODERMODE", OpGetEncoderModes, U8, U8),
	write("SETM1ENCODERMODE", OpSetM1EncoderMode, U8),
	write("SETM2ENCODERMODE", OpSetM2EncoderMode, U8),
	write("WRITENVM", OpWriteNVM, U32),
	write("READNVM", OpReadNVM),
	write("SETCONFIG", OpSetConfig, U16),
	read("GETCONFIG", OpGetConfig, U16),
	write("SETM1MAXCURRENT", OpSetM1MaxCurrent, U32, U32),
	write("SETM2MAXCURRENT", OpSetM2MaxCurrent, U32, U32),
	readLongs("GETM1MAXCURRENT", OpGetM1MaxCurrent, 2),
	readLongs("GETM2MAXCURRENT", OpGetM2MaxCurrent, 2),
	write("SETPWMMODE", OpSetPWMMode, U8),
	read("GETPWMMODE", OpGetPWMMode, U8),
}

// Catalog maps opcodes to their command descriptors. It is read-only.
var Catalog = func() map[Opcode]*Command {
	m := make(map[Opcode]*Command, len(commands))
	for _, cmd := range commands {
		if _, exists := m[cmd.Op]; exists {
			panic("duplicate opcode " + cmd.String())
		}
		m[cmd.Op] = cmd
	}
	return m
}()

// Commands returns all descriptors in opcode order.
func Commands() []*Command {
	return append([]*Command(nil), commands...)
}

// Lookup finds the descriptor of an opcode.
func Lookup(op Opcode) (*Command, bool) {
	cmd, ok := Catalog[op]
	return cmd, ok
}

func mustLookup(op Opcode) *Command {
	cmd, ok := Catalog[op]
	if !ok {
		panic(fmt.Sprintf("opcode %d not in catalog", op))
	}
	return cmd
}
