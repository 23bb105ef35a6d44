package roboclaw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// controllerSim acks every write and answers reads from payloads keyed by
// opcode.
func controllerSim(payloads map[Opcode][]byte) *fakeTransport {
	return newFakeTransport(func(_ int, req []byte) []byte {
		cmd, ok := Lookup(Opcode(req[1]))
		if !ok {
			return nil
		}
		if !cmd.IsRead() {
			return []byte{0xff}
		}
		return withCRC(req, payloads[cmd.Op]...)
	})
}

func testDevice(t *testing.T, ft *fakeTransport) *Device {
	dev, err := NewConn(ft).Device(testAddr)
	require.NoError(t, err)
	return dev
}

// sent returns the argument bytes of the only request, without address,
// opcode and trailer.
func sent(t *testing.T, ft *fakeTransport, op Opcode) []byte {
	require.Len(t, ft.requests, 1)
	req := ft.requests[0]
	require.Equal(t, byte(op), req[1])
	return req[2 : len(req)-2]
}

func TestDeviceAddress(t *testing.T) {
	conn := NewConn(nil)
	for _, addr := range []Address{0x00, 0x7f, 0x88, 0xff} {
		_, err := conn.Device(addr)
		require.True(t, errors.Is(err, ErrInvalidAddress), addr.String())
	}
	dev, err := conn.Device(0x87)
	require.NoError(t, err)
	require.Equal(t, Address(0x87), dev.Address())
}

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		in   string
		addr Address
		ok   bool
	}{
		{"0x80", 0x80, true},
		{"128", 0x80, true},
		{"0x87", 0x87, true},
		{"0x88", 0, false},
		{"0x7f", 0, false},
		{"0x100", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			addr, err := ParseAddress(tc.in)
			if !tc.ok {
				require.True(t, errors.Is(err, ErrInvalidAddress))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.addr, addr)
		})
	}
}

func TestReadEncoder(t *testing.T) {
	ft := controllerSim(map[Opcode][]byte{
		OpGetM1Encoder: {0, 0, 1, 0x2c, 0},
		OpGetM2Encoder: {0xff, 0xff, 0xff, 0x38, EncoderBackward},
	})
	dev := testDevice(t, ft)

	enc, err := dev.ReadEncoder(M1)
	require.NoError(t, err)
	require.Equal(t, EncoderReading{Count: 300}, enc)
	require.Len(t, ft.requests, 1)
	require.Equal(t, 1, ft.discards)

	enc, err = dev.ReadEncoder(M2)
	require.NoError(t, err)
	require.Equal(t, int32(-200), enc.Count)
	require.True(t, enc.Backward())
	require.False(t, enc.Underflow())
	require.False(t, enc.Overflow())
}

func TestSpeedCommand(t *testing.T) {
	ft := controllerSim(nil)
	require.NoError(t, testDevice(t, ft).Speed(M1, -300))
	require.Equal(t, []byte{0xff, 0xff, 0xfe, 0xd4}, sent(t, ft, OpM1Speed))

	ft = controllerSim(nil)
	require.NoError(t, testDevice(t, ft).Speed(M2, 1000))
	require.Equal(t, []byte{0, 0, 0x03, 0xe8}, sent(t, ft, OpM2Speed))
}

func TestSetEncoderNegative(t *testing.T) {
	ft := controllerSim(nil)
	require.NoError(t, testDevice(t, ft).SetEncoder(M2, -1))
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, sent(t, ft, OpSetM2EncoderCount))
}

func TestSetVelocityPID(t *testing.T) {
	ft := controllerSim(nil)
	err := testDevice(t, ft).SetVelocityPID(M1, VelocityPID{P: 1.5, I: 0.5, D: 0.25, QPPS: 44000})
	require.NoError(t, err)
	require.Equal(t, []byte{
		0, 0, 0x40, 0, // D
		0, 1, 0x80, 0, // P
		0, 0, 0x80, 0, // I
		0, 0, 0xab, 0xe0, // QPPS
	}, sent(t, ft, OpSetM1VelocityPID))
}

func TestSetPositionPID(t *testing.T) {
	ft := controllerSim(nil)
	err := testDevice(t, ft).SetPositionPID(M2, PositionPID{P: 1.5, I: 0, D: 2, IMax: 10, Deadzone: 5, Min: 0, Max: 1000})
	require.NoError(t, err)
	require.Equal(t, []byte{
		0, 0, 0x08, 0, // D 2 * 1024
		0, 0, 0x06, 0, // P 1.5 * 1024 = 1536
		0, 0, 0, 0,
		0, 0, 0, 10,
		0, 0, 0, 5,
		0, 0, 0, 0,
		0, 0, 0x03, 0xe8,
	}, sent(t, ft, OpSetM2PositionPID))
}

func TestPIDRoundTrip(t *testing.T) {
	ft := controllerSim(map[Opcode][]byte{
		OpGetM1VelocityPID: {
			0, 1, 0x80, 0,
			0, 0, 0x80, 0,
			0, 0, 0x40, 0,
			0, 0, 0xab, 0xe0,
		},
		OpGetM1PositionPID: {
			0, 0, 0x06, 0,
			0, 0, 0, 0,
			0, 0, 0x08, 0,
			0, 0, 0, 10,
			0, 0, 0, 5,
			0, 0, 0, 0,
			0, 0, 0x03, 0xe8,
		},
	})
	dev := testDevice(t, ft)

	vpid, err := dev.ReadVelocityPID(M1)
	require.NoError(t, err)
	require.Equal(t, VelocityPID{P: 1.5, I: 0.5, D: 0.25, QPPS: 44000}, vpid)

	ppid, err := dev.ReadPositionPID(M1)
	require.NoError(t, err)
	require.Equal(t, PositionPID{P: 1.5, D: 2, IMax: 10, Deadzone: 5, Max: 1000}, ppid)
}

func TestToFixed(t *testing.T) {
	v, err := ToFixed(1.5, PositionPIDScale, U32)
	require.NoError(t, err)
	require.Equal(t, int64(1536), v)

	v, err = ToFixed(0.1, VelocityPIDScale, U32)
	require.NoError(t, err)
	require.Equal(t, int64(6554), v)

	_, err = ToFixed(-1, VelocityPIDScale, U32)
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = ToFixed(70000, VelocityPIDScale, U32)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSetVelocityPIDRejectsNegativeGain(t *testing.T) {
	ft := controllerSim(nil)
	err := testDevice(t, ft).SetVelocityPID(M1, VelocityPID{P: -1})
	require.True(t, errors.Is(err, ErrInvalidArgument))
	require.Empty(t, ft.requests)
}

func TestStop(t *testing.T) {
	ft := controllerSim(nil)
	require.NoError(t, testDevice(t, ft).Stop())
	require.Len(t, ft.requests, 2)
	require.Equal(t, byte(OpM1Forward), ft.requests[0][1])
	require.Equal(t, byte(OpM2Forward), ft.requests[1][1])
	require.Equal(t, byte(0), ft.requests[0][2])

	// second channel is commanded even when the first fails.
	ft = newFakeTransport(func(attempt int, _ []byte) []byte {
		if attempt <= DefaultRetryPolicy.Attempts {
			return nil
		}
		return []byte{0xff}
	})
	err := testDevice(t, ft).Stop()
	require.True(t, errors.Is(err, ErrShortRead))
	require.Len(t, ft.requests, DefaultRetryPolicy.Attempts+1)
	require.Equal(t, byte(OpM2Forward), ft.requests[DefaultRetryPolicy.Attempts][1])
}

func TestMixedSpeedAccelDistanceOpcode(t *testing.T) {
	ft := controllerSim(nil)
	err := testDevice(t, ft).MixedSpeedAccelDistance(500, 1000, 2000, -1000, 2000, Immediate)
	require.NoError(t, err)
	require.Equal(t, byte(46), ft.requests[0][1])
	require.Len(t, sent(t, ft, OpMixedSpeedAccelDist), 21)
}

func TestSpeedAccelDecelPosition(t *testing.T) {
	ft := controllerSim(nil)
	mv := Move{Accel: 1, Speed: 2, Decel: 3, Position: 4}
	require.NoError(t, testDevice(t, ft).SpeedAccelDecelPosition(M1, mv, Buffered))
	require.Equal(t, []byte{
		0, 0, 0, 1,
		0, 0, 0, 2,
		0, 0, 0, 3,
		0, 0, 0, 4,
		0,
	}, sent(t, ft, OpM1SpeedAccelDecelPos))
}

func TestReadStatus(t *testing.T) {
	ft := controllerSim(map[Opcode][]byte{
		OpGetVersion:       append([]byte("USB Roboclaw 2x15a v4.1.34\n"), 0),
		OpGetMainBattery:   {0, 0xf1},
		OpGetTemperature:   {0x01, 0x0e},
		OpGetError:         {0x08, 0x01},
		OpGetCurrents:      {0x01, 0x2c, 0xff, 0x9c},
		OpGetPWMs:          {0x40, 0, 0xc0, 0},
		OpGetBuffers:       {BufferIdle, 3},
		OpGetMainVoltages:  {0, 0x60, 0x01, 0x2c},
		OpGetM2MaxCurrent:  {0, 0, 0x05, 0xdc, 0, 0, 0, 0},
		OpGetPinFunctions:  {1, 2, 3},
		OpGetEncoderModes:  {0x80, 0},
		OpGetConfig:        {0x80, 0x03},
		OpGetM1Speed:       {0, 0, 0x03, 0xe8, 1},
		OpGetLogicBattery:  {0, 0x32},
		OpGetDeadband:      {5, 6},
		OpGetPWMMode:       {1},
		OpGetTemperature2:  {0, 0xfa},
		OpGetLogicVoltages: {0, 0x3c, 0, 0xfa},
	})
	dev := testDevice(t, ft)

	version, err := dev.ReadVersion()
	require.NoError(t, err)
	require.Equal(t, "USB Roboclaw 2x15a v4.1.34\n", version)

	volts, err := dev.ReadMainBattery()
	require.NoError(t, err)
	require.InDelta(t, 24.1, volts, 1e-9)

	volts, err = dev.ReadLogicBattery()
	require.NoError(t, err)
	require.InDelta(t, 5.0, volts, 1e-9)

	temp, err := dev.ReadTemperature()
	require.NoError(t, err)
	require.InDelta(t, 27.0, temp, 1e-9)

	temp, err = dev.ReadTemperature2()
	require.NoError(t, err)
	require.InDelta(t, 25.0, temp, 1e-9)

	status, err := dev.ReadError()
	require.NoError(t, err)
	require.Equal(t, WarnMainBatteryLow|ErrM1OverCurrent, status)
	require.True(t, status.Has(ErrM1OverCurrent))
	require.Equal(t, []ErrorStatus{ErrM1OverCurrent, WarnMainBatteryLow}, status.Bits())

	currents, err := dev.ReadCurrents()
	require.NoError(t, err)
	require.InDelta(t, 3.0, currents.M1, 1e-9)
	require.InDelta(t, -1.0, currents.M2, 1e-9)

	pwms, err := dev.ReadPWMs()
	require.NoError(t, err)
	require.Equal(t, PWMs{M1: 16384, M2: -16384}, pwms)

	buffers, err := dev.ReadBuffers()
	require.NoError(t, err)
	require.Equal(t, Buffers{M1: BufferIdle, M2: 3}, buffers)

	limits, err := dev.ReadMainVoltageLimits()
	require.NoError(t, err)
	require.InDelta(t, 9.6, limits.Min, 1e-9)
	require.InDelta(t, 30.0, limits.Max, 1e-9)

	limits, err = dev.ReadLogicVoltageLimits()
	require.NoError(t, err)
	require.InDelta(t, 6.0, limits.Min, 1e-9)
	require.InDelta(t, 25.0, limits.Max, 1e-9)

	maxCurrent, err := dev.ReadMaxCurrent(M2)
	require.NoError(t, err)
	require.Equal(t, CurrentLimit{Max: 15}, maxCurrent)

	pins, err := dev.ReadPinFunctions()
	require.NoError(t, err)
	require.Equal(t, PinFunctions{S3: 1, S4: 2, S5: 3}, pins)

	modes, err := dev.ReadEncoderModes()
	require.NoError(t, err)
	require.Equal(t, EncoderModes{M1: 0x80}, modes)

	config, err := dev.ReadConfig()
	require.NoError(t, err)
	require.Equal(t, uint16(0x8003), config)

	speed, err := dev.ReadSpeed(M1)
	require.NoError(t, err)
	require.Equal(t, SpeedReading{Speed: 1000, Direction: 1}, speed)

	deadband, err := dev.ReadDeadband()
	require.NoError(t, err)
	require.Equal(t, Deadband{Reverse: 5, Forward: 6}, deadband)

	mode, err := dev.ReadPWMMode()
	require.NoError(t, err)
	require.Equal(t, uint8(1), mode)
}

func TestErrorStatusString(t *testing.T) {
	require.Equal(t, "Normal", ErrorStatus(0).String())
	require.Equal(t, "M1 over current, Emergency Stop", (ErrM1OverCurrent | ErrEStop).String())
	require.Equal(t, "M2 home", StatusM2Home.String())
}

func TestSettings(t *testing.T) {
	testCases := []struct {
		name string
		call func(*Device) error
		op   Opcode
		args []byte
	}{
		{"main voltages", func(d *Device) error {
			return d.SetMainVoltageLimits(VoltageLimits{Min: 9.6, Max: 30})
		}, OpSetMainVoltages, []byte{0, 0x60, 0x01, 0x2c}},
		{"max current", func(d *Device) error {
			return d.SetMaxCurrent(M1, 15)
		}, OpSetM1MaxCurrent, []byte{0, 0, 0x05, 0xdc, 0, 0, 0, 0}},
		{"write nvm", func(d *Device) error {
			return d.WriteNVM()
		}, OpWriteNVM, []byte{0xe2, 0x2e, 0xab, 0x7a}},
		{"reload nvm", func(d *Device) error {
			return d.ReloadNVM()
		}, OpReadNVM, []byte{}},
		{"config", func(d *Device) error {
			return d.SetConfig(0x8003)
		}, OpSetConfig, []byte{0x80, 0x03}},
		{"deadband", func(d *Device) error {
			return d.SetDeadband(Deadband{Reverse: 5, Forward: 6})
		}, OpSetDeadband, []byte{5, 6}},
		{"encoder mode", func(d *Device) error {
			return d.SetEncoderMode(M2, 0x81)
		}, OpSetM2EncoderMode, []byte{0x81}},
		{"default accel", func(d *Device) error {
			return d.SetDefaultAccel(M2, 10000)
		}, OpSetM2DefaultAccel, []byte{0, 0, 0x27, 0x10}},
		{"min main battery", func(d *Device) error {
			return d.SetMinMainBattery(30)
		}, OpSetMinMainBattery, []byte{30}},
		{"duty accel", func(d *Device) error {
			return d.DutyAccel(M1, -16384, 500)
		}, OpM1DutyAccel, []byte{0xc0, 0, 0, 0, 0x01, 0xf4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ft := controllerSim(nil)
			require.NoError(t, tc.call(testDevice(t, ft)))
			require.Equal(t, tc.args, sent(t, ft, tc.op))
		})
	}
}

func TestMotorString(t *testing.T) {
	require.Equal(t, "M1", M1.String())
	require.Equal(t, "M2", M2.String())
	require.Equal(t, "0x80", testAddr.String())
}
