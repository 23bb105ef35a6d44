package roboclaw

// NVMKey must accompany a write of the settings to non-volatile memory.
const NVMKey uint32 = 0xE22EAB7A

// SetMinMainBattery sets the legacy main battery cutoff, (volts-6)*5.
func (d *Device) SetMinMainBattery(v uint8) error {
	return d.write(OpSetMinMainBattery, int64(v))
}

// SetMaxMainBattery sets the legacy main battery limit, volts*5.12.
func (d *Device) SetMaxMainBattery(v uint8) error {
	return d.write(OpSetMaxMainBattery, int64(v))
}

// SetMinLogicBattery sets the legacy logic battery cutoff.
func (d *Device) SetMinLogicBattery(v uint8) error {
	return d.write(OpSetMinLogicBattery, int64(v))
}

// SetMaxLogicBattery sets the legacy logic battery limit.
func (d *Device) SetMaxLogicBattery(v uint8) error {
	return d.write(OpSetMaxLogicBattery, int64(v))
}

func (d *Device) setVoltageLimits(op Opcode, lim VoltageLimits) error {
	lo, err := ToFixed(lim.Min, voltScale, U16)
	if err != nil {
		return err
	}
	hi, err := ToFixed(lim.Max, voltScale, U16)
	if err != nil {
		return err
	}
	return d.write(op, lo, hi)
}

// SetMainVoltageLimits sets the main battery cutoffs in volts.
func (d *Device) SetMainVoltageLimits(lim VoltageLimits) error {
	return d.setVoltageLimits(OpSetMainVoltages, lim)
}

// SetLogicVoltageLimits sets the logic battery cutoffs in volts.
func (d *Device) SetLogicVoltageLimits(lim VoltageLimits) error {
	return d.setVoltageLimits(OpSetLogicVoltages, lim)
}

// SetMaxCurrent sets the current limit of the channel in amps.
func (d *Device) SetMaxCurrent(m Motor, amps float64) error {
	raw, err := ToFixed(amps, ampScale, U32)
	if err != nil {
		return err
	}
	return d.writeCmd(m.pick(OpSetM1MaxCurrent, OpSetM2MaxCurrent), raw, 0)
}

// SetPinFunctions sets the S3, S4 and S5 pin modes.
func (d *Device) SetPinFunctions(p PinFunctions) error {
	return d.write(OpSetPinFunctions, int64(p.S3), int64(p.S4), int64(p.S5))
}

// SetDeadband sets the RC/analog deadband.
func (d *Device) SetDeadband(db Deadband) error {
	return d.write(OpSetDeadband, int64(db.Reverse), int64(db.Forward))
}

// RestoreDefaults resets all settings to factory defaults. On a TTL serial
// link the baud rate may change and communication be lost.
func (d *Device) RestoreDefaults() error {
	return d.write(OpRestoreDefaults)
}

// SetEncoderMode sets the encoder mode of the channel.
func (d *Device) SetEncoderMode(m Motor, mode uint8) error {
	return d.writeCmd(m.pick(OpSetM1EncoderMode, OpSetM2EncoderMode), int64(mode))
}

// WriteNVM saves the active settings to non-volatile memory.
func (d *Device) WriteNVM() error {
	return d.write(OpWriteNVM, int64(NVMKey))
}

// ReloadNVM restores the settings saved in non-volatile memory. The
// control mode or baud rate may change and communication be lost.
func (d *Device) ReloadNVM() error {
	return d.write(OpReadNVM)
}

// SetConfig writes the configuration word. Changing the serial mode or
// baud rate loses communication.
func (d *Device) SetConfig(config uint16) error {
	return d.write(OpSetConfig, int64(config))
}

// SetPWMMode sets the PWM drive mode.
func (d *Device) SetPWMMode(mode uint8) error {
	return d.write(OpSetPWMMode, int64(mode))
}
