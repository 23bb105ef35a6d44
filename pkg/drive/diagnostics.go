package drive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

// Level is the severity of a diagnostic.
type Level int

// Levels.
const (
	LevelOK Level = iota
	LevelWarn
	LevelError
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelOK:
		return "OK"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

var statusLevels = map[roboclaw.ErrorStatus]Level{
	roboclaw.ErrM1OverCurrent:    LevelWarn,
	roboclaw.ErrM2OverCurrent:    LevelWarn,
	roboclaw.ErrEStop:            LevelError,
	roboclaw.ErrTemperature:      LevelError,
	roboclaw.ErrTemperature2:     LevelError,
	roboclaw.ErrMainBatteryHigh:  LevelError,
	roboclaw.ErrLogicBatteryHigh: LevelError,
	roboclaw.ErrLogicBatteryLow:  LevelError,
	roboclaw.ErrM1DriverFault:    LevelWarn,
	roboclaw.ErrM2DriverFault:    LevelWarn,
	roboclaw.WarnMainBatteryHigh: LevelWarn,
	roboclaw.WarnMainBatteryLow:  LevelWarn,
	roboclaw.WarnTemperature:     LevelWarn,
	roboclaw.WarnTemperature2:    LevelWarn,
	roboclaw.StatusM1Home:        LevelOK,
	roboclaw.StatusM2Home:        LevelOK,
}

// StatusLevel returns the most severe level of the set bits.
func StatusLevel(status roboclaw.ErrorStatus) Level {
	level := LevelOK
	for _, bit := range status.Bits() {
		if l := statusLevels[bit]; l > level {
			level = l
		}
	}
	return level
}

// Diagnostics is a snapshot of the controller health.
type Diagnostics struct {
	Time    time.Time
	Level   Level
	Status  roboclaw.ErrorStatus
	Message string

	MainBattery  float64
	LogicBattery float64
	Temperature  float64
	Temperature2 float64
}

// String implements fmt.Stringer.
func (d Diagnostics) String() string {
	var w strings.Builder
	fmt.Fprintf(&w, "%s %s", d.Level, d.Message)
	fmt.Fprintf(&w, " main=%.1fV logic=%.1fV temp=%.1fC temp2=%.1fC",
		d.MainBattery, d.LogicBattery, d.Temperature, d.Temperature2)
	return w.String()
}

// ReadDiagnostics reads the error status and vitals. The status is
// required; failed vitals are reported in the error but the snapshot is
// still returned with what was read.
func ReadDiagnostics(v Vitals, now time.Time) (*Diagnostics, error) {
	status, err := v.ReadError()
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}
	d := &Diagnostics{
		Time:    now,
		Level:   StatusLevel(status),
		Status:  status,
		Message: status.String(),
	}
	var errs []error
	read := func(name string, fn func() (float64, error), out *float64) {
		val, err := fn()
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", name, err))
			return
		}
		*out = val
	}
	read("main battery", v.ReadMainBattery, &d.MainBattery)
	read("logic battery", v.ReadLogicBattery, &d.LogicBattery)
	read("temperature", v.ReadTemperature, &d.Temperature)
	read("temperature2", v.ReadTemperature2, &d.Temperature2)
	return d, errors.Join(errs...)
}
