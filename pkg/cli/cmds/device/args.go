package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

// ParseMotor accepts 1, 2, m1 or m2.
func ParseMotor(s string) (roboclaw.Motor, error) {
	switch strings.ToLower(s) {
	case "1", "m1":
		return roboclaw.M1, nil
	case "2", "m2":
		return roboclaw.M2, nil
	}
	return 0, fmt.Errorf("invalid MOTOR %q, expect M1 or M2", s)
}

func parseInt(s, name string, bits int) (int64, error) {
	v, err := strconv.ParseInt(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

func parseUint(s, name string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

func parseFloat(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

// expectArgs checks the count of arguments against the names.
func expectArgs(args []string, names ...string) error {
	if len(args) < len(names) {
		return fmt.Errorf("%s required", strings.Join(names[len(args):], " "))
	}
	return nil
}

// motorAndInt parses "MOTOR VALUE".
func motorAndInt(args []string, name string, bits int) (roboclaw.Motor, int64, error) {
	if err := expectArgs(args, "MOTOR", name); err != nil {
		return 0, 0, err
	}
	m, err := ParseMotor(args[0])
	if err != nil {
		return 0, 0, err
	}
	v, err := parseInt(args[1], name, bits)
	return m, v, err
}

// ParseVelocityPID parses "P I D QPPS".
func ParseVelocityPID(args []string) (roboclaw.VelocityPID, error) {
	var pid roboclaw.VelocityPID
	if err := expectArgs(args, "P", "I", "D", "QPPS"); err != nil {
		return pid, err
	}
	gains, err := parseGains(args[:3])
	if err != nil {
		return pid, err
	}
	qpps, err := parseUint(args[3], "QPPS", 32)
	if err != nil {
		return pid, err
	}
	pid.P, pid.I, pid.D, pid.QPPS = gains[0], gains[1], gains[2], uint32(qpps)
	return pid, nil
}

// ParsePositionPID parses "P I D IMAX DEADZONE MIN MAX".
func ParsePositionPID(args []string) (roboclaw.PositionPID, error) {
	var pid roboclaw.PositionPID
	if err := expectArgs(args, "P", "I", "D", "IMAX", "DEADZONE", "MIN", "MAX"); err != nil {
		return pid, err
	}
	gains, err := parseGains(args[:3])
	if err != nil {
		return pid, err
	}
	var limits [4]uint32
	for n, name := range []string{"IMAX", "DEADZONE", "MIN", "MAX"} {
		v, err := parseUint(args[3+n], name, 32)
		if err != nil {
			return pid, err
		}
		limits[n] = uint32(v)
	}
	pid.P, pid.I, pid.D = gains[0], gains[1], gains[2]
	pid.IMax, pid.Deadzone, pid.Min, pid.Max = limits[0], limits[1], limits[2], limits[3]
	return pid, nil
}

func parseGains(args []string) ([]float64, error) {
	gains := make([]float64, len(args))
	for n, name := range []string{"P", "I", "D"}[:len(args)] {
		v, err := parseFloat(args[n], name)
		if err != nil {
			return nil, err
		}
		gains[n] = v
	}
	return gains, nil
}
