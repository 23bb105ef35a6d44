// Package drive implements a differential drive on top of a RoboClaw
// controller: velocity commands, odometry and diagnostics.
package drive

import (
	"errors"

	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

// Twist is a velocity command.
type Twist struct {
	// Linear speed (m/s), positive forward.
	Linear float64
	// Angular speed (rad/s), positive counter-clockwise.
	Angular float64
}

// Kinematics converts between body motion and wheel ticks.
type Kinematics struct {
	MaxSpeed      float64
	TicksPerMeter float64
	BaseWidth     float64
	InvertAxes    bool
	FlipLeftRight bool
}

// WheelSpeeds converts the twist into M1 and M2 speeds in ticks/s.
func (k Kinematics) WheelSpeeds(tw Twist) (m1, m2 int32) {
	linear := tw.Linear
	if k.MaxSpeed > 0 {
		if linear > k.MaxSpeed {
			linear = k.MaxSpeed
		} else if linear < -k.MaxSpeed {
			linear = -k.MaxSpeed
		}
	}
	right := linear + tw.Angular*k.BaseWidth/2
	left := linear - tw.Angular*k.BaseWidth/2
	if k.InvertAxes {
		right, left = -right, -left
	}
	if k.FlipLeftRight {
		right, left = left, right
	}
	// truncated toward zero.
	return int32(right * k.TicksPerMeter), int32(left * k.TicksPerMeter)
}

// Wheels maps M1 and M2 encoder counts to left and right wheel ticks.
func (k Kinematics) Wheels(enc1, enc2 int32) (left, right int64) {
	m1, m2 := int64(enc1), int64(enc2)
	if k.InvertAxes {
		m1, m2 = -m1, -m2
	}
	if k.FlipLeftRight {
		return m1, m2
	}
	return m2, m1
}

// Apply commands the twist. Zero wheel speeds release the motors with
// forward 0 instead of holding zero speed under PID control.
func (k Kinematics) Apply(motors Motors, tw Twist) error {
	m1, m2 := k.WheelSpeeds(tw)
	if m1 == 0 && m2 == 0 {
		return Stop(motors)
	}
	return motors.MixedSpeed(m1, m2)
}

// Stop releases both motors. M2 is commanded even if M1 fails.
func Stop(motors Motors) error {
	return errors.Join(motors.Forward(roboclaw.M1, 0), motors.Forward(roboclaw.M2, 0))
}
