package drive

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrEncoderJump indicates an encoder changed more than plausible between
// two updates.
var ErrEncoderJump = errors.New("encoder jump")

// Pose is the position (m) and heading (rad) in the odometry frame.
type Pose struct {
	X, Y  float64
	Theta float64
}

// Velocity is the body velocity.
type Velocity struct {
	Linear  float64
	Angular float64
}

// Odom is one odometry estimate.
type Odom struct {
	Time     time.Time
	Pose     Pose
	Velocity Velocity
}

// Odometry integrates wheel encoder ticks into a pose.
type Odometry struct {
	TicksPerMeter float64
	BaseWidth     float64
	// MaxJump rejects updates with a larger per-wheel change, 0 disables.
	MaxJump int64

	pose      Pose
	lastLeft  int64
	lastRight int64
	lastTime  time.Time
}

// Reset sets the pose to origin and takes the counts as the new baseline.
func (o *Odometry) Reset(left, right int64, now time.Time) {
	o.pose = Pose{}
	o.lastLeft, o.lastRight, o.lastTime = left, right, now
}

// Pose returns the current pose.
func (o *Odometry) Pose() Pose {
	return o.pose
}

// Update integrates the counts read at now. A rejected update doesn't move
// the pose but takes the counts as the new baseline.
func (o *Odometry) Update(left, right int64, now time.Time) (Odom, error) {
	dl, dr := left-o.lastLeft, right-o.lastRight
	dt := now.Sub(o.lastTime).Seconds()
	o.lastLeft, o.lastRight, o.lastTime = left, right, now
	if o.MaxJump > 0 {
		if abs64(dl) > o.MaxJump {
			return Odom{}, fmt.Errorf("%w: left %d ticks", ErrEncoderJump, dl)
		}
		if abs64(dr) > o.MaxJump {
			return Odom{}, fmt.Errorf("%w: right %d ticks", ErrEncoderJump, dr)
		}
	}

	distLeft := float64(dl) / o.TicksPerMeter
	distRight := float64(dr) / o.TicksPerMeter
	dist := (distLeft + distRight) / 2
	var dTheta float64
	if dl == dr {
		o.pose.X += dist * math.Cos(o.pose.Theta)
		o.pose.Y += dist * math.Sin(o.pose.Theta)
	} else {
		dTheta = (distRight - distLeft) / o.BaseWidth
		r := dist / dTheta
		o.pose.X += r * (math.Sin(o.pose.Theta+dTheta) - math.Sin(o.pose.Theta))
		o.pose.Y -= r * (math.Cos(o.pose.Theta+dTheta) - math.Cos(o.pose.Theta))
		o.pose.Theta = NormalizeAngle(o.pose.Theta + dTheta)
	}

	odom := Odom{Time: now, Pose: o.pose}
	if math.Abs(dt) >= 1e-6 {
		odom.Velocity = Velocity{Linear: dist / dt, Angular: dTheta / dt}
	}
	return odom, nil
}

// NormalizeAngle wraps radians into [-π, π].
func NormalizeAngle(r float64) float64 {
	if r >= 2*math.Pi || r <= -2*math.Pi {
		r = math.Remainder(r, 2*math.Pi)
	}
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r < -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
