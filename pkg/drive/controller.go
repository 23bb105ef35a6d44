package drive

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/roboclaw.go/pkg/framework"
)

// Publisher receives the estimates of the drive.
type Publisher interface {
	PublishOdometry(context.Context, *Odom) error
	PublishDiagnostics(context.Context, *Diagnostics) error
}

// TwistMsg is posted to the loop to command the drive.
type TwistMsg struct {
	Twist Twist
}

// Defaults of Controller.
const (
	DefaultCommandTimeout = time.Second
	DefaultVitalsInterval = time.Second
	DefaultStopAttempts   = 2
)

// Controller drives the motors from velocity commands and reports
// odometry and diagnostics.
type Controller struct {
	Motors     Motors
	Kinematics Kinematics
	Odometry   Odometry
	Publisher  Publisher

	// CommandTimeout stops the motors when no command arrived in time.
	CommandTimeout time.Duration
	// VitalsInterval is the period of diagnostics.
	VitalsInterval time.Duration
	// StopAttempts bounds the stop on shutdown.
	StopAttempts int

	lastCommand time.Time
	lastVitals  time.Time
	idle        bool
}

// NewController creates a Controller.
func NewController(motors Motors, kin Kinematics, pub Publisher) *Controller {
	return &Controller{
		Motors:     motors,
		Kinematics: kin,
		Odometry: Odometry{
			TicksPerMeter: kin.TicksPerMeter,
			BaseWidth:     kin.BaseWidth,
		},
		Publisher:      pub,
		CommandTimeout: DefaultCommandTimeout,
		VitalsInterval: DefaultVitalsInterval,
		StopAttempts:   DefaultStopAttempts,
	}
}

// Name implements Named.
func (c *Controller) Name() string {
	return "drive"
}

// Init brings the controller to a known state: motors at zero speed,
// encoders and pose at zero.
func (c *Controller) Init(now time.Time) error {
	if version, err := c.Motors.ReadVersion(); err != nil {
		glog.Warningf("read version failed: %v", err)
	} else {
		glog.Infof("controller %q", version)
	}
	if err := c.Motors.MixedSpeed(0, 0); err != nil {
		return err
	}
	if err := c.Motors.ResetEncoders(); err != nil {
		return err
	}
	c.Odometry.Reset(0, 0, now)
	c.lastCommand = now
	return nil
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvActuate, fx.ControlFunc(c.actuate))
	l.AddController(fx.PrLvSense, fx.ControlFunc(c.sense))
	l.AddController(fx.PrLvReport, fx.ControlFunc(c.report))
	l.AddFinalizer(c)
}

// Finalize implements Finalizer. It stops the motors.
func (c *Controller) Finalize(ctx context.Context) error {
	var err error
	for n := 0; n < c.StopAttempts; n++ {
		if err = Stop(c.Motors); err == nil {
			glog.Info("motors stopped")
			return nil
		}
		glog.Errorf("stop failed: %v", err)
	}
	glog.Error("could not stop motors")
	return err
}

func (c *Controller) actuate(cc fx.ControlContext) error {
	var cmd *TwistMsg
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		if m, ok := msg.(*TwistMsg); ok {
			cmd = m
			return true
		}
		return false
	})
	now := cc.Time()
	if cmd != nil {
		c.lastCommand, c.idle = now, false
		if glog.V(3) {
			m1, m2 := c.Kinematics.WheelSpeeds(cmd.Twist)
			glog.Infof("twist %+v -> M1 %d M2 %d", cmd.Twist, m1, m2)
		}
		if err := c.Kinematics.Apply(c.Motors, cmd.Twist); err != nil {
			glog.Warningf("drive failed: %v", err)
		}
		return nil
	}
	if c.CommandTimeout > 0 && now.Sub(c.lastCommand) > c.CommandTimeout {
		if !c.idle {
			glog.V(1).Infof("no command for %s, stopping", c.CommandTimeout)
			c.idle = true
		}
		// repeated every iteration until a command arrives.
		if err := Stop(c.Motors); err != nil {
			glog.Errorf("could not stop: %v", err)
		}
	}
	return nil
}

func (c *Controller) sense(cc fx.ControlContext) error {
	enc1, err := c.Motors.ReadEncoder(M1)
	if err != nil {
		glog.Warningf("read M1 encoder: %v", err)
		return nil
	}
	enc2, err := c.Motors.ReadEncoder(M2)
	if err != nil {
		glog.Warningf("read M2 encoder: %v", err)
		return nil
	}
	left, right := c.Kinematics.Wheels(enc1.Count, enc2.Count)
	glog.V(4).Infof("encoders left %d right %d", left, right)
	odom, err := c.Odometry.Update(left, right, cc.Time())
	if err != nil {
		glog.Errorf("ignoring encoders: %v", err)
		return nil
	}
	if c.Publisher != nil {
		return c.Publisher.PublishOdometry(cc.Context(), &odom)
	}
	return nil
}

func (c *Controller) report(cc fx.ControlContext) error {
	now := cc.Time()
	if now.Sub(c.lastVitals) < c.VitalsInterval {
		return nil
	}
	c.lastVitals = now
	diag, err := ReadDiagnostics(c.Motors, now)
	if err != nil {
		glog.Warningf("diagnostics: %v", err)
	}
	if diag == nil {
		return nil
	}
	glog.V(2).Infof("diagnostics: %s", diag)
	if c.Publisher != nil {
		return c.Publisher.PublishDiagnostics(cc.Context(), diag)
	}
	return nil
}
