package drive

import (
	"flag"
	"time"
)

// Config defines the geometry and timing of the drive.
type Config struct {
	// MaxSpeed caps the commanded linear speed (m/s).
	MaxSpeed float64 `mapstructure:"max_speed"`
	// TicksPerMeter is the encoder resolution at the wheel.
	TicksPerMeter float64 `mapstructure:"ticks_per_meter"`
	// BaseWidth is the distance between the wheels (m).
	BaseWidth float64 `mapstructure:"base_width"`
	// InvertAxes negates wheel speeds and encoder counts.
	InvertAxes bool `mapstructure:"invert_axes"`
	// FlipLeftRight drives the left wheel with M1. By default M1 is right.
	FlipLeftRight bool `mapstructure:"flip_left_right"`
	// MaxEncoderJump rejects encoder changes above this many ticks per update.
	MaxEncoderJump int64 `mapstructure:"max_encoder_jump"`

	Interval       time.Duration `mapstructure:"interval"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	VitalsInterval time.Duration `mapstructure:"vitals_interval"`
}

var defaultConfig = Config{
	MaxSpeed:       2.0,
	TicksPerMeter:  4342.2,
	BaseWidth:      0.315,
	InvertAxes:     true,
	MaxEncoderJump: 20000,
	Interval:       100 * time.Millisecond,
	CommandTimeout: time.Second,
	VitalsInterval: time.Second,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.MaxSpeed, "max-speed", defaultConfig.MaxSpeed, "Maximum linear speed (m/s).")
	flag.Float64Var(&defaultConfig.TicksPerMeter, "ticks-per-meter", defaultConfig.TicksPerMeter, "Encoder ticks per meter of travel.")
	flag.Float64Var(&defaultConfig.BaseWidth, "base-width", defaultConfig.BaseWidth, "Distance between wheels (m).")
	flag.BoolVar(&defaultConfig.InvertAxes, "invert-axes", defaultConfig.InvertAxes, "Invert motor directions.")
	flag.BoolVar(&defaultConfig.FlipLeftRight, "flip-left-right", defaultConfig.FlipLeftRight, "M1 is the left motor.")
	flag.DurationVar(&defaultConfig.CommandTimeout, "cmd-timeout", defaultConfig.CommandTimeout, "Stop motors when no command arrives in time.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Kinematics derives the kinematics of the config.
func (c *Config) Kinematics() Kinematics {
	return Kinematics{
		MaxSpeed:      c.MaxSpeed,
		TicksPerMeter: c.TicksPerMeter,
		BaseWidth:     c.BaseWidth,
		InvertAxes:    c.InvertAxes,
		FlipLeftRight: c.FlipLeftRight,
	}
}

// NewController creates a Controller using the config.
func (c *Config) NewController(motors Motors, pub Publisher) *Controller {
	ctl := NewController(motors, c.Kinematics(), pub)
	ctl.Odometry.MaxJump = c.MaxEncoderJump
	if c.CommandTimeout > 0 {
		ctl.CommandTimeout = c.CommandTimeout
	}
	if c.VitalsInterval > 0 {
		ctl.VitalsInterval = c.VitalsInterval
	}
	return ctl
}
