// Package env assembles the daemon and shell from flags, environment and
// an optional YAML file.
package env

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/robotalks/roboclaw.go/pkg/drive"
	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
	"github.com/robotalks/roboclaw.go/pkg/l0/serial"
)

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment variables.
const EnvPrefix = "ROBOCLAW"

// Config provides the options to reach one controller.
type Config struct {
	// Device is the serial device path.
	Device      string        `mapstructure:"device"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	Driver      string        `mapstructure:"driver"`
	// Address is the packet serial address, decimal or 0x-prefixed.
	Address string `mapstructure:"address"`
	// Attempts per transaction.
	Attempts int `mapstructure:"attempts"`

	// MQTTURL specifies the broker, e.g. mqtt://host:port/topic-prefix.
	// Empty disables MQTT.
	MQTTURL string `mapstructure:"mqtt_url"`
	// ID names the robot in topics.
	ID string `mapstructure:"id"`

	Drive *drive.Config `mapstructure:"drive"`
}

var (
	defaultConfig = Config{
		Device:      "/dev/ttyACM0",
		Baud:        115200,
		ReadTimeout: 10 * time.Millisecond,
		Driver:      serial.DriverBugst,
		Address:     "0x80",
		Attempts:    roboclaw.DefaultRetryPolicy.Attempts,
		MQTTURL:     "mqtt://localhost:1883/robo/",
	}
	configFile string
)

func init() {
	if val := os.Getenv(EnvPrefix + "_DEV"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv(EnvPrefix + "_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv(EnvPrefix + "_CONFIG"); val != "" {
		configFile = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "dev", defaultConfig.Device, "Serial device.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "Serial read timeout.")
	flag.StringVar(&defaultConfig.Driver, "serial-driver", defaultConfig.Driver,
		"Serial driver: "+strings.Join(serial.Drivers(), ", ")+".")
	flag.StringVar(&defaultConfig.Address, "addr", defaultConfig.Address, "Controller address (0x80-0x87).")
	flag.IntVar(&defaultConfig.Attempts, "attempts", defaultConfig.Attempts, "Attempts per transaction.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Robot ID, machine ID when empty.")
	flag.StringVar(&configFile, "config", configFile, "YAML config file.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations. It should be
// called after flags are parsed. The config file given by -config is
// applied on top.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	conf.Drive = drive.NewConfig()
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if conf.ID == "" {
		conf.ID = MachineID()
	}
	return &conf, nil
}

// MustNewConfig creates a Config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// LoadFile overlays the keys present in a YAML file. Environment variables
// prefixed ROBOCLAW_ override keys of the file, e.g. ROBOCLAW_DRIVE_MAX_SPEED
// for drive.max_speed.
func (c *Config) LoadFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if c.Drive == nil {
		c.Drive = drive.NewConfig()
	}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// Validate checks the config and returns the parsed address.
func (c *Config) Validate() (roboclaw.Address, error) {
	addr, err := roboclaw.ParseAddress(c.Address)
	if err != nil {
		return 0, err
	}
	switch {
	case c.Device == "":
		return 0, fmt.Errorf("%w: serial device is required", ErrInvalidConfig)
	case c.Baud <= 0:
		return 0, fmt.Errorf("%w: baud %d", ErrInvalidConfig, c.Baud)
	case c.ReadTimeout <= 0:
		return 0, fmt.Errorf("%w: read timeout %v", ErrInvalidConfig, c.ReadTimeout)
	case c.Attempts < 1:
		return 0, fmt.Errorf("%w: attempts %d", ErrInvalidConfig, c.Attempts)
	}
	if d := c.Drive; d != nil {
		if d.TicksPerMeter <= 0 || d.BaseWidth <= 0 || d.MaxSpeed <= 0 {
			return 0, fmt.Errorf("%w: drive geometry must be positive", ErrInvalidConfig)
		}
	}
	return addr, nil
}

// SerialConfig derives the serial port configuration.
func (c *Config) SerialConfig() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
		Driver:      c.Driver,
	}
}

// Env is an opened controller.
type Env struct {
	Config *Config
	Port   serial.Port
	Conn   *roboclaw.Conn
	Device *roboclaw.Device
}

// NewEnv validates the config and opens the controller.
func (c *Config) NewEnv() (*Env, error) {
	addr, err := c.Validate()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(c.SerialConfig())
	if err != nil {
		return nil, err
	}
	policy := roboclaw.DefaultRetryPolicy
	policy.Attempts = c.Attempts
	conn := roboclaw.NewConn(port).WithPolicy(policy)
	dev, err := conn.Device(addr)
	if err != nil {
		port.Close()
		return nil, err
	}
	return &Env{Config: c, Port: port, Conn: conn, Device: dev}, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// Close closes the serial port.
func (e *Env) Close() error {
	return e.Port.Close()
}
