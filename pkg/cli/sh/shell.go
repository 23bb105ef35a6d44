package sh

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/roboclaw.go/pkg/env"
	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
	"github.com/robotalks/roboclaw.go/pkg/l0/serial"
)

// ErrNotConnected is reported by device commands without an open port.
var ErrNotConnected = errors.New("not connected")

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Env    *env.Env
}

// DeviceFunc runs a command against the connected controller. A non-nil
// result is printed.
type DeviceFunc func(dev *roboclaw.Device, args []string) (interface{}, error)

// OK is printed by commands without a result.
type OK struct{}

// String implements fmt.Stringer.
func (OK) String() string { return "OK" }

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// DeviceCmd wraps fn into a command which requires a connection and prints
// the result.
func DeviceCmd(fn DeviceFunc) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Env == nil {
			c.Err(ErrNotConnected)
			return
		}
		result, err := fn(s.Env.Device, c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		if result == nil {
			result = OK{}
		}
		out, err := Format(result, s.OutputJSON)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(out)
	}
}

// Format renders a command result.
func Format(result interface{}, asJSON bool) (string, error) {
	if asJSON {
		if _, ok := result.(OK); ok {
			return `{"ok":true}`, nil
		}
		out, err := json.Marshal(result)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	if str, ok := result.(fmt.Stringer); ok {
		return str.String(), nil
	}
	return fmt.Sprintf("%+v", result), nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the controller described by Config.
func (s *Shell) Connect() error {
	e, err := s.Config.NewEnv()
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Env = e
	s.Shell.SetPrompt(fmt.Sprintf("%s@%s > ", s.Config.Device, e.Device.Address()))
	return nil
}

// Disconnect closes the current port.
func (s *Shell) Disconnect() {
	if s.Env != nil {
		s.Env.Close()
		s.Env = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()
	if s.AutoConnect {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Device)
		}
		if err := s.Connect(); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Device, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := serial.Ports()
			if err != nil {
				c.Err(err)
				return
			}
			if ShellFrom(c).OutputJSON {
				if ports == nil {
					ports = []string{}
				}
				out, _ := json.Marshal(ports)
				c.Println(string(out))
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// ConnectCmd opens a controller, optionally on another device or address.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[DEVICE [ADDRESS]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Device = c.Args[0]
			}
			if len(c.Args) > 1 {
				s.Config.Address = c.Args[1]
			}
			if err := s.Connect(); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the port.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.MustNewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
