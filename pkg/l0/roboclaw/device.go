package roboclaw

import (
	"fmt"
	"io"
	"strconv"
)

// Address is the packet serial address of a controller.
type Address byte

// Valid address range.
const (
	MinAddress Address = 0x80
	MaxAddress Address = 0x87
)

// Valid checks the address is in 0x80..0x87.
func (a Address) Valid() bool {
	return a >= MinAddress && a <= MaxAddress
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("0x%02x", byte(a))
}

// ParseAddress parses decimal or 0x-prefixed hex and validates the range.
func ParseAddress(s string) (Address, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	addr := Address(v)
	if !addr.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return addr, nil
}

// Motor selects a channel.
type Motor int

// Channels.
const (
	M1 Motor = 1
	M2 Motor = 2
)

// String implements fmt.Stringer.
func (m Motor) String() string {
	return "M" + strconv.Itoa(int(m))
}

func (m Motor) pick(op1, op2 Opcode) *Command {
	if m == M2 {
		return mustLookup(op2)
	}
	return mustLookup(op1)
}

// Device is one controller on a Conn. The address is validated once when
// the Device is created.
type Device struct {
	conn *Conn
	addr Address
}

// Device binds a validated address to the connection.
func (c *Conn) Device(addr Address) (*Device, error) {
	if !addr.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return &Device{conn: c, addr: addr}, nil
}

// Address returns the bus address.
func (d *Device) Address() Address {
	return d.addr
}

// Conn returns the underlying connection.
func (d *Device) Conn() *Conn {
	return d.conn
}

// Close closes the transport if it's closable.
func (d *Device) Close() error {
	if closer, ok := d.conn.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (d *Device) write(op Opcode, args ...int64) error {
	_, err := d.conn.Execute(d.addr, mustLookup(op), args...)
	return err
}

func (d *Device) writeCmd(cmd *Command, args ...int64) error {
	_, err := d.conn.Execute(d.addr, cmd, args...)
	return err
}

func (d *Device) read(cmd *Command) ([]int64, error) {
	reply, err := d.conn.Execute(d.addr, cmd)
	if err != nil {
		return nil, err
	}
	return reply.Values, nil
}
