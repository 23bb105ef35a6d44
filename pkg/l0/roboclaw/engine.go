package roboclaw

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// TxnState is the state of one transaction attempt.
type TxnState int

// Transaction states.
const (
	TxnIdle TxnState = iota
	TxnSending
	TxnAwaitingResponse
	TxnVerifying
	TxnSuccess
	TxnRetry
	TxnFailed
)

var txnStateNames = [...]string{
	"Idle",
	"Sending",
	"AwaitingResponse",
	"Verifying",
	"Success",
	"Retry",
	"Failed",
}

// String implements fmt.Stringer.
func (s TxnState) String() string {
	if s >= 0 && int(s) < len(txnStateNames) {
		return txnStateNames[s]
	}
	return fmt.Sprintf("TxnState(%d)", int(s))
}

// RetryPolicy controls how a transaction is retried. Attempts follow each
// other immediately; the controller expects a prompt resend.
type RetryPolicy struct {
	// Attempts is the total number of attempts per call.
	Attempts int
	// DiscardInput drops stale input before every attempt.
	DiscardInput bool
}

// DefaultRetryPolicy matches the controller's expectations.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, DiscardInput: true}

// Reply is the decoded reply of a read command.
type Reply struct {
	Values []int64
	Text   string
}

// Stats counts transactions on a Conn.
type Stats struct {
	Transactions        uint64
	Attempts            uint64
	Failures            uint64
	ConsecutiveFailures uint64
}

// Conn executes transactions over a Transport, one at a time.
type Conn struct {
	transport Transport
	policy    RetryPolicy

	lock  sync.Mutex
	stats Stats
}

// NewConn wraps a transport with the default retry policy.
func NewConn(t Transport) *Conn {
	return &Conn{transport: t, policy: DefaultRetryPolicy}
}

// WithPolicy replaces the retry policy.
func (c *Conn) WithPolicy(p RetryPolicy) *Conn {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	c.lock.Lock()
	c.policy = p
	c.lock.Unlock()
	return c
}

// Transport returns the wrapped transport.
func (c *Conn) Transport() Transport {
	return c.transport
}

// Stats returns a snapshot of the counters.
func (c *Conn) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stats
}

// Execute runs one transaction of cmd for the controller at addr.
// args must match cmd.Args in count and range. On success, read commands
// return the decoded reply and write commands return an empty Reply.
// After the attempt budget is spent the error is a *RetriesExhaustedError.
func (c *Conn) Execute(addr Address, cmd *Command, args ...int64) (*Reply, error) {
	if len(args) != len(cmd.Args) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d",
			ErrInvalidArgument, cmd.Name, len(cmd.Args), len(args))
	}
	for n, f := range cmd.Args {
		if !f.Fits(args[n]) {
			return nil, fmt.Errorf("%w: %s argument %d (%d) out of range [%d, %d]",
				ErrInvalidArgument, cmd.Name, n, args[n], f.Min(), f.Max())
		}
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.stats.Transactions++
	var err error
	for attempt := 1; attempt <= c.policy.Attempts; attempt++ {
		c.stats.Attempts++
		var reply *Reply
		if reply, err = c.attempt(addr, cmd, args); err == nil {
			c.stats.ConsecutiveFailures = 0
			return reply, nil
		}
		if attempt < c.policy.Attempts {
			c.trace(addr, cmd, TxnRetry)
			glog.V(2).Infof("%s@%s attempt %d failed: %v", cmd, addr, attempt, err)
		}
	}
	c.trace(addr, cmd, TxnFailed)
	c.stats.Failures++
	c.stats.ConsecutiveFailures++
	return nil, &RetriesExhaustedError{Command: cmd.Name, Attempts: c.policy.Attempts, Err: err}
}

func (c *Conn) attempt(addr Address, cmd *Command, args []int64) (*Reply, error) {
	if c.transport == nil {
		return nil, ErrTransportUnavailable
	}
	if c.policy.DiscardInput {
		if err := c.transport.DiscardInput(); err != nil {
			return nil, unavailable(err)
		}
	}

	c.trace(addr, cmd, TxnSending)
	var w frame
	w.put(byte(addr), byte(cmd.Op))
	for n, f := range cmd.Args {
		w.putField(f, args[n])
	}
	if !cmd.IsRead() {
		w.trailer()
	}
	if glog.V(4) {
		glog.Infof("%s@%s TX % x", cmd, addr, w.buf)
	}
	if _, err := c.transport.Write(w.buf); err != nil {
		return nil, unavailable(err)
	}

	c.trace(addr, cmd, TxnAwaitingResponse)
	r := reader{r: c.transport, crc: &w.crc}
	reply := &Reply{}
	switch cmd.Reply {
	case ReplyAck:
		// any byte acknowledges the write.
		var ack [1]byte
		if err := readFull(c.transport, ack[:]); err != nil {
			return nil, err
		}
		c.trace(addr, cmd, TxnSuccess)
		return reply, nil
	case ReplyValues:
		reply.Values = make([]int64, 0, len(cmd.Values))
		for _, f := range cmd.Values {
			v, err := r.field(f)
			if err != nil {
				return nil, err
			}
			reply.Values = append(reply.Values, v)
		}
	case ReplyLongs:
		reply.Values = make([]int64, 0, cmd.Count)
		for i := 0; i < cmd.Count; i++ {
			v, err := r.field(U32)
			if err != nil {
				return nil, err
			}
			reply.Values = append(reply.Values, v)
		}
	case ReplyString:
		text, err := r.str(MaxStringLen)
		if err != nil {
			return nil, err
		}
		reply.Text = text
	default:
		return nil, fmt.Errorf("%s: unknown reply kind %v", cmd.Name, cmd.Reply)
	}

	peer, err := r.trailer()
	if err != nil {
		return nil, err
	}
	c.trace(addr, cmd, TxnVerifying)
	if local := w.crc.Value(); local != peer {
		if glog.V(4) {
			glog.Infof("%s@%s RX crc %04x, expect %04x", cmd, addr, peer, local)
		}
		return nil, fmt.Errorf("%w: got %04x, expect %04x", ErrChecksumMismatch, peer, local)
	}
	c.trace(addr, cmd, TxnSuccess)
	return reply, nil
}

func (c *Conn) trace(addr Address, cmd *Command, state TxnState) {
	if glog.V(5) {
		glog.Infof("%s@%s -> %s", cmd, addr, state)
	}
}
