// Package framework runs the periodic control loop of the drive daemon.
package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is anything posted to the loop, e.g. a velocity command
// received from the network.
type Message interface{}

// Controller defines the controlling logic run once per iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// Finalizer is called once after the loop stops. The context is not
// canceled.
type Finalizer interface {
	Finalize(context.Context) error
}

// ControlContext provides the context of current control iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// Iteration counts iterations from 1.
	Iteration() uint64
	// Messages retrieves the messages collected when this iteration
	// started.
	Messages() MessageStore

	LoopControl
}

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues the message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration immediately.
	TriggerNext()
}

// MessageStore gives the controllers of one iteration access to messages.
type MessageStore interface {
	// ProcessMessages calls fn for each pending message; messages for which
	// fn returns true are taken and not seen by later controllers.
	ProcessMessages(fn func(Message) bool)
}

// Priority levels, run in ascending order within an iteration.
const (
	PrLvActuate int = iota
	PrLvSense
	PrLvControl
	PrLvReport

	PriorityLevels
)
