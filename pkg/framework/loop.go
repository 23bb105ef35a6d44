package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the iteration period of a Loop.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers periodically, ordered by priority level.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	finalizers  []Finalizer
	runners     []Runnable

	lock      sync.Mutex
	messages  []Message
	iteration uint64
	wakeUpCh  chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtxKeyType struct{}

var loopCtxKey loopCtxKeyType

// LoopCtlFrom gets LoopControl from the context passed to Runnables added
// to the loop.
func LoopCtlFrom(ctx context.Context) LoopControl {
	ctl, _ := ctx.Value(loopCtxKey).(LoopControl)
	return ctl
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at the priority level. Controllers
// which are also Runnable or Finalizer are registered as such.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
		if fin, ok := ctl.(Finalizer); ok {
			l.finalizers = append(l.finalizers, fin)
		}
	}
	return l
}

// AddRunnable adds Runnable implementations started with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// AddFinalizer adds finalizers run in order after the loop stops.
func (l *Loop) AddFinalizer(fins ...Finalizer) *Loop {
	l.finalizers = append(l.finalizers, fins...)
	return l
}

// Run implements Runnable. It returns when ctx is done, after all
// finalizers ran and all runnables returned.
func (l *Loop) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithValue(ctx, loopCtxKey, LoopControl(l)))
	runner := NewRunnerWith(runCtx).Go(l.runners...)

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			var errs AggregatedError
			for _, fin := range l.finalizers {
				errs.Add(fin.Finalize(context.WithoutCancel(ctx)))
			}
			cancel()
			errs.Add(runner.Wait())
			if err := errs.Aggregate(); err != nil {
				glog.Errorf("loop stopped: %v", err)
			}
			return ctx.Err()
		case now := <-ticker.C:
			l.RunIteration(runCtx, now)
		case <-l.wakeUpCh:
			l.RunIteration(runCtx, time.Now())
		}
	}
}

// RunOrFail is intended to be used in main to run the loop until Ctrl-C
// or SIGTERM.
func (l *Loop) RunOrFail() {
	if err := NewRunner().HandleSignals().Go(l).Wait(); err != nil {
		glog.Exit(err)
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// RunIteration runs all controllers once with the messages posted so far.
// Messages no controller takes are dropped.
func (l *Loop) RunIteration(ctx context.Context, now time.Time) {
	l.lock.Lock()
	l.iteration++
	iter := &iteration{Loop: l, ctx: ctx, time: now, seq: l.iteration, messages: l.messages}
	l.messages = nil
	l.lock.Unlock()
	for _, ctls := range l.controllers {
		for _, ctl := range ctls {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if glog.V(5) && len(iter.messages) > 0 {
		glog.Infof("iteration %d dropped %d messages", iter.seq, len(iter.messages))
	}
}

type iteration struct {
	*Loop
	ctx      context.Context
	time     time.Time
	seq      uint64
	messages []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) Iteration() uint64        { return t.seq }
func (t *iteration) Messages() MessageStore   { return t }

func (t *iteration) ProcessMessages(fn func(Message) bool) {
	remains := t.messages[:0]
	for _, msg := range t.messages {
		if !fn(msg) {
			remains = append(remains, msg)
		}
	}
	t.messages = remains
}
