package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/roboclaw.go/pkg/drive"
	"github.com/robotalks/roboclaw.go/pkg/drive/msgs"
	fx "github.com/robotalks/roboclaw.go/pkg/framework"
)

// Topics relative to <prefix><id>/.
const (
	TopicOdometry    = "odom"
	TopicDiagnostics = "diag"
	TopicCmdVel      = "cmd_vel"
)

// DefaultRetryInterval is the wait between failed connection attempts.
const DefaultRetryInterval = 5 * time.Second

// Bridge publishes drive estimates and posts velocity commands to the
// loop. It implements drive.Publisher.
type Bridge struct {
	Queue         *Queue
	ID            string
	RetryInterval time.Duration
}

// NewBridge creates a Bridge for the robot id.
func NewBridge(q *Queue, id string) *Bridge {
	return &Bridge{Queue: q, ID: id, RetryInterval: DefaultRetryInterval}
}

// Topic returns the topic of the robot relative to the queue prefix.
func (b *Bridge) Topic(name string) string {
	return b.ID + "/" + name
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "mqtt"
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(l *fx.Loop) {
	l.AddRunnable(b)
}

// PublishOdometry implements drive.Publisher.
func (b *Bridge) PublishOdometry(_ context.Context, o *drive.Odom) error {
	payload, err := msgs.EncodeOdometry(o)
	if err != nil {
		return err
	}
	b.Queue.Pub(b.Topic(TopicOdometry), payload)
	return nil
}

// PublishDiagnostics implements drive.Publisher.
func (b *Bridge) PublishDiagnostics(_ context.Context, d *drive.Diagnostics) error {
	payload, err := msgs.EncodeDiagnostics(d)
	if err != nil {
		return err
	}
	b.Queue.Pub(b.Topic(TopicDiagnostics), payload)
	return nil
}

// CmdVelHandler decodes velocity commands and posts them to the loop.
func (b *Bridge) CmdVelHandler(ctl fx.LoopControl) Handler {
	return func(topic string, payload []byte) {
		msg, err := msgs.Decode(payload)
		if err != nil {
			glog.Warningf("%s: %v", topic, err)
			return
		}
		tw, err := msg.Twist()
		if err != nil {
			glog.Warningf("%s: %v", topic, err)
			return
		}
		ctl.PostMessage(&drive.TwistMsg{Twist: tw})
		ctl.TriggerNext()
	}
}

// Run implements Runnable. It keeps trying to connect until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	if ctl := fx.LoopCtlFrom(ctx); ctl != nil {
		b.Queue.Sub(b.Topic(TopicCmdVel), b.CmdVelHandler(ctl))
	}
	defer b.Queue.Close()
	for {
		token := b.Queue.Connect()
		token.Wait()
		err := token.Error()
		if err == nil {
			break
		}
		glog.Warningf("MQTT connect failed: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.RetryInterval):
		}
	}
	<-ctx.Done()
	return ctx.Err()
}
