package msgs

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/protobuf/jsonpb"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	structpb "github.com/golang/protobuf/ptypes/struct"
	tspb "github.com/golang/protobuf/ptypes/timestamp"

	"github.com/robotalks/roboclaw.go/pkg/drive"
	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

// Message types.
const (
	TypeOdometry    = "odom"
	TypeDiagnostics = "diag"
	TypeTwist       = "twist"
)

var (
	// ErrBadMessage indicates the payload isn't a drive message.
	ErrBadMessage = errors.New("bad message")
	// ErrWrongType indicates the message has a different type.
	ErrWrongType = errors.New("wrong message type")
)

// Message is a decoded payload.
type Message struct {
	Type string
	// Time is zero when the message carries no stamp.
	Time   time.Time
	Fields *structpb.Struct
}

func number(v float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: v}}
}

func str(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}

func object(fields map[string]*structpb.Value) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StructValue{StructValue: &structpb.Struct{Fields: fields}}}
}

func encode(typ string, t time.Time, fields map[string]*structpb.Value) ([]byte, error) {
	fields["type"] = str(typ)
	if !t.IsZero() {
		ts, err := ptypes.TimestampProto(t)
		if err != nil {
			return nil, err
		}
		fields["stamp"] = object(map[string]*structpb.Value{
			"seconds": number(float64(ts.Seconds)),
			"nanos":   number(float64(ts.Nanos)),
		})
	}
	return proto.Marshal(&structpb.Struct{Fields: fields})
}

// EncodeOdometry encodes an odometry estimate.
func EncodeOdometry(o *drive.Odom) ([]byte, error) {
	return encode(TypeOdometry, o.Time, map[string]*structpb.Value{
		"x":                number(o.Pose.X),
		"y":                number(o.Pose.Y),
		"theta":            number(o.Pose.Theta),
		"linear_velocity":  number(o.Velocity.Linear),
		"angular_velocity": number(o.Velocity.Angular),
	})
}

// EncodeDiagnostics encodes a diagnostics snapshot.
func EncodeDiagnostics(d *drive.Diagnostics) ([]byte, error) {
	return encode(TypeDiagnostics, d.Time, map[string]*structpb.Value{
		"level":         str(d.Level.String()),
		"status":        number(float64(d.Status)),
		"message":       str(d.Message),
		"main_battery":  number(d.MainBattery),
		"logic_battery": number(d.LogicBattery),
		"temperature":   number(d.Temperature),
		"temperature2":  number(d.Temperature2),
	})
}

// EncodeTwist encodes a velocity command.
func EncodeTwist(tw drive.Twist, t time.Time) ([]byte, error) {
	return encode(TypeTwist, t, map[string]*structpb.Value{
		"linear":  number(tw.Linear),
		"angular": number(tw.Angular),
	})
}

// Decode decodes any drive message.
func Decode(payload []byte) (*Message, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	msg := &Message{Fields: &st}
	typ, ok := st.Fields["type"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, fmt.Errorf("%w: missing type", ErrBadMessage)
	}
	msg.Type = typ.StringValue
	if stamp := st.Fields["stamp"].GetStructValue(); stamp != nil {
		t, err := ptypes.Timestamp(&tspb.Timestamp{
			Seconds: int64(stamp.Fields["seconds"].GetNumberValue()),
			Nanos:   int32(stamp.Fields["nanos"].GetNumberValue()),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
		}
		msg.Time = t
	}
	return msg, nil
}

func (m *Message) expect(typ string) error {
	if m.Type != typ {
		return fmt.Errorf("%w: %q, expect %q", ErrWrongType, m.Type, typ)
	}
	return nil
}

func (m *Message) number(name string) float64 {
	return m.Fields.Fields[name].GetNumberValue()
}

// Odometry extracts the odometry estimate.
func (m *Message) Odometry() (*drive.Odom, error) {
	if err := m.expect(TypeOdometry); err != nil {
		return nil, err
	}
	return &drive.Odom{
		Time: m.Time,
		Pose: drive.Pose{X: m.number("x"), Y: m.number("y"), Theta: m.number("theta")},
		Velocity: drive.Velocity{
			Linear:  m.number("linear_velocity"),
			Angular: m.number("angular_velocity"),
		},
	}, nil
}

// Diagnostics extracts the diagnostics snapshot. Level is derived from the
// status word.
func (m *Message) Diagnostics() (*drive.Diagnostics, error) {
	if err := m.expect(TypeDiagnostics); err != nil {
		return nil, err
	}
	status := roboclaw.ErrorStatus(m.number("status"))
	return &drive.Diagnostics{
		Time:         m.Time,
		Level:        drive.StatusLevel(status),
		Status:       status,
		Message:      m.Fields.Fields["message"].GetStringValue(),
		MainBattery:  m.number("main_battery"),
		LogicBattery: m.number("logic_battery"),
		Temperature:  m.number("temperature"),
		Temperature2: m.number("temperature2"),
	}, nil
}

// Twist extracts the velocity command.
func (m *Message) Twist() (drive.Twist, error) {
	if err := m.expect(TypeTwist); err != nil {
		return drive.Twist{}, err
	}
	return drive.Twist{Linear: m.number("linear"), Angular: m.number("angular")}, nil
}

// JSON renders the message for display.
func (m *Message) JSON() (string, error) {
	return (&jsonpb.Marshaler{}).MarshalToString(m.Fields)
}
