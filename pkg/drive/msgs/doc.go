// Package msgs encodes the drive messages exchanged over MQTT.
//
// Every payload is a serialized google.protobuf.Struct carrying a "type"
// field, an optional "stamp" with seconds and nanos, and the fields of the
// message. Twist commands without a stamp are accepted.
package msgs
