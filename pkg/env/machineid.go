package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// DefaultID is used when neither machine ID nor hostname is available.
const DefaultID = "roboclaw"

// MachineID retrieves the unique ID identifying the machine, falling back
// to the hostname.
func MachineID() string {
	id, err := machineid.ID()
	if err == nil && id != "" {
		return id
	}
	glog.Warningf("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return DefaultID
}
