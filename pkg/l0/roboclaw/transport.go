package roboclaw

import "io"

// Transport is the byte stream to the controller.
//
// Read must return within the configured read timeout; a timeout is
// reported as (0, nil) or an error satisfying os.IsTimeout.
type Transport interface {
	io.ReadWriter
	// DiscardInput drops any received but unread bytes.
	DiscardInput() error
}
