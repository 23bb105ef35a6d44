package roboclaw

import "sync"

// fakeTransport answers each written request using respond. Reads past the
// available input time out with (0, nil).
type fakeTransport struct {
	respond func(attempt int, req []byte) []byte

	lock     sync.Mutex
	requests [][]byte
	input    []byte
	discards int
	writeErr error
}

func newFakeTransport(respond func(attempt int, req []byte) []byte) *fakeTransport {
	return &fakeTransport{respond: respond}
}

// replying always answers with the same bytes.
func replying(reply []byte) *fakeTransport {
	return newFakeTransport(func(int, []byte) []byte { return reply })
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	req := append([]byte(nil), p...)
	f.requests = append(f.requests, req)
	if f.respond != nil {
		f.input = append(f.input, f.respond(len(f.requests), req)...)
	}
	return len(p), nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	n := copy(p, f.input)
	f.input = f.input[n:]
	return n, nil
}

func (f *fakeTransport) DiscardInput() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.discards++
	f.input = nil
	return nil
}

// withCRC appends the checksum over req and payload to payload.
func withCRC(req []byte, payload ...byte) []byte {
	crc := ChecksumOf(append(append([]byte(nil), req...), payload...))
	return append(payload, byte(crc>>8), byte(crc))
}
