package roboclaw

import (
	"io"
	"os"
)

// Field declares the wire width (in bytes) and signedness of one value.
type Field struct {
	Width  int
	Signed bool
}

// Predefined fields.
var (
	U8  = Field{Width: 1}
	S8  = Field{Width: 1, Signed: true}
	U16 = Field{Width: 2}
	S16 = Field{Width: 2, Signed: true}
	U32 = Field{Width: 4}
	S32 = Field{Width: 4, Signed: true}
)

// MaxStringLen is the maximum length of a string reply, terminator included.
const MaxStringLen = 48

func (f Field) bits() uint {
	return uint(f.Width) * 8
}

// Min returns the smallest representable value.
func (f Field) Min() int64 {
	if f.Signed {
		return -(1 << (f.bits() - 1))
	}
	return 0
}

// Max returns the largest representable value.
func (f Field) Max() int64 {
	if f.Signed {
		return 1<<(f.bits()-1) - 1
	}
	return 1<<f.bits() - 1
}

// Fits checks v can be encoded without loss.
func (f Field) Fits(v int64) bool {
	return v >= f.Min() && v <= f.Max()
}

// Append appends v in big-endian order. Negative values are emitted in
// two's complement; no separate signed encoding exists on the wire.
func (f Field) Append(buf []byte, v int64) []byte {
	for shift := int(f.bits()) - 8; shift >= 0; shift -= 8 {
		buf = append(buf, byte(v>>uint(shift)))
	}
	return buf
}

// Value combines len(b) == f.Width big-endian bytes. Signed fields with the
// sign bit set are biased by -2^bits.
func (f Field) Value(b []byte) int64 {
	var v uint64
	for _, c := range b[:f.Width] {
		v = v<<8 | uint64(c)
	}
	if f.Signed && v&(1<<(f.bits()-1)) != 0 {
		return int64(v) - 1<<f.bits()
	}
	return int64(v)
}

// frame accumulates transmitted bytes and their checksum.
type frame struct {
	buf []byte
	crc Checksum
}

func (w *frame) put(b ...byte) {
	w.buf = append(w.buf, b...)
	w.crc.Update(b...)
}

func (w *frame) putField(f Field, v int64) {
	start := len(w.buf)
	w.buf = f.Append(w.buf, v)
	w.crc.Update(w.buf[start:]...)
}

// trailer appends the checksum high byte first. It is not checksummed.
func (w *frame) trailer() {
	crc := w.crc.Value()
	w.buf = append(w.buf, byte(crc>>8), byte(crc))
}

// reader reads exact byte counts from a transport feeding the checksum.
type reader struct {
	r   io.Reader
	crc *Checksum
	buf [4]byte
}

// readFull reads len(p) bytes. A read returning no data is a timeout,
// which turns into ErrShortRead.
func readFull(r io.Reader, p []byte) error {
	for n := 0; n < len(p); {
		cnt, err := r.Read(p[n:])
		n += cnt
		if n >= len(p) {
			break
		}
		if err != nil {
			if err == io.EOF || os.IsTimeout(err) {
				return ErrShortRead
			}
			return unavailable(err)
		}
		if cnt == 0 {
			return ErrShortRead
		}
	}
	return nil
}

func (r *reader) field(f Field) (int64, error) {
	b := r.buf[:f.Width]
	if err := readFull(r.r, b); err != nil {
		return 0, err
	}
	r.crc.Update(b...)
	return f.Value(b), nil
}

// str reads a zero-terminated string of at most max bytes. The terminator
// is consumed and checksummed but not returned.
func (r *reader) str(max int) (string, error) {
	out := make([]byte, 0, max)
	b := r.buf[:1]
	for i := 0; i < max; i++ {
		if err := readFull(r.r, b); err != nil {
			return "", err
		}
		r.crc.Update(b[0])
		if b[0] == 0 {
			break
		}
		out = append(out, b[0])
	}
	return string(out), nil
}

// trailer reads the peer checksum. It is not checksummed.
func (r *reader) trailer() (uint16, error) {
	b := r.buf[:2]
	if err := readFull(r.r, b); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}
