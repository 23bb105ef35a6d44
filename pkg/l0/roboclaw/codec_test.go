package roboclaw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldRoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		field  Field
		values []int64
	}{
		{"u8", U8, []int64{0, 1, 0x7f, 0x80, 0xff}},
		{"s8", S8, []int64{0, 1, -1, 127, -128}},
		{"u16", U16, []int64{0, 1, 0x7fff, 0x8000, 0xffff}},
		{"s16", S16, []int64{0, 1, -1, 32767, -32768}},
		{"u32", U32, []int64{0, 1, 0x7fffffff, 0x80000000, 0xffffffff}},
		{"s32", S32, []int64{0, 1, -1, 300, -300, 2147483647, -2147483648}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, v := range tc.values {
				require.Truef(t, tc.field.Fits(v), "%d fits", v)
				buf := tc.field.Append(nil, v)
				require.Len(t, buf, tc.field.Width)
				require.Equal(t, v, tc.field.Value(buf))
			}
			require.False(t, tc.field.Fits(tc.field.Min()-1))
			require.False(t, tc.field.Fits(tc.field.Max()+1))
		})
	}
}

func TestFieldAppend(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x2c}, U16.Append(nil, 300))
	require.Equal(t, []byte{0x00, 0x00, 0x01, 0x2c}, S32.Append(nil, 300))
	require.Equal(t, []byte{0xff, 0xff, 0xfe, 0xd4}, S32.Append(nil, -300))
	require.Equal(t, []byte{0xff, 0xfe}, S16.Append(nil, -2))
	require.Equal(t, []byte{0xe2, 0x2e, 0xab, 0x7a}, U32.Append(nil, int64(NVMKey)))
}

func TestSignedBias(t *testing.T) {
	require.Equal(t, int64(-1), S32.Value([]byte{0xff, 0xff, 0xff, 0xff}))
	require.Equal(t, int64(0xffffffff), U32.Value([]byte{0xff, 0xff, 0xff, 0xff}))
	require.Equal(t, int64(-2147483648), S32.Value([]byte{0x80, 0, 0, 0}))
	require.Equal(t, int64(-32768), S16.Value([]byte{0x80, 0}))
}

func TestReaderFieldFeedsChecksum(t *testing.T) {
	var crc Checksum
	r := reader{r: bytes.NewReader([]byte{0, 0, 1, 0x2c, 7}), crc: &crc}
	v, err := r.field(S32)
	require.NoError(t, err)
	require.Equal(t, int64(300), v)
	v, err = r.field(U8)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
	require.Equal(t, ChecksumOf([]byte{0, 0, 1, 0x2c, 7}), crc.Value())

	_, err = r.field(U16)
	require.Equal(t, ErrShortRead, err)
}

func TestReaderString(t *testing.T) {
	testCases := []struct {
		name   string
		input  []byte
		expect string
		rest   int
		crc    []byte
	}{
		{"terminated", []byte("R3\x00garbage"), "R3", len("garbage"), []byte("R3\x00")},
		{"empty", []byte{0, 1}, "", 1, []byte{0}},
		{"max length", bytes.Repeat([]byte{'a'}, MaxStringLen+2), string(bytes.Repeat([]byte{'a'}, MaxStringLen)), 2, bytes.Repeat([]byte{'a'}, MaxStringLen)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var crc Checksum
			src := bytes.NewReader(tc.input)
			r := reader{r: src, crc: &crc}
			s, err := r.str(MaxStringLen)
			require.NoError(t, err)
			require.Equal(t, tc.expect, s)
			require.Equal(t, tc.rest, src.Len())
			require.Equal(t, ChecksumOf(tc.crc), crc.Value())
		})
	}
}

func TestReaderStringShort(t *testing.T) {
	var crc Checksum
	r := reader{r: bytes.NewReader([]byte("USB Roboclaw")), crc: &crc}
	_, err := r.str(MaxStringLen)
	require.Equal(t, ErrShortRead, err)
}

func TestReaderTrailerNotChecksummed(t *testing.T) {
	var crc Checksum
	r := reader{r: bytes.NewReader([]byte{0x12, 0x34}), crc: &crc}
	v, err := r.trailer()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
	require.Equal(t, uint16(0), crc.Value())
}

func TestFrame(t *testing.T) {
	var w frame
	w.put(0x80, byte(OpM1Speed))
	w.putField(S32, -300)
	w.trailer()
	crc := ChecksumOf([]byte{0x80, 35, 0xff, 0xff, 0xfe, 0xd4})
	require.Equal(t, []byte{0x80, 35, 0xff, 0xff, 0xfe, 0xd4, byte(crc >> 8), byte(crc)}, w.buf)
	require.Equal(t, crc, w.crc.Value())
}
