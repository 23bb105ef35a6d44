package roboclaw

import "github.com/sigurn/crc16"

// crcTable is CRC-16/XMODEM: polynomial 0x1021, zero seed, MSB first,
// no reflection and no final xor.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Checksum is the running CRC of one transaction.
// The zero value is a reset checksum.
type Checksum struct {
	crc uint16
}

// Reset clears the accumulator.
func (c *Checksum) Reset() {
	c.crc = crc16.Init(crcTable)
}

// Update feeds bytes in wire order.
func (c *Checksum) Update(b ...byte) {
	c.crc = crc16.Update(c.crc, b, crcTable)
}

// Value returns the current 16-bit checksum.
func (c *Checksum) Value() uint16 {
	return crc16.Complete(c.crc, crcTable)
}

// ChecksumOf computes the checksum of a complete byte sequence.
func ChecksumOf(data []byte) uint16 {
	var c Checksum
	c.Update(data...)
	return c.Value()
}
