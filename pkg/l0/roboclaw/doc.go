// Package roboclaw implements the packet serial protocol of RoboClaw
// dual-channel motor controllers.
package roboclaw

// Packet serial is a strictly synchronous request/response protocol between
// the host and a controller addressed in 0x80..0x87 on a serial link.
//
// Request:  [address][opcode][arguments...][crc16]
// Response: [0xff]                 for write commands
//           [values...][crc16]     for read commands
//
// The CRC covers every byte of one transaction in wire order, excluding the
// two CRC bytes themselves. Read commands send no arguments and no CRC;
// their reply CRC covers address and opcode followed by the reply payload.
//
// The link has no framing or resynchronization, so a failed attempt
// discards pending input and restarts the whole transaction.
//
// Producer: RoboClaw firmware
// Consumer: host drivers (pkg/drive, pkg/cli)
