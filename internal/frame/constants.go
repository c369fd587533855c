// internal/frame/constants.go
package frame

import "time"

// Wire layout:
//
//	0x5A 0xA5 <len> <cmd> <addr_hi> <addr_lo> <payload:len-3> [checksum]
//
// len counts cmd..payload. The checksum byte, when the session uses one,
// is not counted by len.

const (
	Header1 byte = 0x5A
	Header2 byte = 0xA5

	CmdWrite byte = 0x82
	CmdRead  byte = 0x83
)

// HeaderLen is the number of bytes before cmd (header + len).
const HeaderLen = 3

// MinLen is the smallest decodable frame: header, len, cmd, address.
const MinLen = 6

// DefaultTimeout is the idle interval after which a partial frame is dropped.
const DefaultTimeout = 500 * time.Millisecond

// Checksum is the sum-mod-256 over length, command, address and payload.
// body is the frame without its trailing checksum byte.
func Checksum(body []byte) byte {
	var sum byte
	for i := HeaderLen - 1; i < len(body); i++ {
		sum += body[i]
	}
	return sum
}

// CommandName is a short label for logs.
func CommandName(cmd byte) string {
	switch cmd {
	case CmdRead:
		return "read"
	case CmdWrite:
		return "write"
	default:
		return "unknown"
	}
}
