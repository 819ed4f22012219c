// Package mcproto implements the Minecraft server-status wire protocol:
// VarInt framing, the serverbound handshake and status-request packets, and
// the clientbound JSON status response.
package mcproto

import (
	"errors"
	"io"
)

// maxVarIntBytes caps VarInt encodings at 32 bits of payload; the protocol
// never frames values larger than that.
const maxVarIntBytes = 5

// VarInt is the protocol's variable-length integer: 7 data bits per byte,
// high bit as continuation flag, little-endian group order.
type VarInt int32

// Encode returns the wire encoding of v. Zero encodes as a single 0x00 byte.
func (v VarInt) Encode() []byte {
	buf := make([]byte, 0, maxVarIntBytes)
	u := uint32(v)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if u == 0 {
			return buf
		}
	}
}

// ReadVarInt decodes a VarInt from r, consuming at most 5 bytes.
// It returns VarIntTooLongError if the fifth byte still has its continuation
// bit set and ConnectionClosedError if the stream ends mid-value.
func ReadVarInt(r io.Reader) (int32, error) {
	var value uint32
	buf := make([]byte, 1)
	for i := 0; i < maxVarIntBytes; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, &ConnectionClosedError{During: "varint"}
			}
			return 0, err
		}
		b := buf[0]
		value |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int32(value), nil
		}
	}
	return 0, &VarIntTooLongError{}
}
