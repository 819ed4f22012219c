package mcproto

import "fmt"

// ConnectionClosedError reports that the peer closed the stream (or an empty
// read occurred) before a complete protocol element was received.
type ConnectionClosedError struct {
	During string // which element was being read, e.g. "varint", "status payload"
}

func (e *ConnectionClosedError) Error() string {
	if e.During == "" {
		return "connection closed"
	}
	return fmt.Sprintf("connection closed while reading %s", e.During)
}

// VarIntTooLongError reports a VarInt whose continuation bits never
// terminated within the 5-byte limit.
type VarIntTooLongError struct{}

func (e *VarIntTooLongError) Error() string {
	return fmt.Sprintf("varint exceeds %d bytes", maxVarIntBytes)
}

// UnexpectedPacketIDError reports a response packet with an id other than the
// status-response id (0x00).
type UnexpectedPacketIDError struct {
	ID int32
}

func (e *UnexpectedPacketIDError) Error() string {
	return fmt.Sprintf("expected packet id 0, got %d", e.ID)
}

// DecodeError reports a status payload that cannot be decoded: a declared
// length outside the accepted range, or content that is not valid UTF-8 JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid status payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
