package mcproto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// ProtocolVersion is the only handshake version this tool speaks.
	// 763 corresponds to Minecraft 1.20.1.
	ProtocolVersion = 763

	// statusPacketID is the packet id shared by the handshake, the status
	// request, and the status response.
	statusPacketID = 0x00

	// nextStateStatus asks the server to switch the connection into the
	// unauthenticated status state.
	nextStateStatus = 1

	// maxStatusPayloadBytes bounds the declared payload length. Status
	// documents with a favicon run to a few hundred KB; anything past this is
	// a broken or hostile peer, and trusting it would let a single VarInt
	// force an arbitrarily large allocation.
	maxStatusPayloadBytes = 4 << 20
)

// HandshakePacket assembles the serverbound handshake for host:port,
// length-prefixed and ready for a single write:
//
//	VarInt(len) | VarInt(0x00) | VarInt(763) | VarInt(len(host)) | host | uint16BE(port) | VarInt(1)
//
// The length prefix is measured from the assembled body rather than assumed
// from fixed field widths, so a changed protocol version cannot silently
// corrupt framing.
func HandshakePacket(host string, port uint16) []byte {
	body := make([]byte, 0, 8+len(host))
	body = append(body, VarInt(statusPacketID).Encode()...)
	body = append(body, VarInt(ProtocolVersion).Encode()...)
	body = append(body, VarInt(int32(len(host))).Encode()...)
	body = append(body, host...)
	body = binary.BigEndian.AppendUint16(body, port)
	body = append(body, VarInt(nextStateStatus).Encode()...)

	packet := VarInt(int32(len(body))).Encode()
	return append(packet, body...)
}

// StatusRequestPacket returns the empty-body status request:
// VarInt(1) | VarInt(0x00).
func StatusRequestPacket() []byte {
	packet := VarInt(1).Encode()
	return append(packet, VarInt(statusPacketID).Encode()...)
}

// Session performs the two-message status exchange over an already-open
// byte stream. It owns no connection state beyond the stream itself.
type Session struct {
	rw io.ReadWriter
}

func NewSession(rw io.ReadWriter) *Session {
	return &Session{rw: rw}
}

// SendHandshake writes the handshake packet as one contiguous send.
func (s *Session) SendHandshake(host string, port uint16) error {
	_, err := s.rw.Write(HandshakePacket(host, port))
	return err
}

// SendStatusRequest writes the status-request packet.
func (s *Session) SendStatusRequest() error {
	_, err := s.rw.Write(StatusRequestPacket())
	return err
}

// ReadStatusResponse reads and decodes the clientbound status response.
// The packet id must be 0x00; anything else yields UnexpectedPacketIDError.
func (s *Session) ReadStatusResponse() (StatusResponse, error) {
	if _, err := ReadVarInt(s.rw); err != nil { // packet length, framing only
		return StatusResponse{}, err
	}
	id, err := ReadVarInt(s.rw)
	if err != nil {
		return StatusResponse{}, err
	}
	if id != statusPacketID {
		return StatusResponse{}, &UnexpectedPacketIDError{ID: id}
	}
	payloadLen, err := ReadVarInt(s.rw)
	if err != nil {
		return StatusResponse{}, err
	}
	if payloadLen < 0 || payloadLen > maxStatusPayloadBytes {
		return StatusResponse{}, &DecodeError{Err: fmt.Errorf("declared payload length %d out of range", payloadLen)}
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(s.rw, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return StatusResponse{}, &ConnectionClosedError{During: "status payload"}
		}
		return StatusResponse{}, err
	}

	return DecodeStatus(payload)
}
