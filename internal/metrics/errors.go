package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"craftload/internal/mcproto"
)

// CauseLabel returns a stable, human-friendly bucket label for a trial
// failure. Protocol errors get their own buckets; transport errors are
// split into timeout/refused/reset; anything else falls back to its type
// name.
func CauseLabel(err error) string {
	if err == nil {
		return ""
	}

	var closed *mcproto.ConnectionClosedError
	if errors.As(err, &closed) {
		return "Connection closed"
	}
	var tooLong *mcproto.VarIntTooLongError
	if errors.As(err, &tooLong) {
		return "Malformed VarInt"
	}
	var unexpected *mcproto.UnexpectedPacketIDError
	if errors.As(err, &unexpected) {
		return "Unexpected packet id"
	}
	var decode *mcproto.DecodeError
	if errors.As(err, &decode) {
		return "Invalid status payload"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Deadline exceeded"
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "Connection refused"
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return "Connection reset"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timeout"
	}

	return typeLabel(err)
}

// typeLabel reduces an error's Go type name to its last path element.
func typeLabel(err error) string {
	name := fmt.Sprintf("%T", err)
	name = strings.TrimPrefix(name, "*")
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if name == "errors.errorString" || name == "fmt.wrapError" {
		return "Error"
	}
	return name
}
