package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"craftload/internal/mcproto"
	"craftload/internal/metrics"
)

func TestCauseLabel(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&mcproto.ConnectionClosedError{During: "varint"}, "Connection closed"},
		{&mcproto.VarIntTooLongError{}, "Malformed VarInt"},
		{&mcproto.UnexpectedPacketIDError{ID: 5}, "Unexpected packet id"},
		{&mcproto.DecodeError{Err: errors.New("bad json")}, "Invalid status payload"},
		{context.DeadlineExceeded, "Deadline exceeded"},
		{syscall.ECONNREFUSED, "Connection refused"},
		{fmt.Errorf("dial: %w", syscall.ECONNREFUSED), "Connection refused"},
		{errors.New("something else"), "Error"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := metrics.CauseLabel(tc.err); got != tc.want {
			t.Errorf("CauseLabel(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestCauseLabelWrappedProtocolError(t *testing.T) {
	err := fmt.Errorf("read response: %w", &mcproto.ConnectionClosedError{})
	if got := metrics.CauseLabel(err); got != "Connection closed" {
		t.Errorf("wrapped protocol error = %q", got)
	}
}
