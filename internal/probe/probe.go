// Package probe runs single status trials: one connect, one handshake, one
// status request, one response. Every trial owns its connection exclusively
// and closes it on every exit path.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"craftload/internal/mcproto"
)

// Prober executes trials against a fixed target.
type Prober struct {
	host    string
	port    uint16
	timeout time.Duration
}

func New(host string, port uint16, timeout time.Duration) *Prober {
	return &Prober{host: host, port: port, timeout: timeout}
}

// Probe runs one full connect -> handshake -> status -> decode cycle.
// All transport and protocol errors terminate the trial as a Failure result;
// none propagate. There are no retries.
func (p *Prober) Probe(ctx context.Context) Result {
	start := time.Now()

	dialer := net.Dialer{Timeout: p.timeout}
	addr := net.JoinHostPort(p.host, strconv.Itoa(int(p.port)))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Result{TotalTime: time.Since(start), Err: err}
	}
	defer conn.Close()
	connected := time.Now()

	// The timeout also bounds the send/receive phases, not just the dial.
	if err := conn.SetDeadline(connected.Add(p.timeout)); err != nil {
		return Result{TotalTime: time.Since(start), Err: err}
	}

	sess := mcproto.NewSession(conn)
	if err := sess.SendHandshake(p.host, p.port); err != nil {
		return Result{TotalTime: time.Since(start), Err: err}
	}
	if err := sess.SendStatusRequest(); err != nil {
		return Result{TotalTime: time.Since(start), Err: err}
	}
	status, err := sess.ReadStatusResponse()
	if err != nil {
		return Result{TotalTime: time.Since(start), Err: err}
	}

	end := time.Now()
	return Result{
		Success:       true,
		ConnectTime:   connected.Sub(start),
		ResponseTime:  end.Sub(connected),
		TotalTime:     end.Sub(start),
		PlayersOnline: status.PlayersOnline,
		PlayersMax:    status.PlayersMax,
		Version:       status.Version,
		MOTD:          status.MOTD,
	}
}
