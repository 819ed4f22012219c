package probe_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"craftload/internal/mcproto"
	"craftload/internal/probe"
)

// serveStatus accepts connections and answers the status exchange with the
// given payload until the listener closes.
func serveStatus(t *testing.T, ln net.Listener, payload string) {
	t.Helper()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				// Handshake then status request, both length-prefixed.
				for i := 0; i < 2; i++ {
					length, err := mcproto.ReadVarInt(r)
					if err != nil {
						return
					}
					if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
						return
					}
				}
				body := mcproto.VarInt(0).Encode()
				body = append(body, mcproto.VarInt(int32(len(payload))).Encode()...)
				body = append(body, payload...)
				frame := mcproto.VarInt(int32(len(body))).Encode()
				frame = append(frame, body...)
				conn.Write(frame)
			}(conn)
		}
	}()
}

func listenerPort(t *testing.T, ln net.Listener) uint16 {
	t.Helper()
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split listener addr: %v", err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		t.Fatalf("parse listener port: %v", err)
	}
	return uint16(port)
}

func TestProbeSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	serveStatus(t, ln, `{"players":{"online":7,"max":20},"version":{"name":"1.20.1"},"description":"motd"}`)

	p := probe.New("127.0.0.1", listenerPort(t, ln), 2*time.Second)
	res := p.Probe(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got failure: %v", res.Err)
	}
	if res.PlayersOnline != 7 || res.PlayersMax != 20 {
		t.Errorf("players = %d/%d, want 7/20", res.PlayersOnline, res.PlayersMax)
	}
	if res.Version != "1.20.1" || res.MOTD != "motd" {
		t.Errorf("metadata = %q/%q", res.Version, res.MOTD)
	}
	if res.ConnectTime <= 0 || res.ResponseTime <= 0 {
		t.Errorf("phase timings not recorded: connect=%s response=%s", res.ConnectTime, res.ResponseTime)
	}
	if res.TotalTime < res.ConnectTime {
		t.Errorf("total %s < connect %s", res.TotalTime, res.ConnectTime)
	}
}

func TestProbeConnectRefused(t *testing.T) {
	// Bind a port, then close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := listenerPort(t, ln)
	ln.Close()

	p := probe.New("127.0.0.1", port, time.Second)
	res := p.Probe(context.Background())

	if res.Success {
		t.Fatal("expected failure against closed port")
	}
	if res.Err == nil || res.Cause() == "" {
		t.Error("failure must carry a textual cause")
	}
	if res.TotalTime <= 0 {
		t.Error("failure must record total time")
	}
}

func TestProbeServerClosesEarly(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close() // hang up before answering
		}
	}()

	p := probe.New("127.0.0.1", listenerPort(t, ln), time.Second)
	res := p.Probe(context.Background())
	if res.Success {
		t.Fatal("expected failure when server hangs up")
	}
}
