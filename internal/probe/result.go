package probe

import "time"

// Result is the outcome of one trial. It is immutable once constructed:
// the prober builds it, the collector stores it, nothing mutates it after.
type Result struct {
	Success bool

	ConnectTime  time.Duration // dial start to connection established (success only)
	ResponseTime time.Duration // connection established to response decoded (success only)
	TotalTime    time.Duration // dial start to finish, recorded for failures too

	PlayersOnline int
	PlayersMax    int
	Version       string
	MOTD          string

	Err error // failure cause, nil on success
}

// Cause returns the textual failure cause, or "" for a success.
func (r Result) Cause() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
