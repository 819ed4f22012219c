package mcproto

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// unknownField is reported when the server omits an optional status field.
const unknownField = "Unknown"

// StatusResponse is the decoded status document. Fields the server omits
// default to zero counts and "Unknown" strings rather than failing.
type StatusResponse struct {
	PlayersOnline int
	PlayersMax    int
	Version       string
	MOTD          string
}

// statusPayload mirrors the wire JSON. Pointers distinguish absent fields;
// description stays raw because servers send either a plain string or a
// structured chat object.
type statusPayload struct {
	Players *struct {
		Online *int `json:"online"`
		Max    *int `json:"max"`
	} `json:"players"`
	Version *struct {
		Name *string `json:"name"`
	} `json:"version"`
	Description json.RawMessage `json:"description"`
}

// DecodeStatus parses a status payload into a StatusResponse, applying the
// documented defaults for missing fields.
func DecodeStatus(payload []byte) (StatusResponse, error) {
	if !utf8.Valid(payload) {
		return StatusResponse{}, &DecodeError{Err: errNotUTF8}
	}

	var raw statusPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return StatusResponse{}, &DecodeError{Err: err}
	}

	resp := StatusResponse{Version: unknownField, MOTD: unknownField}
	if raw.Players != nil {
		if raw.Players.Online != nil {
			resp.PlayersOnline = *raw.Players.Online
		}
		if raw.Players.Max != nil {
			resp.PlayersMax = *raw.Players.Max
		}
	}
	if raw.Version != nil && raw.Version.Name != nil {
		resp.Version = *raw.Version.Name
	}
	if motd := motdText(raw.Description); motd != "" {
		resp.MOTD = motd
	}
	return resp, nil
}

// motdText flattens a description value to display text. Chat objects carry
// their text in "text" plus optional "extra" components.
func motdText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	v := gjson.ParseBytes(raw)
	if !v.IsObject() {
		return v.String()
	}

	var b strings.Builder
	b.WriteString(v.Get("text").String())
	for _, extra := range v.Get("extra").Array() {
		if extra.IsObject() {
			b.WriteString(extra.Get("text").String())
		} else {
			b.WriteString(extra.String())
		}
	}
	return b.String()
}

type utf8Error struct{}

func (utf8Error) Error() string { return "payload is not valid UTF-8" }

var errNotUTF8 = utf8Error{}
