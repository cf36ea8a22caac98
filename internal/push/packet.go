package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Engine.IO v4 packet types.
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
	engineUpgrade = '5'
	engineNoop    = '6'
)

// Socket.IO v5 packet types, carried inside Engine.IO message packets.
const (
	socketConnect      = '0'
	socketDisconnect   = '1'
	socketEvent        = '2'
	socketAck          = '3'
	socketConnectError = '4'
)

var errEmptyPacket = errors.New("empty packet")

// openPacket is the payload of the Engine.IO open packet.
type openPacket struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// socketPacket is a decoded Socket.IO packet.
type socketPacket struct {
	Type      byte
	Namespace string
	AckID     int // -1 when absent
	Payload   string
}

// parseEngine splits a raw frame into its Engine.IO type and data.
func parseEngine(raw string) (byte, string, error) {
	if raw == "" {
		return 0, "", errEmptyPacket
	}
	return raw[0], raw[1:], nil
}

// parseSocket decodes the data of an Engine.IO message packet.
// Format: <type>[/<namespace>,][<ack id>][<json payload>]
func parseSocket(data string) (socketPacket, error) {
	if data == "" {
		return socketPacket{}, errEmptyPacket
	}

	p := socketPacket{Type: data[0], Namespace: "/", AckID: -1}
	rest := data[1:]

	if strings.HasPrefix(rest, "/") {
		ns, after, ok := strings.Cut(rest, ",")
		if !ok {
			p.Namespace = rest
			return p, nil
		}
		p.Namespace = ns
		rest = after
	}

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		id, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return socketPacket{}, fmt.Errorf("parsing ack id: %w", err)
		}
		p.AckID = id
		rest = rest[digits:]
	}

	p.Payload = rest
	return p, nil
}

// decodeEventPayload splits an EVENT payload (["name", arg, ...]) into
// the event name and its first argument.
func decodeEventPayload(payload string) (string, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &parts); err != nil {
		return "", nil, fmt.Errorf("decoding event payload: %w", err)
	}
	if len(parts) == 0 {
		return "", nil, errors.New("event payload has no name")
	}

	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, fmt.Errorf("decoding event name: %w", err)
	}

	if len(parts) < 2 {
		return name, json.RawMessage("null"), nil
	}
	return name, parts[1], nil
}

// encodeConnect builds the namespace CONNECT packet for the default
// namespace.
func encodeConnect() string {
	return string([]byte{engineMessage, socketConnect})
}

func encodePong() string {
	return string([]byte{enginePong})
}
