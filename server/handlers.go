package server

import (
	"encoding/json"
	"log"

	game "github.com/hvj78/3dsnake/src"
)

// handleMessage dispatches one incoming envelope. Protocol errors are
// reported to the sender and the connection stays open; only transport
// failures tear a client down.
func (m *RoomManager) handleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.trySend(errorMessage(ErrBadMessage, "malformed message"))
		return
	}

	switch env.Type {
	case MsgPing:
		var p pingPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.trySend(errorMessage(ErrBadMessage, "malformed ping payload"))
			return
		}
		c.trySend(encodeMessage(MsgPong, pongPayload{
			ClientTimeMs: p.ClientTimeMs,
			ServerTimeMs: nowMs(),
		}))
		return

	case MsgJoin:
		if c.Room() != nil {
			c.trySend(errorMessage(ErrBadJoin, "already joined a room"))
			return
		}
		var p joinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.trySend(errorMessage(ErrBadJoin, "malformed join payload"))
			return
		}
		m.join(c, p.Name, p.RoomID)
		return

	case MsgLeave:
		// Closing the connection unwinds the player through the read pump.
		c.conn.Close()
		return
	}

	room := c.Room()
	if room == nil {
		c.trySend(errorMessage(ErrBadJoin, "first message must be join"))
		return
	}

	var err error
	switch env.Type {
	case MsgSetSettings:
		var s game.Settings
		if uerr := json.Unmarshal(env.Payload, &s); uerr != nil {
			c.trySend(errorMessage(ErrBadSettings, "malformed settings payload"))
			return
		}
		err = room.SetSettings(c.PlayerID(), s)

	case MsgSetColor:
		var p setColorPayload
		if uerr := json.Unmarshal(env.Payload, &p); uerr != nil {
			c.trySend(errorMessage(ErrBadMessage, "malformed set_color payload"))
			return
		}
		err = room.SetColor(c.PlayerID(), p.Color)

	case MsgReady:
		var p readyPayload
		if uerr := json.Unmarshal(env.Payload, &p); uerr != nil {
			c.trySend(errorMessage(ErrBadMessage, "malformed ready payload"))
			return
		}
		err = room.SetReady(c.PlayerID(), p.Ready)

	case MsgForceStart:
		err = room.ForceStart(c.PlayerID())

	case MsgInput:
		var p inputPayload
		if uerr := json.Unmarshal(env.Payload, &p); uerr != nil {
			c.trySend(errorMessage(ErrBadMessage, "malformed input payload"))
			return
		}
		room.QueueInputs(c.PlayerID(), p.Inputs)

	default:
		log.Printf("client %s: unknown message type %q", c.PlayerID(), env.Type)
		c.trySend(errorMessage(ErrBadMessage, "unknown message type"))
		return
	}

	if err != nil {
		if pe, ok := err.(*protoErr); ok {
			c.trySend(errorMessage(pe.code, pe.message))
		} else {
			c.trySend(errorMessage(ErrBadMessage, err.Error()))
		}
	}
}
