package config

import "time"

// Room and round defaults. Hosts can change the round settings from the
// lobby; these are the values a fresh room starts with.
const (
	DefaultCubeN        = 24
	DefaultRoundSeconds = 180
	DefaultTickRate     = 12
	DefaultFruitPerFace = 1
)

// Validation bounds for host-adjustable settings. Out-of-range values are
// rejected, never clamped.
const (
	MinCubeN        = 2
	MaxCubeN        = 64
	MinRoundSeconds = 30
	MaxRoundSeconds = 1800
	MinTickRate     = 5
	MaxTickRate     = 30
	MinFruitPerFace = 1
	MaxFruitPerFace = 8
)

const (
	// MaxPlayersPerRoom caps lobby membership; it matches the color palette.
	MaxPlayersPerRoom = 8

	// CountdownLead is the delay between the start trigger and the first
	// simulated tick, giving clients time for a 3-2-1 countdown.
	CountdownLead = 3500 * time.Millisecond

	// RespawnDelayMs is how long a dead snake waits before being placed
	// again, exposed to clients as respawnInMs.
	RespawnDelayMs = 3000

	// JoinTimeout bounds how long a fresh connection may idle before its
	// first join message.
	JoinTimeout = 10 * time.Second

	// InputWindowTicks scales the per-player input buffer: commands may be
	// queued up to InputWindowTicks*tickRate ticks ahead of the last
	// consumed tick.
	InputWindowTicks = 2
)

// SnakePalette lists the selectable snake colors (0xRRGGBB). New players get
// the first free entry; set_color may switch to any entry.
var SnakePalette = []int{
	0xDB2777, // magenta
	0xEF4444, // red
	0xF97316, // orange
	0xFACC15, // yellow
	0x22C55E, // green
	0x06B6D4, // cyan
	0x3B82F6, // blue
	0x8B5CF6, // violet
}

// RoomIDAlphabet is the character set for room codes. It omits the easily
// confused characters 0, O, 1 and I.
const RoomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomIDLength is the number of characters in a room code.
const RoomIDLength = 6
