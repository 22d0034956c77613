package domain

import "strings"

// RoomID identifies a named channel of messages.
// Rooms are created implicitly on first join; there is no teardown.
type RoomID string

// NormalizeRoomCode maps user-typed room codes onto a canonical RoomID.
func NormalizeRoomCode(code string) RoomID {
	return RoomID(strings.ToUpper(strings.TrimSpace(code)))
}
