package room

import (
	"strings"
	"unicode/utf8"
)

// MinPlayerNameLength is the minimum trimmed player name length, in runes.
const MinPlayerNameLength = 2

// NormalizeRoomName trims a room name and validates it.
func NormalizeRoomName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validationError("room name is required")
	}
	if !utf8.ValidString(name) {
		return "", validationError("room name contains invalid characters")
	}
	return name, nil
}

// NormalizePlayerName trims a player name and validates it.
func NormalizePlayerName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if !utf8.ValidString(name) {
		return "", validationError("player name contains invalid characters")
	}
	if utf8.RuneCountInString(name) < MinPlayerNameLength {
		return "", validationError("player name must be at least %d characters", MinPlayerNameLength)
	}
	return name, nil
}
