package room

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for membership operations.
var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNameTaken is returned when a room already has a member with the same name,
	// compared case-insensitively.
	ErrNameTaken = errors.New("name taken")
)

// Error codes carried in request-reply responses.
const (
	CodeValidation   = "validation_error"
	CodeRoomNotFound = "room_not_found"
	CodeNameTaken    = "name_taken"
	CodeInternal     = "internal_error"
)

// ErrorCode maps an error to its response code. A nil error maps to "".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrRoomNotFound):
		return CodeRoomNotFound
	case errors.Is(err, ErrNameTaken):
		return CodeNameTaken
	default:
		return CodeInternal
	}
}

// ErrorFromCode rebuilds a sentinel-wrapped error from a response code and message.
func ErrorFromCode(code, message string) error {
	var sentinel error
	switch code {
	case "":
		return nil
	case CodeValidation:
		sentinel = ErrValidation
	case CodeRoomNotFound:
		sentinel = ErrRoomNotFound
	case CodeNameTaken:
		sentinel = ErrNameTaken
	default:
		return errors.New(message)
	}
	message = strings.TrimPrefix(message, sentinel.Error()+": ")
	if message == "" || message == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
