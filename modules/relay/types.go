package relay

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MaxNicknameLength    = 50
	MaxChannelNameLength = 100
	MaxMessageLength     = 5000
)

// Failure taxonomy. Every failure is local to the originating connection
// and reported back only to that connection.
var (
	ErrNicknameEmpty      = errors.New("nickname cannot be empty")
	ErrNicknameTooLong    = errors.New("nickname exceeds maximum length")
	ErrNicknameInvalid    = errors.New("nickname contains invalid characters")
	ErrChannelNameEmpty   = errors.New("channel name cannot be empty")
	ErrChannelNameTooLong = errors.New("channel name exceeds maximum length")
	ErrChannelNameInvalid = errors.New("channel name contains invalid characters")
	ErrMessageEmpty       = errors.New("message cannot be empty")
	ErrMessageTooLong     = errors.New("message exceeds maximum length")
	ErrMessageInvalid     = errors.New("message contains invalid characters")
	ErrNotAuthenticated   = errors.New("a nickname is required for this action")
	ErrRecipientNotFound  = errors.New("recipient is not online")
	ErrSessionNotFound    = errors.New("unknown connection")
)

// ValidateNickname validates a nickname.
func ValidateNickname(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return ErrNicknameEmpty
	}
	if len(nickname) > MaxNicknameLength {
		return ErrNicknameTooLong
	}
	if !utf8.ValidString(nickname) {
		return ErrNicknameInvalid
	}
	return nil
}

// ValidateChannelName validates a channel name.
func ValidateChannelName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrChannelNameEmpty
	}
	if len(name) > MaxChannelNameLength {
		return ErrChannelNameTooLong
	}
	if !utf8.ValidString(name) {
		return ErrChannelNameInvalid
	}
	return nil
}

// ValidateMessage validates a message body.
func ValidateMessage(body string) error {
	if body == "" {
		return ErrMessageEmpty
	}
	if len(body) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if !utf8.ValidString(body) {
		return ErrMessageInvalid
	}
	return nil
}
