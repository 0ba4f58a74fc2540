package model

import "errors"

const MaxChannelNameLength = 50

var ErrChannelNameInvalid = errors.New("channel names can only contain letters and numbers, and must not exceed 50 characters")

// SystemChannels are implicitly joined by every account and carry only
// server-generated notices. They cannot be joined or left by command.
var SystemChannels = []string{"connected", "disconnected", "system"}

// AdminChannels are restricted to admin accounts. Membership is granted
// on promotion and revoked on demotion.
var AdminChannels = []string{"admin", "administrator", "administrators", "error", "debug"}

// IsSystemChannel reports whether name is a reserved system channel.
func IsSystemChannel(name string) bool {
	for _, ch := range SystemChannels {
		if ch == name {
			return true
		}
	}
	return false
}

// IsAdminChannel reports whether name is an admin-restricted channel.
func IsAdminChannel(name string) bool {
	for _, ch := range AdminChannels {
		if ch == name {
			return true
		}
	}
	return false
}

// ValidateChannelName checks that a channel name is 1-50 lowercase
// alphanumeric characters.
func ValidateChannelName(name string) error {
	if len(name) == 0 || len(name) > MaxChannelNameLength {
		return ErrChannelNameInvalid
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ErrChannelNameInvalid
		}
	}
	return nil
}
