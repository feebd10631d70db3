package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const alertPrefix = "ALERT-"

// NewJobID returns a random job ID for runs the caller did not tag.
func NewJobID() string {
	return uuid.NewString()
}

// JobID returns given when it is non-blank, otherwise a new random ID.
func JobID(given string) string {
	if s := strings.TrimSpace(given); s != "" {
		return s
	}
	return NewJobID()
}

// FormatAlertID returns an alert ID like "ALERT-007".
func FormatAlertID(seq int) string {
	return fmt.Sprintf("%s%03d", alertPrefix, seq)
}
