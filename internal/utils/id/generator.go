package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewLogID returns a time-ordered identifier for correlating log lines of one update.
func NewLogID() string {
	return "log-" + NewUUIDv7()
}

// NewUUIDv7 generates a time-ordered UUID, falling back to random hex when
// the clock source fails.
func NewUUIDv7() string {
	uuidv7, err := uuid.NewV7()
	if err != nil {
		var buf [16]byte
		_, _ = rand.Read(buf[:])
		return hex.EncodeToString(buf[:])
	}
	return uuidv7.String()
}
