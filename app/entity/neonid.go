package entity

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const neonIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewNeonID builds a human-shareable public identifier of the form
// NEON-<base36 millisecond timestamp>-<6 random base36 characters>.
// The identifier is assigned once at registration and never changes.
func NewNeonID(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("neon id randomness: %w", err)
	}
	for i, b := range buf {
		buf[i] = neonIDAlphabet[int(b)%len(neonIDAlphabet)]
	}

	return fmt.Sprintf("NEON-%s-%s", strconv.FormatInt(now.UnixMilli(), 36), buf), nil
}
