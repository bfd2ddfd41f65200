package claims

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NumberingConfig controls claim number allocation
type NumberingConfig struct {
	// Prefix is the leading tag of every claim number
	Prefix string

	// MaxAttempts bounds the collision retry loop
	MaxAttempts int
}

// DefaultNumberingConfig returns the default numbering configuration
func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		Prefix:      "CLM",
		MaxAttempts: 3,
	}
}

// generateClaimNumber produces a candidate claim number of the form
// PREFIX-YYYYMMDD-XXXXXX with a random six-digit hex suffix. Uniqueness is
// the caller's responsibility via the existence check and retry loop.
func generateClaimNumber(prefix string, now time.Time) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to read random suffix: %w", err)
	}
	suffix := binary.BigEndian.Uint32(buf[:]) & 0xFFFFFF
	return fmt.Sprintf("%s-%s-%06X", prefix, now.Format("20060102"), suffix), nil
}
