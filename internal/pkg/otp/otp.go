package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// TTL is how long an emailed code stays valid
const TTL = 10 * time.Minute

// Generate returns a 6-digit numeric code
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Expired reports whether a code created at createdAt is past TTL at now
func Expired(createdAt, now time.Time) bool {
	return now.Sub(createdAt) > TTL
}
