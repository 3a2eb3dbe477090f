package util

import (
	"fmt"
	"math/rand"
	"time"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateRandomNumber returns a random number between min and max (inclusive).
func GenerateRandomNumber(min, max int) int {
	return min + rng.Intn(max-min+1)
}

// GenerateOrderCode builds a human-readable order code, e.g. "BK-20260901-4821".
func GenerateOrderCode(at time.Time) string {
	return fmt.Sprintf("BK-%s-%04d", at.Format("20060102"), rng.Intn(10000))
}
