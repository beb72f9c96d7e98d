package service

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewOrderNumber formats ORD-YYYYMM-RRRR from the creation time and four
// random digits. Uniqueness is enforced by the store.
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%04d%02d-%04d", t.Year(), int(t.Month()), rand.IntN(10000))
}
