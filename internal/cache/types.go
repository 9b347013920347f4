package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/dgnsrekt/brl/braille"
)

// DefaultCapacity is the memory budget of a cache, in bytes.
const DefaultCapacity = 8 * 1024 * 1024

// ErrItemTooLarge is returned when an entry exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// Entry is a cached encoding result.
type Entry struct {
	Braille string
	Stats   braille.Stats
}

func (e Entry) size() int64 {
	return int64(len(e.Braille))
}

// Stats holds cache performance metrics.
type Stats struct {
	Capacity  int64 // bytes
	Size      int64 // bytes
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)
}

// GenerateKey derives the cache key of a source text.
func GenerateKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:16]) // Use first 16 bytes for shorter keys
}
