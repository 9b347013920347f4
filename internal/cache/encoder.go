package cache

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/brl/braille"
)

// Encoder memoizes a braille.Encoder. Keys cover the source text only, so
// one Encoder must not be shared between differently configured encoders.
type Encoder struct {
	enc *braille.Encoder
	mem *Memory
}

// NewEncoder wraps enc with a cache of the given capacity in bytes.
func NewEncoder(enc *braille.Encoder, capacity int64) *Encoder {
	return &Encoder{enc: enc, mem: NewMemory(capacity)}
}

// EncodeStats returns the cached result for text, encoding it on a miss.
func (e *Encoder) EncodeStats(text string) (string, braille.Stats) {
	key := GenerateKey(text)
	if entry, ok := e.mem.Get(key); ok {
		log.Debug("encode cache hit", "key", key)
		return entry.Braille, entry.Stats
	}

	out, stats := e.enc.EncodeStats(text)
	if err := e.mem.Put(key, Entry{Braille: out, Stats: stats}); err != nil && !errors.Is(err, ErrItemTooLarge) {
		log.Warn("unable to cache encoding", "key", key, "error", err)
	}
	return out, stats
}

// Forget drops the cached result for text, if any.
func (e *Encoder) Forget(text string) {
	key := GenerateKey(text)
	if !e.mem.Contains(key) {
		return
	}
	e.mem.Delete(key)
	log.Debug("dropped cached encoding", "key", key)
}

// Stats reports the cache metrics.
func (e *Encoder) Stats() Stats {
	return e.mem.Stats()
}
