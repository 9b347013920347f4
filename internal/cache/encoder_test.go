package cache

import (
	"testing"

	"github.com/dgnsrekt/brl/braille"
)

func TestEncoder(t *testing.T) {
	enc := NewEncoder(braille.NewEncoder(), DefaultCapacity)

	out, stats := enc.EncodeStats("Hello 42")
	if want := braille.Encode("Hello 42"); out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
	if stats.Capitals != 1 || stats.NumberRuns != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	again, againStats := enc.EncodeStats("Hello 42")
	if again != out || againStats != stats {
		t.Errorf("cached result differs: %q %+v", again, againStats)
	}

	s := enc.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Items != 1 {
		t.Errorf("unexpected cache stats: %+v", s)
	}
}

func TestEncoder_Forget(t *testing.T) {
	enc := NewEncoder(braille.NewEncoder(), DefaultCapacity)
	enc.EncodeStats("old text")
	enc.EncodeStats("other text")

	enc.Forget("old text")
	enc.Forget("never encoded")
	if got := enc.Stats().Items; got != 1 {
		t.Fatalf("Items = %d after Forget, want 1", got)
	}

	enc.EncodeStats("old text")
	if s := enc.Stats(); s.Misses != 3 || s.Hits != 0 {
		t.Errorf("forgotten text should miss again: %+v", s)
	}
}

func TestEncoder_TooLargeStillEncodes(t *testing.T) {
	enc := NewEncoder(braille.NewEncoder(), 4)

	out, _ := enc.EncodeStats("a longer document")
	if want := braille.Encode("a longer document"); out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if enc.Stats().Items != 0 {
		t.Error("oversized result should not be cached")
	}
}

func TestGenerateKey(t *testing.T) {
	if GenerateKey("a") == GenerateKey("b") {
		t.Error("different texts should get different keys")
	}
	if k := GenerateKey("a"); len(k) != 32 || k != GenerateKey("a") {
		t.Errorf("unexpected key %q", k)
	}
}
