package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dgnsrekt/brl/braille"
)

func entryOf(n int) Entry {
	return Entry{Braille: strings.Repeat("x", n)}
}

func TestMemory_BasicOperations(t *testing.T) {
	cache := NewMemory(1024)

	key := "test-key"
	value := Entry{Braille: braille.Encode("test value"), Stats: braille.Stats{Cells: 10}}

	if err := cache.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	retrieved, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if retrieved != value {
		t.Errorf("Retrieved value mismatch: got %+v, want %+v", retrieved, value)
	}

	if !cache.Contains(key) {
		t.Error("Contains returned false for existing key")
	}

	expectedSize := int64(len(key) + len(value.Braille))
	if cache.Stats().Size != expectedSize {
		t.Errorf("Size mismatch: got %d, want %d", cache.Stats().Size, expectedSize)
	}

	cache.Delete(key)
	if cache.Contains(key) {
		t.Error("Key still exists after delete")
	}
	if cache.Stats().Size != 0 {
		t.Errorf("Size not zero after delete: %d", cache.Stats().Size)
	}
}

func TestMemory_LRUEviction(t *testing.T) {
	cache := NewMemory(100)

	// Each item is 25 bytes: a 5 byte key and 20 bytes of output.
	for i := 0; i < 4; i++ {
		if err := cache.Put(fmt.Sprintf("key-%d", i), entryOf(20)); err != nil {
			t.Fatalf("Put failed for key-%d: %v", i, err)
		}
	}

	// Access key-0 and key-1 to make them recently used
	cache.Get("key-0")
	cache.Get("key-1")

	if err := cache.Put("key-n", entryOf(20)); err != nil {
		t.Fatalf("Put failed for new key: %v", err)
	}

	if cache.Contains("key-2") {
		t.Error("key-2 should have been evicted")
	}
	for _, key := range []string{"key-0", "key-1", "key-3", "key-n"} {
		if !cache.Contains(key) {
			t.Errorf("%s should not have been evicted", key)
		}
	}
	if got := cache.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestMemory_ItemTooLarge(t *testing.T) {
	cache := NewMemory(100)
	if err := cache.Put("large-key", entryOf(200)); err != ErrItemTooLarge {
		t.Errorf("Expected ErrItemTooLarge, got %v", err)
	}
}

func TestMemory_UpdateExisting(t *testing.T) {
	cache := NewMemory(1024)

	key := "update-key"
	if err := cache.Put(key, Entry{Braille: "original"}); err != nil {
		t.Fatalf("First Put failed: %v", err)
	}
	if err := cache.Put(key, Entry{Braille: "updated-value"}); err != nil {
		t.Fatalf("Update Put failed: %v", err)
	}

	retrieved, ok := cache.Get(key)
	if !ok {
		t.Fatal("Key not found after update")
	}
	if retrieved.Braille != "updated-value" {
		t.Errorf("Value not updated: got %s", retrieved.Braille)
	}
	if want := int64(len(key) + len("updated-value")); cache.Stats().Size != want {
		t.Errorf("Size = %d, want %d", cache.Stats().Size, want)
	}
}

func TestMemory_Stats(t *testing.T) {
	cache := NewMemory(1024)
	_ = cache.Put("a", entryOf(1))

	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("HitRate = %f", stats.HitRate)
	}
	if stats.Capacity != 1024 || stats.Items != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	cache := NewMemory(1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", i, j%10)
				_ = cache.Put(key, entryOf(j%20))
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Stats().Size > 1024 {
		t.Errorf("Size %d exceeds capacity", cache.Stats().Size)
	}
}
