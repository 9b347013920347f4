// Package cache keeps recently encoded documents in memory. Reloading a file
// that did not change, or encoding the same document twice in a batch, is
// served from an LRU instead of being scanned again.
package cache
