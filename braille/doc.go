// Package braille transliterates Unicode text into uncontracted (Grade 1)
// English Braille using the Unicode Braille Patterns block.
//
// Each lowercase letter, digit and supported punctuation mark becomes one
// six-dot cell. Uppercase letters are prefixed with the capital sign, runs of
// digits are prefixed with the number sign and terminated by a blank cell,
// newlines pass through, and anything else becomes a literal '?'.
//
// The lookup tables are package-level constants and every function in this
// package is safe for concurrent use.
package braille
