package braille

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Stats describes a single encoding pass.
type Stats struct {
	Runes      int // input runes scanned
	Cells      int // Braille cells written, indicators included
	Capitals   int // capital signs written
	NumberRuns int // number signs written, one per digit run
	Unmapped   int // fallback symbols written
	Newlines   int // newlines passed through, before trimming
}

// Add returns the sum of two Stats.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Runes:      s.Runes + o.Runes,
		Cells:      s.Cells + o.Cells,
		Capitals:   s.Capitals + o.Capitals,
		NumberRuns: s.NumberRuns + o.NumberRuns,
		Unmapped:   s.Unmapped + o.Unmapped,
		Newlines:   s.Newlines + o.Newlines,
	}
}

// Option configures an Encoder or a Writer.
type Option func(*options)

type options struct {
	normalize bool
	form      norm.Form
}

// WithNormalization applies the given Unicode normalization form to the input
// before it is scanned. With norm.NFC a decomposed "e" + U+0301 is scanned as
// a single unmapped "é" instead of an "e" followed by an unmapped mark.
func WithNormalization(f norm.Form) Option {
	return func(o *options) {
		o.normalize = true
		o.form = f
	}
}

// Encoder transliterates text into Braille. The zero value is ready to use
// and behaves like Encode.
type Encoder struct {
	opts options
}

// NewEncoder returns an Encoder configured with opts.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, o := range opts {
		o(&e.opts)
	}
	return e
}

var defaultEncoder Encoder

// Encode transliterates text into Grade 1 Braille. It never fails: characters
// without a cell are written as '?'. Leading and trailing whitespace of the
// result is trimmed.
func Encode(text string) string {
	return defaultEncoder.Encode(text)
}

// Encode transliterates text, see the package-level Encode.
func (e *Encoder) Encode(text string) string {
	out, _ := e.EncodeStats(text)
	return out
}

// EncodeStats is like Encode but also reports what the scan produced.
func (e *Encoder) EncodeStats(text string) (string, Stats) {
	if e.opts.normalize {
		text = e.opts.form.String(text)
	}

	var b strings.Builder
	b.Grow(len(text) * 3)

	var s scanner
	for _, r := range text {
		s.scan(&b, r)
	}
	s.flush(&b)

	return strings.TrimSpace(b.String()), s.stats
}

// runeWriter is satisfied by strings.Builder and bytes.Buffer.
type runeWriter interface {
	WriteRune(r rune) (int, error)
}

// scanner holds the per-call state of an encoding pass. It is either in the
// middle of a digit run or not.
type scanner struct {
	inDigits bool
	lower    cases.Caser
	hasLower bool
	stats    Stats
}

func (s *scanner) scan(w runeWriter, r rune) {
	s.stats.Runes++

	if isDigit(r) {
		if !s.inDigits {
			s.inDigits = true
			s.stats.NumberRuns++
			s.cell(w, NumberSign)
		}
		if c, ok := DigitCell(r); ok {
			s.cell(w, c)
		} else {
			s.fallback(w)
		}
		return
	}
	s.flush(w)

	switch {
	case isUpper(r):
		s.stats.Capitals++
		s.cell(w, CapitalSign)
		if c, ok := s.lowerCell(r); ok {
			s.cell(w, c)
		} else {
			s.fallback(w)
		}
	case r == '\n':
		s.stats.Newlines++
		_, _ = w.WriteRune('\n')
	default:
		if c, ok := Lookup(r); ok {
			s.cell(w, c)
		} else {
			s.fallback(w)
		}
	}
}

// isUpper reports whether r has the Unicode Uppercase property, which adds
// Other_Uppercase (circled letters, Roman numerals) to category Lu.
func isUpper(r rune) bool {
	return unicode.IsUpper(r) || unicode.Is(unicode.Other_Uppercase, r)
}

// isDigit reports whether r has Numeric_Type Decimal or Digit. Only ASCII
// digits have cells; the rest are written as '?' inside the run.
func isDigit(r rune) bool {
	return unicode.IsDigit(r) || unicode.Is(numericDigit, r)
}

// numericDigit lists the runes with Numeric_Type=Digit: superscripts,
// subscripts, circled and parenthesized digits and a few historic scripts.
var numericDigit = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// flush terminates an open digit run with a blank cell.
func (s *scanner) flush(w runeWriter) {
	if s.inDigits {
		s.inDigits = false
		s.cell(w, Blank)
	}
}

func (s *scanner) cell(w runeWriter, c Cell) {
	s.stats.Cells++
	_, _ = w.WriteRune(rune(c))
}

func (s *scanner) fallback(w runeWriter) {
	s.stats.Unmapped++
	_, _ = w.WriteRune(Fallback)
}

// lowerCell looks up the full lowercase mapping of an uppercase rune. A
// mapping that expands to more than one rune, like U+0130 to "i̇", has no cell.
func (s *scanner) lowerCell(r rune) (Cell, bool) {
	if r >= 'A' && r <= 'Z' {
		return Lookup(r + ('a' - 'A'))
	}
	if !s.hasLower {
		s.lower = cases.Lower(language.Und)
		s.hasLower = true
	}
	l := s.lower.String(string(r))
	lr, size := utf8.DecodeRuneInString(l)
	if size != len(l) {
		return 0, false
	}
	return Lookup(lr)
}
