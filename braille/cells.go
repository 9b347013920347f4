package braille

import "fmt"

// Cell is one of the 64 six-dot Braille patterns, stored as its codepoint in
// the Unicode Braille Patterns block (U+2800..U+283F).
type Cell rune

// Reserved cells and the fallback symbol.
const (
	// Blank is the empty cell. It stands for a space and terminates digit runs.
	Blank Cell = '\u2800'

	// CapitalSign precedes a single uppercase letter.
	CapitalSign Cell = '\u2820'

	// NumberSign precedes a run of digits.
	NumberSign Cell = '\u283c'

	// Fallback is written verbatim for characters that have no cell.
	Fallback = '?'
)

// String returns the cell as a one-rune string.
func (c Cell) String() string {
	return string(rune(c))
}

// Dots returns the raised dots of the cell, numbered 1 through 6.
func (c Cell) Dots() []int {
	var dots []int
	bits := int(c - Blank)
	for i := 0; i < 6; i++ {
		if bits&(1<<i) != 0 {
			dots = append(dots, i+1)
		}
	}
	return dots
}

// Valid reports whether c is one of the 64 six-dot patterns.
func (c Cell) Valid() bool {
	return c >= Blank && c <= '\u283f'
}

var letterCells = [26]Cell{
	'\u2801', '\u2803', '\u2809', '\u2819', '\u2811', // a b c d e
	'\u280b', '\u281b', '\u2813', '\u280a', '\u281a', // f g h i j
	'\u2805', '\u2807', '\u280d', '\u281d', '\u2815', // k l m n o
	'\u280f', '\u281f', '\u2817', '\u280e', '\u281e', // p q r s t
	'\u2825', '\u2827', '\u283a', '\u282d', '\u283d', // u v w x y
	'\u2835',                                         // z
}

// digitCells is indexed by digit value; digits reuse the cells of a-j.
var digitCells = [10]Cell{
	'\u281a', '\u2801', '\u2803', '\u2809', '\u2819', // 0 1 2 3 4
	'\u2811', '\u280b', '\u281b', '\u2813', '\u280a', // 5 6 7 8 9
}

// punctuationOrder fixes the listing order used by Table.
var punctuationOrder = []rune{
	' ', ',', '.', '!', '?', '\'', '"', '-', '–', '—',
	'+', '=', '*', '(', ')', '[', ']', '{', '}',
}

var punctuationCells = map[rune]Cell{
	' ':  Blank,
	',':  '\u2802',
	'.':  '\u2832',
	'!':  '\u2816',
	'?':  '\u2826',
	'\'': '\u2804',
	'"':  '\u2836',
	'-':  '\u2824',
	'–':  '\u2824', // en dash
	'—':  '\u2824', // em dash
	'+':  '\u2816',
	'=':  '\u2836',
	'*':  '\u2822',
	'(':  '\u2837',
	')':  '\u2838',
	'[':  '\u2828',
	']':  '\u2834',
	'{':  '\u2829',
	'}':  '\u2833',
}

// Lookup returns the cell for a lowercase letter or a punctuation mark.
// Digits are not part of this table: they are only meaningful after the
// number sign, see DigitCell.
func Lookup(r rune) (Cell, bool) {
	if r >= 'a' && r <= 'z' {
		return letterCells[r-'a'], true
	}
	c, ok := punctuationCells[r]
	return c, ok
}

// DigitCell returns the cell for an ASCII decimal digit.
func DigitCell(r rune) (Cell, bool) {
	if r < '0' || r > '9' {
		return 0, false
	}
	return digitCells[r-'0'], true
}

// Kind classifies an entry of the lookup tables.
type Kind int

// Kinds of table entries.
const (
	KindLetter Kind = iota
	KindDigit
	KindPunctuation
	KindIndicator
)

func (k Kind) String() string {
	switch k {
	case KindLetter:
		return "letter"
	case KindDigit:
		return "digit"
	case KindPunctuation:
		return "punctuation"
	case KindIndicator:
		return "indicator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Mapping is one row of the lookup tables.
type Mapping struct {
	Kind Kind
	Char rune // zero for indicators
	Name string
	Cell Cell
}

// Table returns every mapping in a stable order: letters, digits,
// punctuation, then the two indicators. The returned slice is a copy.
func Table() []Mapping {
	t := make([]Mapping, 0, len(letterCells)+len(digitCells)+len(punctuationOrder)+2)
	for i, c := range letterCells {
		r := rune('a' + i)
		t = append(t, Mapping{Kind: KindLetter, Char: r, Name: string(r), Cell: c})
	}
	for i, c := range digitCells {
		r := rune('0' + i)
		t = append(t, Mapping{Kind: KindDigit, Char: r, Name: string(r), Cell: c})
	}
	for _, r := range punctuationOrder {
		t = append(t, Mapping{Kind: KindPunctuation, Char: r, Name: punctuationName(r), Cell: punctuationCells[r]})
	}
	t = append(t,
		Mapping{Kind: KindIndicator, Name: "capital sign", Cell: CapitalSign},
		Mapping{Kind: KindIndicator, Name: "number sign", Cell: NumberSign},
	)
	return t
}

func punctuationName(r rune) string {
	switch r {
	case ' ':
		return "space"
	case '–':
		return "en dash"
	case '—':
		return "em dash"
	default:
		return string(r)
	}
}
