package utils

import (
	"github.com/dgnsrekt/brl/braille"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// WrapBraille wraps Braille text at width columns. Lines are preferably
// broken after a blank cell; words longer than width are split. A width of
// zero or less returns s unchanged.
func WrapBraille(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}

	ww := wordwrap.NewWriter(width)
	ww.Breakpoints = []rune{rune(braille.Blank)}
	ww.KeepNewlines = true
	_, _ = ww.Write([]byte(s))
	_ = ww.Close()

	return wrap.String(ww.String(), width)
}
