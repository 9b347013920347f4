package braille

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("braille: write to closed writer")

// Writer is a streaming encoder. Text written to it is transliterated and
// forwarded to the underlying writer; once closed, the forwarded bytes equal
// Encode of everything that was written, however the input was split.
//
// An error from the underlying writer is sticky: later calls return it and
// nothing more is forwarded.
type Writer struct {
	norm io.WriteCloser // nil unless normalization is configured
	enc  *encodeWriter
}

// NewWriter returns a Writer that writes Braille to w. Close must be called
// to terminate a trailing digit run.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	bw := &Writer{enc: &encodeWriter{w: w}}
	if o.normalize {
		bw.norm = o.form.Writer(bw.enc)
	}
	return bw
}

// Write transliterates p. Incomplete UTF-8 sequences at the end of p are held
// until the next call.
func (w *Writer) Write(p []byte) (int, error) {
	if w.enc.closed {
		return 0, ErrClosed
	}
	if w.norm != nil {
		return w.norm.Write(p)
	}
	return w.enc.Write(p)
}

// Close flushes pending input, terminates an open digit run and drops any
// trailing newlines. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.enc.closed {
		return nil
	}
	if w.norm != nil {
		if err := w.norm.Close(); err != nil {
			return err
		}
	}
	return w.enc.Close()
}

// Stats reports what has been encoded so far.
func (w *Writer) Stats() Stats {
	return w.enc.sc.stats
}

type encodeWriter struct {
	w       io.Writer
	sc      scanner
	partial []byte
	out     bytes.Buffer

	// Output trimming: newlines before the first cell are dropped and
	// newlines after the last cell are held back.
	started bool
	pending int

	err    error
	closed bool
}

func (e *encodeWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	data := p
	if len(e.partial) > 0 {
		data = append(e.partial, p...)
		e.partial = nil
	}

	for len(data) > 0 {
		if !utf8.FullRune(data) {
			e.partial = append([]byte(nil), data...)
			break
		}
		r, size := utf8.DecodeRune(data)
		e.sc.scan(e, r)
		data = data[size:]
	}

	// p has been scanned either way; retrying it would encode it twice.
	if err := e.drain(); err != nil {
		return len(p), err
	}
	return len(p), nil
}

func (e *encodeWriter) Close() error {
	e.closed = true
	if e.err != nil {
		return e.err
	}
	for len(e.partial) > 0 {
		r, size := utf8.DecodeRune(e.partial)
		e.sc.scan(e, r)
		e.partial = e.partial[size:]
	}
	e.sc.flush(e)
	e.pending = 0
	return e.drain()
}

// WriteRune receives the scanner output and applies trimming.
func (e *encodeWriter) WriteRune(r rune) (int, error) {
	if r == '\n' {
		if e.started {
			e.pending++
		}
		return 1, nil
	}
	for ; e.pending > 0; e.pending-- {
		e.out.WriteByte('\n')
	}
	e.started = true
	return e.out.WriteRune(r)
}

func (e *encodeWriter) drain() error {
	if e.out.Len() == 0 {
		return nil
	}
	if _, err := e.w.Write(e.out.Bytes()); err != nil {
		e.err = err
		return err
	}
	e.out.Reset()
	return nil
}
