package html

import (
	"unicode"

	"github.com/fwojciec/htmlmeta"
)

// TextBuilder accumulates plain text the way a browser lays it out:
// whitespace runs collapse to one character, block tags start on a new
// line and inline-spacing tags are separated by a space. Lengths and
// offsets are counted in characters.
type TextBuilder struct {
	buf []rune
}

// Len returns the number of characters written so far.
func (b *TextBuilder) Len() int {
	return len(b.buf)
}

// String returns the accumulated text.
func (b *TextBuilder) String() string {
	return string(b.buf)
}

// Separate writes the separator for a tag of the given class. It runs on
// entering and on leaving a tag.
func (b *TextBuilder) Separate(class htmlmeta.Class) {
	if len(b.buf) == 0 {
		return
	}
	last := b.buf[len(b.buf)-1]
	switch class {
	case htmlmeta.ClassBlock:
		if last == ' ' {
			b.buf[len(b.buf)-1] = '\n'
		} else if last != '\n' {
			b.buf = append(b.buf, '\n')
		}
	case htmlmeta.ClassInline:
		if last != ' ' && last != '\n' {
			b.buf = append(b.buf, ' ')
		}
	}
}

// Newline writes a literal line break.
func (b *TextBuilder) Newline() {
	b.buf = append(b.buf, '\n')
}

// Write appends s. Verbatim text is copied as is. Otherwise line breaks and
// non-breaking spaces become plain spaces and a whitespace character
// following whitespace, or starting the text, is dropped.
func (b *TextBuilder) Write(s string, verbatim bool) {
	if verbatim {
		b.buf = append(b.buf, []rune(s)...)
		return
	}
	for _, r := range s {
		switch r {
		case '\r', '\n', '\u00a0':
			r = ' '
		}
		if unicode.IsSpace(r) && (len(b.buf) == 0 || unicode.IsSpace(b.buf[len(b.buf)-1])) {
			continue
		}
		b.buf = append(b.buf, r)
	}
}
