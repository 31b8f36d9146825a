package token

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// PosDoc records the newline offsets of a document so that byte offsets can
// be converted to line/column pairs and back. Columns count UTF-16 code units.
type PosDoc struct {
	d []byte
	n []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

// Len is the size in bytes of the underlying document.
func (p *PosDoc) Len() int {
	return len(p.d)
}

// LineCol returns the zero based line and UTF-16 column of byte offset off.
// Offsets past the end of the document are clamped.
func (p *PosDoc) LineCol(off int) (int, int) {
	off = max(0, min(off, len(p.d)))
	line := sort.SearchInts(p.n, off)
	start := p.lineStart(line)
	return line, utf16Len(p.d[start:off])
}

// Offset is the inverse of LineCol. A column past the end of its line
// resolves to the end of that line; a line past the last one resolves to the
// end of the document.
func (p *PosDoc) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line > len(p.n) {
		return len(p.d)
	}
	i := p.lineStart(line)
	units := 0
	for i < len(p.d) && units < col {
		if p.d[i] == '\n' {
			break
		}
		r, sz := utf8.DecodeRune(p.d[i:])
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if units+w > col {
			break
		}
		units += w
		i += sz
	}
	return i
}

func (p *PosDoc) lineStart(line int) int {
	if line == 0 {
		return 0
	}
	return p.n[line-1] + 1
}

func (d *PosDoc) Pos(i int) *Pos {
	return &Pos{
		I: i,
		D: d,
	}
}

func utf16Len(d []byte) int {
	n := 0
	for len(d) > 0 {
		r, sz := utf8.DecodeRune(d)
		d = d[sz:]
		if r >= 0x10000 {
			n += 2
			continue
		}
		n++
	}
	return n
}

type Pos struct {
	I int
	D *PosDoc
}

func (p *Pos) LineCol() (int, int) {
	if p.D == nil {
		return 0, p.I
	}
	return p.D.LineCol(p.I)
}

func (p *Pos) Line() int {
	l, _ := p.LineCol()
	return l
}

func (p *Pos) Col() int {
	_, c := p.LineCol()
	return c
}

func (p Pos) String() string {
	sample := "?"
	if p.D != nil && len(p.D.d) > 0 {
		sample = string(p.D.d[max(0, min(p.I-5, len(p.D.d))):min(p.I+5, len(p.D.d))])
	}
	sample = strconv.Quote(sample)
	sample = sample[1 : len(sample)-1]
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.I, p.Line(), p.Col())
}
