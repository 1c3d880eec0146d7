package ast

import "fmt"

// Position is a line/column coordinate within one source document.
// Lines are 1-based, columns are 0-based character offsets within the line.
type Position struct {
	Line   int
	Column int
}

// Lt reports whether p orders strictly before o.
func (p Position) Lt(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Le reports whether p orders before or equal to o.
func (p Position) Le(o Position) bool {
	return p == o || p.Lt(o)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a span between two positions in one document.
// Both endpoints are meaningful for containment checks: a cursor sits in the
// gap between two characters, so it matches a range that starts or ends
// exactly at the cursor.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether the cursor position lies inside the range,
// inclusive at both ends.
func (r Range) Contains(cursor Position) bool {
	return r.Start.Le(cursor) && cursor.Le(r.End)
}

// Source identifies the document a span belongs to. Sources compare by value;
// two spans belong to the same document exactly when their sources are equal.
type Source struct {
	FileName string
}

// SrcPos is a span within a specific source document. It is comparable and
// usable as a map key; equality is how reference back-pointers are matched
// against declaration sites.
type SrcPos struct {
	Source Source
	Range  Range
}

func (p SrcPos) String() string {
	return fmt.Sprintf("%s:%s", p.Source.FileName, p.Range.Start)
}

// Ident is a declared name together with the span of its occurrence.
type Ident struct {
	Name string
	Pos  SrcPos
}

// WithPos attaches a span to an arbitrary item.
type WithPos[T any] struct {
	Item T
	Pos  SrcPos
}

// WithRef attaches an optional resolved-reference back-pointer to an item.
// The reference, when present, is the span of the declaration the item
// denotes. Resolution happens upstream; nil means unresolved.
type WithRef[T any] struct {
	Item      T
	Reference *SrcPos
}
