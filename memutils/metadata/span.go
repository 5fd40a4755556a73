package metadata

// Span is a contiguous range of units within a memory pool, [Offset, Offset+Size)
type Span struct {
	Offset int
	Size   int
}

// End returns the first offset after the span
func (s Span) End() int {
	return s.Offset + s.Size
}

