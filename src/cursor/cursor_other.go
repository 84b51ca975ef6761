//go:build !linux && !windows

package cursor

// Source is a placeholder on platforms without a glyph reader.
type Source struct{}

// NewGlyphSource always fails with ErrUnsupported.
func NewGlyphSource() (*Source, error) { return nil, ErrUnsupported }

// Current never returns a glyph.
func (s *Source) Current() (Glyph, bool) { return Glyph{}, false }

// Close is a no-op.
func (s *Source) Close() error { return nil }
