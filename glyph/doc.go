// Package glyph provides the 7-segment character encoding used by the sevenseg display driver.
//
// Each Mask holds one bit per segment, bit 0 is segment A and bit 6 is segment G:
//
//	 --A--
//	|     |
//	F     B
//	|     |
//	 --G--
//	|     |
//	E     C
//	|     |
//	 --D--
//
// Memory layout example for the character '2':
//
//	Segments: G F E D C B A
//	Bits:     1 0 1 1 0 1 1
//	Mask:     0x5B
//
// This package provides:
//
// - Mask: the segment pattern of a single digit position
// - Encode: the character to Mask lookup
//
// Lookups are case-insensitive. The supported set is 0-9, A-Z, '-', '=', '_'
// and space. Letters that cannot be drawn in upper case on seven segments use
// their lower case shape (b, d, h, n, o, q, r, t, v). Any other character
// encodes to Blank rather than failing.
//
// Example usage:
//
//	m := glyph.Encode('a')
//	println(m.String()) // Output: ABCEFG
//
//	for i := 0; i < glyph.NumSegments; i++ {
//		if m.Segment(i) {
//			// drive segment i
//		}
//	}
package glyph
