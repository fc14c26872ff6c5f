// Package glyph provides the 7-segment character encoding used by the sevenseg display driver.
//
// Bit 0 of a Mask is segment A, bit 6 is segment G.
// This package provides the Mask type and the Encode lookup.
package glyph

// NumSegments is the number of segments in a digit, excluding the decimal point.
const NumSegments = 7

// Mask is the segment pattern of one digit position.
// Only the lower 7 bits are used.
type Mask uint8

// Blank is the mask with every segment off.
const Blank Mask = 0

// Segment reports whether segment i (0 = A ... 6 = G) is lit.
func (m Mask) Segment(i int) bool {
	if i < 0 || i >= NumSegments {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// String returns the lit segment letters in order, e.g. "ABDEG" for '2'.
func (m Mask) String() string {
	var b []byte
	for i := 0; i < NumSegments; i++ {
		if m.Segment(i) {
			b = append(b, 'A'+byte(i))
		}
	}
	return string(b)
}

// table maps an upper-cased ASCII character to its segment pattern.
// Zero entries are either blank or unsupported.
var table = [128]Mask{
	'0': 0b0111111,
	'1': 0b0000110,
	'2': 0b1011011,
	'3': 0b1001111,
	'4': 0b1100110,
	'5': 0b1101101,
	'6': 0b1111101,
	'7': 0b0000111,
	'8': 0b1111111,
	'9': 0b1101111,
	'A': 0b1110111,
	'B': 0b1111100, // b
	'C': 0b0111001,
	'D': 0b1011110, // d
	'E': 0b1111001,
	'F': 0b1110001,
	'G': 0b0111101,
	'H': 0b1110100, // h
	'I': 0b0110000,
	'J': 0b0011110,
	'K': 0b1110101,
	'L': 0b0111000,
	'M': 0b1010101,
	'N': 0b1010100, // n
	'O': 0b1011100, // o
	'P': 0b1110011,
	'Q': 0b1100111, // q
	'R': 0b1010000, // r
	'S': 0b0101101,
	'T': 0b1111000, // t
	'U': 0b0111110,
	'V': 0b0011100, // v
	'W': 0b1101010,
	'X': 0b1110110,
	'Y': 0b1101110,
	'Z': 0b0011011,
	'-': 0b1000000,
	'=': 0b1001000,
	'_': 0b0001000,
}

// upper folds ASCII lower case letters to upper case.
func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Encode returns the segment pattern for c.
// Unsupported characters encode to Blank.
func Encode(c byte) Mask {
	c = upper(c)
	if c >= byte(len(table)) {
		return Blank
	}
	return table[c]
}

// Supported reports whether c has a glyph. Space is supported and encodes to Blank.
func Supported(c byte) bool {
	return c == ' ' || Encode(c) != Blank
}
