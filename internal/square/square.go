// Package square implements the coordinate system shared by the board and
// piece codecs: parsing and formatting of square names, colors, and piece
// kinds.
package square

import (
	"fmt"
	"math"
)

// Square is a board coordinate, File and Rank both in 0..7. The zero value
// is A1, which Valid reports as valid; only the Invalid sentinel (what
// Parse returns for a malformed name) fails Valid.
type Square struct {
	File int
	Rank int
}

// Invalid is the sentinel returned by Parse for malformed names.
var Invalid = Square{File: -1, Rank: -1}

// Valid reports whether s is within the 8x8 board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// Parse converts an external square name ("A1".."H8") into a Square. Only
// exactly two characters are accepted: a letter A-H (case sensitive, as on
// the wire) and a digit 1-8. Anything else yields Invalid.
func Parse(name string) Square {
	if len(name) != 2 {
		return Invalid
	}
	file := int(name[0] - 'A')
	rank := int(name[1] - '1')
	if file < 0 || file >= 8 || rank < 0 || rank >= 8 {
		return Invalid
	}
	return Square{File: file, Rank: rank}
}

// String renders a Square back into its external name, e.g. "E4". Calling
// String on an invalid Square is a programmer error and panics.
func (s Square) String() string {
	if !s.Valid() {
		panic(fmt.Sprintf("square: String() of invalid square %+v", s))
	}
	return string(rune('A'+s.File)) + string(rune('1'+s.Rank))
}

// Distance is the Euclidean distance between two squares, used to turn a
// move into a travel duration (§4.3).
func Distance(from, to Square) float64 {
	df := float64(from.File - to.File)
	dr := float64(from.Rank - to.Rank)
	return math.Sqrt(df*df + dr*dr)
}
