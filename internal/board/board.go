// Package board implements the pure legality oracle of §4.2: given a set of
// 32 piece tokens it answers whether a candidate move is legal, with no
// knowledge of whose turn it is (there is no turn) and no side effects.
package board

import (
	"github.com/PetterS/realtimechess/internal/piece"
	"github.com/PetterS/realtimechess/internal/square"
)

// Board is a derived, read-only snapshot computed from the current pieces
// of a match (§3 "Board snapshot"). It is constructed fresh for every
// legality check; it never outlives the pieces slice it was built from.
type Board struct {
	occupant [8][8]*piece.Piece // STATIC/SLEEPING occupant, or nil
	incoming [3][8][8]bool      // incoming[color][file][rank], color indexed 1/2
}

// New builds a Board from a list of piece pointers. A nil entry in pieces
// represents a captured piece and is skipped.
func New(pieces []*piece.Piece) *Board {
	b := &Board{}
	for _, p := range pieces {
		if p == nil {
			continue
		}
		switch p.Phase {
		case piece.Moving:
			b.incoming[p.Color][p.Position.File][p.Position.Rank] = true
		default: // Static or Sleeping
			b.occupant[p.Position.File][p.Position.Rank] = p
		}
	}
	return b
}

// ValidPosition is the accepted-name predicate of §4.2.
func ValidPosition(s square.Square) bool {
	return s.Valid()
}

// HasPiece reports whether a STATIC/SLEEPING occupant is present at s.
func (b *Board) HasPiece(s square.Square) bool {
	return b.occupant[s.File][s.Rank] != nil
}

// PieceAt returns the STATIC/SLEEPING occupant at s, or nil.
func (b *Board) PieceAt(s square.Square) *piece.Piece {
	return b.occupant[s.File][s.Rank]
}

// Incoming reports whether any MOVING piece of color targets s.
func (b *Board) Incoming(color square.Color, s square.Square) bool {
	return b.incoming[color][s.File][s.Rank]
}

func (b *Board) empty(s square.Square) bool {
	return b.occupant[s.File][s.Rank] == nil
}

// opposingStanding reports whether s holds a STATIC/SLEEPING piece of the
// opposing color (an enemy standing still, capturable by a pawn).
func (b *Board) opposingStanding(s square.Square, own square.Color) bool {
	occ := b.occupant[s.File][s.Rank]
	return occ != nil && occ.Color != own
}

// emptyOrOpposing treats a square with a MOVING piece as empty (the capture
// on arrival is resolved later by Match, not here -- §4.2's clear-path
// semantics and §9's open-question resolution).
func (b *Board) emptyOrOpposing(s square.Square, own square.Color) bool {
	occ := b.occupant[s.File][s.Rank]
	return occ == nil || occ.Color != own
}

// emptyOrMoving reports that a square has no STATIC/SLEEPING blocker -- it
// may be empty or have pieces (of either color) in transit through it.
func (b *Board) emptyOrMoving(s square.Square) bool {
	return b.occupant[s.File][s.Rank] == nil
}

// clearPath walks the squares strictly between from and to (exclusive on
// both ends) and reports whether every one of them is free of a
// STATIC/SLEEPING blocker.
func (b *Board) clearPath(from, to square.Square) bool {
	df := sign(to.File - from.File)
	dr := sign(to.Rank - from.Rank)

	f, r := from.File, from.Rank
	for {
		f += df
		r += dr
		if f == to.File && r == to.Rank {
			return true
		}
		if !b.emptyOrMoving(square.Square{File: f, Rank: r}) {
			return false
		}
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ValidMove implements the legality predicate of §4.2.
func (b *Board) ValidMove(from, to square.Square) bool {
	if from == to || !from.Valid() || !to.Valid() {
		return false
	}

	p := b.occupant[from.File][from.Rank]
	if p == nil || p.Phase == piece.Sleeping {
		return false
	}
	// Moving pieces are never in b.occupant, so p here is always Static.

	if b.incoming[p.Color][to.File][to.Rank] {
		return false
	}

	switch p.Kind {
	case square.Pawn:
		return b.validPawnMove(p, from, to)
	case square.Rook:
		sameFile, sameRank := from.File == to.File, from.Rank == to.Rank
		return (sameFile != sameRank) &&
			b.clearPath(from, to) && b.emptyOrOpposing(to, p.Color)
	case square.Bishop:
		return abs(from.File-to.File) == abs(from.Rank-to.Rank) &&
			b.clearPath(from, to) && b.emptyOrOpposing(to, p.Color)
	case square.Queen:
		straight := from.File == to.File || from.Rank == to.Rank
		diagonal := abs(from.File-to.File) == abs(from.Rank-to.Rank)
		return (straight || diagonal) &&
			b.clearPath(from, to) && b.emptyOrOpposing(to, p.Color)
	case square.King:
		return max(abs(from.File-to.File), abs(from.Rank-to.Rank)) == 1 &&
			b.emptyOrOpposing(to, p.Color)
	case square.Knight:
		df, dr := abs(from.File-to.File), abs(from.Rank-to.Rank)
		return ((df == 1 && dr == 2) || (df == 2 && dr == 1)) &&
			b.emptyOrOpposing(to, p.Color)
	default:
		return false
	}
}

func (b *Board) validPawnMove(p *piece.Piece, from, to square.Square) bool {
	dir := 1
	homeRank, doubleRank := 1, 3
	if p.Color == square.Black {
		dir = -1
		homeRank, doubleRank = 6, 4
	}

	if from.File == to.File && to.Rank-from.Rank == dir && b.empty(to) {
		return true
	}

	if from.File == to.File && from.Rank == homeRank && to.Rank == doubleRank {
		mid := square.Square{File: from.File, Rank: from.Rank + dir}
		if b.empty(mid) && b.empty(to) {
			return true
		}
	}

	if abs(from.File-to.File) == 1 && to.Rank-from.Rank == dir &&
		b.opposingStanding(to, p.Color) {
		return true
	}

	return false
}
