package match

import (
	"github.com/PetterS/realtimechess/internal/piece"
	"github.com/PetterS/realtimechess/internal/square"
)

// backRank is the piece kind for each file of the back rank, grounded on
// game_storage.py's Game.__init__ literal p0..p31 assignment.
var backRank = [8]square.Kind{
	square.Rook, square.Knight, square.Bishop, square.Queen,
	square.King, square.Bishop, square.Knight, square.Rook,
}

// initialPieces lays out the standard 32-piece starting position with the
// same index convention as the original: 0-7 white back rank, 8-15 white
// pawns, 16-23 black back rank, 24-31 black pawns.
func initialPieces() [32]*piece.Piece {
	var pieces [32]*piece.Piece
	for file := 0; file < 8; file++ {
		pieces[file] = piece.New(square.White, backRank[file], square.Square{File: file, Rank: 0})
		pieces[8+file] = piece.New(square.White, square.Pawn, square.Square{File: file, Rank: 1})
		pieces[16+file] = piece.New(square.Black, backRank[file], square.Square{File: file, Rank: 7})
		pieces[24+file] = piece.New(square.Black, square.Pawn, square.Square{File: file, Rank: 6})
	}
	return pieces
}
