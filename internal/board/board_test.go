package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PetterS/realtimechess/internal/piece"
	"github.com/PetterS/realtimechess/internal/square"
)

func at(color square.Color, kind square.Kind, pos string) *piece.Piece {
	return piece.New(color, kind, square.Parse(pos))
}

func TestPawnSingleAndDoubleStep(t *testing.T) {
	p := at(square.White, square.Pawn, "E2")
	b := New([]*piece.Piece{p})
	assert.True(t, b.ValidMove(square.Parse("E2"), square.Parse("E3")))
	assert.True(t, b.ValidMove(square.Parse("E2"), square.Parse("E4")))
	assert.False(t, b.ValidMove(square.Parse("E2"), square.Parse("E5")))
}

func TestPawnDoubleStepBlockedByIntermediate(t *testing.T) {
	p := at(square.White, square.Pawn, "E2")
	blocker := at(square.Black, square.Pawn, "E3")
	b := New([]*piece.Piece{p, blocker})
	assert.False(t, b.ValidMove(square.Parse("E2"), square.Parse("E4")))
}

func TestPawnDoubleStepOnlyFromHomeRank(t *testing.T) {
	p := at(square.White, square.Pawn, "E3")
	b := New([]*piece.Piece{p})
	assert.False(t, b.ValidMove(square.Parse("E3"), square.Parse("E5")))
}

func TestPawnDiagonalCaptureRequiresStandingOpponent(t *testing.T) {
	p := at(square.White, square.Pawn, "E4")
	victim := at(square.Black, square.Pawn, "D5")
	b := New([]*piece.Piece{p, victim})
	assert.True(t, b.ValidMove(square.Parse("E4"), square.Parse("D5")))

	victim2 := at(square.Black, square.Pawn, "D5")
	victim2.Phase = piece.Moving
	b2 := New([]*piece.Piece{p, victim2})
	assert.False(t, b2.ValidMove(square.Parse("E4"), square.Parse("D5")))
}

func TestPawnCannotCaptureStraightAhead(t *testing.T) {
	p := at(square.White, square.Pawn, "E4")
	victim := at(square.Black, square.Pawn, "E5")
	b := New([]*piece.Piece{p, victim})
	assert.False(t, b.ValidMove(square.Parse("E4"), square.Parse("E5")))
}

func TestRookBlockedByStaticPieceButNotByMoving(t *testing.T) {
	r := at(square.White, square.Rook, "A1")
	staticBlocker := at(square.White, square.Pawn, "A3")
	b := New([]*piece.Piece{r, staticBlocker})
	assert.False(t, b.ValidMove(square.Parse("A1"), square.Parse("A5")))

	movingBlocker := at(square.Black, square.Pawn, "A3")
	movingBlocker.Phase = piece.Moving
	b2 := New([]*piece.Piece{r, movingBlocker})
	assert.True(t, b2.ValidMove(square.Parse("A1"), square.Parse("A5")))
}

func TestRookCannotCaptureOwnColor(t *testing.T) {
	r := at(square.White, square.Rook, "A1")
	own := at(square.White, square.Pawn, "A5")
	b := New([]*piece.Piece{r, own})
	assert.False(t, b.ValidMove(square.Parse("A1"), square.Parse("A5")))
}

func TestBishopDiagonal(t *testing.T) {
	b := New([]*piece.Piece{at(square.White, square.Bishop, "C1")})
	assert.True(t, b.ValidMove(square.Parse("C1"), square.Parse("A3")))
	assert.False(t, b.ValidMove(square.Parse("C1"), square.Parse("A4")))
}

func TestQueenStraightAndDiagonal(t *testing.T) {
	b := New([]*piece.Piece{at(square.White, square.Queen, "D1")})
	assert.True(t, b.ValidMove(square.Parse("D1"), square.Parse("D8")))
	assert.True(t, b.ValidMove(square.Parse("D1"), square.Parse("H5")))
	assert.False(t, b.ValidMove(square.Parse("D1"), square.Parse("G5")))
}

func TestKingOneStep(t *testing.T) {
	b := New([]*piece.Piece{at(square.White, square.King, "E1")})
	assert.True(t, b.ValidMove(square.Parse("E1"), square.Parse("F2")))
	assert.False(t, b.ValidMove(square.Parse("E1"), square.Parse("E3")))
}

func TestKnightLShape(t *testing.T) {
	b := New([]*piece.Piece{at(square.White, square.Knight, "B1")})
	assert.True(t, b.ValidMove(square.Parse("B1"), square.Parse("C3")))
	assert.True(t, b.ValidMove(square.Parse("B1"), square.Parse("A3")))
	assert.False(t, b.ValidMove(square.Parse("B1"), square.Parse("B3")))
}

func TestSameColorCannotTargetSquareAlreadyIncoming(t *testing.T) {
	mover := at(square.White, square.Queen, "A1")
	incoming := at(square.White, square.Queen, "H8")
	incoming.Phase = piece.Moving
	incoming.Position = square.Parse("D4")
	b := New([]*piece.Piece{mover, incoming})
	assert.False(t, b.ValidMove(square.Parse("A1"), square.Parse("D4")))
}

func TestSleepingPieceCannotMove(t *testing.T) {
	p := at(square.White, square.Pawn, "E2")
	p.Phase = piece.Sleeping
	b := New([]*piece.Piece{p})
	assert.False(t, b.ValidMove(square.Parse("E2"), square.Parse("E3")))
}

func TestFromEqualsToIsInvalid(t *testing.T) {
	b := New([]*piece.Piece{at(square.White, square.Rook, "A1")})
	assert.False(t, b.ValidMove(square.Parse("A1"), square.Parse("A1")))
}

func TestInvalidSquaresRejected(t *testing.T) {
	b := New(nil)
	assert.False(t, b.ValidMove(square.Invalid, square.Parse("A1")))
	assert.False(t, b.ValidMove(square.Parse("A1"), square.Invalid))
}

func TestCapturedPiecesAreSkipped(t *testing.T) {
	r := at(square.White, square.Rook, "A1")
	b := New([]*piece.Piece{r, nil})
	assert.True(t, b.ValidMove(square.Parse("A1"), square.Parse("A8")))
}
