package players

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportResultEqualRatings(t *testing.T) {
	r := NewInMemoryRegistry()
	r.Ensure("white", "White")
	r.Ensure("black", "Black")

	r.ReportResult("white", "black")

	winner, _ := r.Get("white")
	loser, _ := r.Get("black")
	assert.Equal(t, 1016, winner.Rating)
	assert.Equal(t, 984, loser.Rating)
}

func TestReportResultIdempotentOnlyIfCalledOnce(t *testing.T) {
	// reportResultsIfOver's idempotency is the Match's responsibility (a
	// resultsReported flag); the registry itself applies whatever it's
	// told to apply each time it's called.
	r := NewInMemoryRegistry()
	r.Ensure("a", "A")
	r.Ensure("b", "B")

	r.ReportResult("a", "b")
	afterOnce, _ := r.Get("a")

	r.ReportResult("a", "b")
	afterTwice, _ := r.Get("a")

	assert.NotEqual(t, afterOnce.Rating, afterTwice.Rating)
}

func TestEnsureCreatesWithDefaultRating(t *testing.T) {
	r := NewInMemoryRegistry()
	p := r.Ensure("x", "X")
	assert.Equal(t, 1000, p.Rating)

	again := r.Ensure("x", "X")
	assert.Equal(t, p, again)
}

func TestUnderdogGainsMoreOnUpset(t *testing.T) {
	r := NewInMemoryRegistry()
	r.Ensure("favorite", "Favorite")
	r.Ensure("underdog", "Underdog")
	// Manually set an uneven rating gap before reporting the upset.
	fav, _ := r.Get("favorite")
	fav.Rating = 1200
	r.players["favorite"] = fav

	r.ReportResult("underdog", "favorite")

	underdog, _ := r.Get("underdog")
	assert.Greater(t, underdog.Rating-1000, 16)
}
