// Package players implements the Player identity and the Player Registry
// collaborator the match engine reports results to (§4.4
// reportResultsIfOver, §6 Rating). Account persistence, logins, and
// leaderboards proper are out of scope (§1); this package provides only the
// narrow interface the engine depends on, plus a reference in-memory
// implementation with real Elo arithmetic so the system is testable
// end-to-end.
package players

import (
	"math"
	"sync"
)

// Player is a stable identity the match engine treats as an opaque
// reference, carrying only what the engine's wire snapshot needs (§6:
// userX/userXname).
type Player struct {
	ID     string
	Name   string
	Rating int
}

// Registry is the interface the match engine calls into. A concrete
// implementation is an external collaborator (§1); the engine never reaches
// into its storage.
type Registry interface {
	// Get returns the current Player for id, if known.
	Get(id string) (Player, bool)
	// ReportResult adjusts ratings for a finished game: winner beat loser.
	// K=32 Elo, winner scoring 1.0 (§6).
	ReportResult(winnerID, loserID string)
}

const eloK = 32.0

// InMemoryRegistry is the reference Registry used by the standalone server
// binary and by tests. Real deployments would swap this for a persistent
// implementation without the match engine noticing, since it only depends
// on the Registry interface above.
type InMemoryRegistry struct {
	mu      sync.Mutex
	players map[string]Player
}

// NewInMemoryRegistry returns an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{players: make(map[string]Player)}
}

// Ensure returns the Player for id, creating one with the given display
// name and the default starting rating of 1000 if this is the first time
// id has been seen.
func (r *InMemoryRegistry) Ensure(id, name string) Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[id]; ok {
		return p
	}
	p := Player{ID: id, Name: name, Rating: 1000}
	r.players[id] = p
	return p
}

// Get implements Registry.
func (r *InMemoryRegistry) Get(id string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	return p, ok
}

// ReportResult implements Registry, applying the Elo update from
// auth.py's change_ratings: diff = loser - winner, expected score via the
// logistic curve, delta rounded to the nearest integer.
func (r *InMemoryRegistry) ReportResult(winnerID, loserID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	winner, ok := r.players[winnerID]
	if !ok {
		winner = Player{ID: winnerID, Rating: 1000}
	}
	loser, ok := r.players[loserID]
	if !ok {
		loser = Player{ID: loserID, Rating: 1000}
	}

	delta := eloDelta(winner.Rating, loser.Rating)
	winner.Rating += delta
	loser.Rating -= delta

	r.players[winnerID] = winner
	r.players[loserID] = loser
}

func eloDelta(winnerRating, loserRating int) int {
	diff := float64(loserRating - winnerRating)
	expectedWin := 1.0 / (1.0 + math.Pow(10, diff/400.0))
	return int(math.Round(eloK * (1.0 - expectedWin)))
}
