// Package registry implements the Match Registry of §4.5: the map of live
// matches keyed by opaque key, creation, lookup, reap, and the
// returnable/joinable/observable classification used by the "recent games"
// listing.
package registry

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PetterS/realtimechess/internal/match"
	"github.com/PetterS/realtimechess/internal/players"
)

// Registry owns the map of live matches. Its own lock (guarding the map
// itself) is never held at the same time as any Match's lock (§5): every
// method here either holds the map lock alone, or calls out to a Match
// method after releasing it.
type Registry struct {
	mu      sync.Mutex
	matches map[string]*match.Match

	players players.Registry
	log     *zap.Logger
}

// New creates an empty registry. players is the collaborator matches report
// results to; log may be nil.
func New(playerRegistry players.Registry, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		matches: make(map[string]*match.Match),
		players: playerRegistry,
		log:     log,
	}
}

// Create starts a new match owned by white and stores it, following
// game_storage.py's new(). Returns the stored match.
func (r *Registry) Create(white match.PlayerRef) *match.Match {
	m := match.New(white, "", r.players, r.log)
	r.mu.Lock()
	r.matches[m.Key()] = m
	r.mu.Unlock()
	return m
}

// Get looks up a match by key, following game_storage.py's get().
func (r *Registry) Get(key string) (*match.Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[key]
	return m, ok
}

// Replace swaps the stored match at key for fresh, used after
// Match.NewGame returns a new value that should replace the old one for
// the same key (§4.4's newGame operation).
func (r *Registry) Replace(key string, fresh *match.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[key] = fresh
}

// Reap deletes every match whose CreatedAt is older than match.ReapAfter,
// following the fix to §9's Open Question: expired keys are collected
// into a slice first and deleted in a second pass, so the map is never
// mutated while being ranged over.
func (r *Registry) Reap(now time.Time) {
	r.mu.Lock()
	snapshot := make(map[string]*match.Match, len(r.matches))
	for key, m := range r.matches {
		snapshot[key] = m
	}
	r.mu.Unlock()

	var expired []string
	for key, m := range snapshot {
		if now.Sub(m.CreatedAt()) > match.ReapAfter {
			expired = append(expired, key)
		}
	}

	r.mu.Lock()
	for _, key := range expired {
		if r.matches[key] == snapshot[key] {
			delete(r.matches, key)
		}
	}
	r.mu.Unlock()

	if len(expired) > 0 {
		r.log.Info("reaped expired matches", zap.Int("count", len(expired)))
	}
}

// Classification is the three-way bucket the recent-games listing uses:
// whether playerID can rejoin as a player, spectate, or neither (§4.5
// supplement, grounded on game_storage.py's commented-out html helpers and
// the spec's "recent" activity window).
type Classification struct {
	Summary    match.Summary
	Returnable bool // playerID is white or black and the match is not over
	Joinable   bool // the black seat is open and playerID is not already white
	Observable bool // any third party may always watch
}

// Recent returns a Classification for every match created within
// match.RecentWindow of now, from playerID's point of view. Only the
// creation time counts; later activity does not keep an older match listed.
func (r *Registry) Recent(now time.Time, playerID string) []Classification {
	r.mu.Lock()
	snapshot := make([]*match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		snapshot = append(snapshot, m)
	}
	r.mu.Unlock()

	var out []Classification
	for _, m := range snapshot {
		if now.Sub(m.CreatedAt()) > match.RecentWindow {
			continue
		}
		s := m.Summary()
		c := Classification{Summary: s, Observable: true}
		isWhite := s.WhiteID == playerID
		isBlack := playerID != "" && s.BlackID == playerID
		if (isWhite || isBlack) && s.Phase != match.Gameover {
			c.Returnable = true
		}
		if s.BlackID == "" && !isWhite {
			c.Joinable = true
		}
		out = append(out, c)
	}
	return out
}

// Len reports the number of live matches, for diagnostics.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}
