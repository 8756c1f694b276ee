// Package match implements the Match component of §4.4: the owner of all
// 32 pieces of one game, the time-driven tick, conflict resolution, and the
// public operations a transport adapter calls under the match's exclusive
// lock.
package match

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PetterS/realtimechess/internal/apperr"
	"github.com/PetterS/realtimechess/internal/board"
	"github.com/PetterS/realtimechess/internal/fanout"
	"github.com/PetterS/realtimechess/internal/piece"
	"github.com/PetterS/realtimechess/internal/players"
	"github.com/PetterS/realtimechess/internal/square"
)

// Phase is the match's own lifecycle phase (distinct from a Piece's Phase).
// Values match the wire encoding of §6 (START=0, PLAY=2, GAMEOVER=3).
type Phase int

const (
	Start    Phase = 0
	Play     Phase = 2
	Gameover Phase = 3
)

// ReapAfter and RecentWindow are the durations named in §3.
const (
	ReapAfter    = 60 * time.Minute
	RecentWindow = 2 * time.Minute
)

// PlayerRef is the small, match-local view of a player identity: just
// enough to render the wire snapshot (§6 userX/userXname) without the
// match reaching into the Player Registry on every operation.
type PlayerRef struct {
	ID   string
	Name string
}

func (p PlayerRef) present() bool { return p.ID != "" }

// Match owns all state of one game. Every exported method that reads or
// changes game state acquires the match's own lock (§5) and is safe for concurrent
// use from multiple goroutines (the adapter calls them from whichever
// goroutine handled the inbound request).
type Match struct {
	mu sync.Mutex

	key       string
	createdAt time.Time

	phase  Phase
	white  PlayerRef
	black  PlayerRef
	ready  [2]bool // index 0 = white, 1 = black

	pieces [32]*piece.Piece

	seq             int
	winner          square.Color // 0 = none
	resultsReported bool

	observers *fanout.Fanout

	debugNoTime bool
	debugClock  float64

	registry players.Registry
	log      *zap.Logger

	now func() time.Time
}

// New creates a fresh START-phase match owned by white, keyed by key. If
// key is empty a fresh key is generated (§4.5).
func New(white PlayerRef, key string, registry players.Registry, log *zap.Logger) *Match {
	if key == "" {
		key = generateKey()
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Match{
		key:       key,
		createdAt: time.Now(),
		phase:     Start,
		white:     white,
		observers: fanout.New(log),
		registry:  registry,
		log:       log,
		now:       time.Now,
	}
	m.pieces = initialPieces()
	return m
}

func generateKey() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("match: failed to read random bytes for key: " + err.Error())
	}
	return hex.EncodeToString(buf[:])
}

// Key returns the match's opaque identifier.
func (m *Match) Key() string {
	return m.key
}

// CreatedAt returns the wall-clock time the match was created.
func (m *Match) CreatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createdAt
}

// SetCreatedAt overrides the match's creation timestamp; used by tests to
// back-date a match for the registry's reap/recent-window checks, since
// createdAt is set once from the real wall clock at New and is otherwise
// independent of SetClock's override of nowSeconds's time source.
func (m *Match) SetCreatedAt(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdAt = t
}

// Observers returns the match's Observer Fanout, so the adapter can
// subscribe/unsubscribe transport connections.
func (m *Match) Observers() *fanout.Fanout {
	return m.observers
}

// SetDebugNoTime toggles the debug time-collapse flag (§3, §6 setDebug).
// Enabling it seeds an internal virtual clock at the current wall time;
// disabling it falls back to reading the wall clock directly again.
func (m *Match) SetDebugNoTime(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debugNoTime = v
	if v {
		m.debugClock = float64(m.now().UnixNano()) / 1e9
	}
}

// SetClock overrides the wall-clock source; used by tests to drive time
// deterministically. Not part of the public API surface used by the
// adapter.
func (m *Match) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// debugStepSeconds is the per-call jump applied to the virtual clock while
// debugNoTime is set: large enough to dwarf any board distance (at most
// 7*sqrt(2) squares) so a piece that started moving on the previous
// operation has always already arrived by the time the next one ticks,
// collapsing the wait the way §3's "debugNoTime: boolean (collapses all
// time-based waits)" describes.
const debugStepSeconds = 1_000_000

// nowSeconds reads the clock. Each public operation calls it once for its
// tick, so every time comparison in that tick uses one value; building a
// snapshot calls it again for the wire time_stamp. Under debugNoTime every
// call advances an
// internal virtual clock instead of reading real wall time, since a fixed
// offset added to the real clock would not actually collapse waits between
// two operations issued microseconds apart in a test.
func (m *Match) nowSeconds() float64 {
	if m.debugNoTime {
		m.debugClock += debugStepSeconds
		return m.debugClock
	}
	return float64(m.now().UnixNano()) / 1e9
}

// Join attaches a second player as Black if the slot is open, following
// realtimechess.py's main_page join logic. It never errors: joining the
// same game twice as the existing player, or visiting a full game as a
// third party, are all silently accepted (the caller becomes an observer
// in the latter case). Returns the player's role in this match.
type Role int

const (
	RoleWhite Role = iota
	RoleBlack
	RoleObserver
)

func (m *Match) Join(p PlayerRef) Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case p.ID == m.white.ID:
		return RoleWhite
	case !m.black.present():
		m.black = p
		return RoleBlack
	case p.ID == m.black.ID:
		return RoleBlack
	default:
		return RoleObserver
	}
}

// Broadcast serializes the current snapshot and pushes it to every live
// observer. Exported so the adapter can force a broadcast on connect
// (mirrors realtimechess.py's opened_handler). Safe to call without
// already holding m.mu; acquires it like any other public operation.
func (m *Match) Broadcast() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcastLocked()
}

// broadcastLocked is Broadcast's body for callers that already hold m.mu
// (the engine's own mutating operations), avoiding the non-reentrant
// sync.Mutex deadlocking on itself.
func (m *Match) broadcastLocked() {
	payload, err := m.snapshotLocked()
	if err != nil {
		m.log.Error("failed to serialize snapshot for broadcast", zap.Error(err))
		return
	}
	m.observers.Broadcast(payload)
}

// boardSnapshot builds a board.Board from the live pieces, for legality
// checks. Caller must hold m.mu.
func (m *Match) boardSnapshot() *board.Board {
	return board.New(m.pieces[:])
}

// put bumps the sequence counter, following game_storage.py's Game.put:
// only PLAY and GAMEOVER snapshots are versioned. START-phase changes are
// not: randomize broadcasts an unversioned snapshot, and a ready flag set
// without the START->PLAY transition is not broadcast at all.
func (m *Match) put() {
	if m.phase == Play || m.phase == Gameover {
		m.seq++
	}
}
