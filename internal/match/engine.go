package match

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/PetterS/realtimechess/internal/apperr"
	"github.com/PetterS/realtimechess/internal/piece"
	"github.com/PetterS/realtimechess/internal/square"
)

// tick advances every time-driven transition of §4.4 against now. Caller
// must hold m.mu. It is applied implicitly at the top of every public
// operation, including Snapshot, so any caller observes current state.
func (m *Match) tick(now float64) {
	// Indexed rather than range-over-value: resolving one piece's arrival
	// can capture -- and nil out -- another slot later in this same array,
	// so every iteration must re-read m.pieces[i] fresh instead of trusting
	// a snapshot taken at the start of the range.
	for i := 0; i < len(m.pieces); i++ {
		p := m.pieces[i]
		if p == nil || p.Phase != piece.Moving {
			continue
		}
		if now >= p.EndTime {
			m.resolveArrival(i, now)
		}
	}

	// Run the transition pass twice so a piece can flow
	// Moving -> Sleeping -> Static within a single tick when debugNoTime
	// has advanced the clock by years (§4.3, §4.4).
	for pass := 0; pass < 2; pass++ {
		for _, p := range m.pieces {
			if p == nil {
				continue
			}
			p.Advance(now)
		}
	}

	if m.phase != Gameover {
		whiteKing, blackKing := false, false
		for _, p := range m.pieces {
			if p == nil || p.Kind != square.King {
				continue
			}
			if p.Color == square.White {
				whiteKing = true
			} else {
				blackKing = true
			}
		}
		if !whiteKing {
			m.phase = Gameover
			m.winner = square.Black
		} else if !blackKing {
			m.phase = Gameover
			m.winner = square.White
		}
	}
}

// resolveArrival is called for a piece whose arrival time has passed but
// whose Moving -> Sleeping transition has not yet been applied this tick.
// It scans all other live pieces for one standing on piece i's
// destination and resolves the collision per §4.4.
func (m *Match) resolveArrival(i int, now float64) {
	p := m.pieces[i]
	captured := false
	for j, other := range m.pieces {
		if j == i || other == nil {
			continue
		}
		if other.Position != p.Position {
			continue
		}

		if other.Color == p.Color {
			m.log.Error("invariant violation: same-color pieces share a square",
				zap.String("match", m.key),
				zap.Int("piece", i), zap.Int("other", j),
				zap.String("square", p.Position.String()))
			continue
		}

		if captured {
			continue
		}

		if other.Phase != piece.Moving {
			// The other piece is standing still: it is captured.
			m.capture(j)
			captured = true
		} else if other.EndTime <= now {
			// Both pieces have arrived: the later arrival (larger EndTime)
			// wins the square and the earlier one is captured, the same
			// outcome as a later arrival landing on a piece already
			// standing there. On an exact tie, the piece being resolved (i)
			// wins and the other is captured (§9 Open Question, frozen as
			// instructed).
			captured = true
			if p.EndTime < other.EndTime {
				m.capture(i)
			} else {
				m.capture(j)
			}
		}
	}
}

func (m *Match) capture(i int) {
	p := m.pieces[i]
	if p == nil {
		return
	}
	m.log.Info("piece captured",
		zap.String("match", m.key),
		zap.String("piece", p.String()),
		zap.String("square", p.Position.String()))
	m.pieces[i] = nil
}

// Move implements §4.4's move operation. The bool result is false (with a
// nil error) when the requested move is geometrically illegal --
// the Ignored kind of §7, which is not surfaced as an error so clients can
// click freely.
func (m *Match) Move(playerID string, from, to square.Square) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowSeconds()
	m.tick(now)

	if m.phase != Play {
		return false, apperr.New(apperr.ForbiddenState, "match %s is not in PLAY", m.key)
	}

	var color square.Color
	switch playerID {
	case m.white.ID:
		color = square.White
	case m.black.ID:
		color = square.Black
	default:
		return false, apperr.New(apperr.ForbiddenActor, "player %s is not part of match %s", playerID, m.key)
	}

	if !from.Valid() || !to.Valid() {
		return false, apperr.New(apperr.BadRequest, "invalid square in move request")
	}

	b := m.boardSnapshot()
	if !b.HasPiece(from) {
		return false, apperr.New(apperr.NotFound, "no piece at %s", from)
	}

	occupant := b.PieceAt(from)
	if occupant.Color != color {
		return false, apperr.New(apperr.ForbiddenActor, "piece at %s does not belong to player", from)
	}

	if !b.ValidMove(from, to) {
		return false, nil // Ignored: handled as a no-op success, not an error.
	}

	for _, p := range m.pieces {
		if p != nil && p.Phase != piece.Moving && p.Position == from {
			p.Move(to, now)
			break
		}
	}

	m.put()
	m.broadcastLocked()
	return true, nil
}

// SetReady implements §4.4's setReady operation.
func (m *Match) SetReady(playerID string, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowSeconds()
	m.tick(now)

	switch playerID {
	case m.white.ID:
		m.ready[0] = ready
	case m.black.ID:
		if !m.black.present() {
			return apperr.New(apperr.ForbiddenActor, "no black player has joined match %s", m.key)
		}
		m.ready[1] = ready
	default:
		return apperr.New(apperr.ForbiddenActor, "player %s is not part of match %s", playerID, m.key)
	}

	if m.ready[0] && m.ready[1] && m.phase == Start {
		m.phase = Play
		m.put()
		m.broadcastLocked()
	}
	return nil
}

// Randomize implements §4.4's randomize operation: a lockstep Fisher-Yates
// shuffle of the back-rank pieces (indices 0..7 and 16..23), following
// game_storage.py's GameUpdater.randomize exactly (random.randint(i, 7) ==
// i + rand.IntN(8-i)).
func (m *Match) Randomize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowSeconds()
	m.tick(now)

	if m.phase != Start {
		return apperr.New(apperr.ForbiddenState, "match %s is not in START", m.key)
	}

	for i := 0; i < 8; i++ {
		j := i + rand.IntN(8-i)
		if i == j {
			continue
		}
		m.pieces[i].Position, m.pieces[j].Position = m.pieces[j].Position, m.pieces[i].Position
		m.pieces[16+i].Position, m.pieces[16+j].Position = m.pieces[16+j].Position, m.pieces[16+i].Position
	}

	m.put()
	m.broadcastLocked()
	return nil
}

// NewGame implements §4.4's newGame operation: permitted only in GAMEOVER,
// it returns a fresh Match at the same key, preserving both player
// identities and the observer set.
func (m *Match) NewGame(initiator string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowSeconds()
	m.tick(now)

	if m.phase != Gameover {
		return nil, apperr.New(apperr.ForbiddenState, "match %s is not GAMEOVER", m.key)
	}
	if initiator != m.white.ID && initiator != m.black.ID {
		return nil, apperr.New(apperr.ForbiddenActor, "player %s is not part of match %s", initiator, m.key)
	}

	fresh := &Match{
		key:         m.key,
		createdAt:   m.now(),
		phase:       Start,
		white:       m.white,
		black:       m.black,
		observers:   m.observers,
		registry:    m.registry,
		log:         m.log,
		now:         m.now,
		debugNoTime: m.debugNoTime,
		debugClock:  m.debugClock,
	}
	fresh.pieces = initialPieces()
	return fresh, nil
}

// Ping is the per-match client->server heartbeat of §6: besides letting a
// client detect a dropped connection (the teacher's Player.Alive()
// ping/pong exchange), it ticks the match forward and, as a side effect,
// gives a finished match the chance to report its result exactly once
// (§8 scenario 3: rating adjustment happens "after ping is called once").
func (m *Match) Ping() {
	m.mu.Lock()
	now := m.nowSeconds()
	m.tick(now)
	m.mu.Unlock()
	m.ReportResultsIfOver()
}

// ReportResultsIfOver implements §4.4's reportResultsIfOver: once the match
// is GAMEOVER, report the result to the Player Registry exactly once.
func (m *Match) ReportResultsIfOver() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowSeconds()
	m.tick(now)

	if m.phase != Gameover || m.resultsReported {
		return
	}
	if m.registry == nil {
		return
	}

	winner, loser := m.white, m.black
	if m.winner == square.Black {
		winner, loser = m.black, m.white
	}
	m.registry.ReportResult(winner.ID, loser.ID)
	m.resultsReported = true
}
