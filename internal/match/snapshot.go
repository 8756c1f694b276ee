package match

import (
	"encoding/json"
	"fmt"

	"github.com/PetterS/realtimechess/internal/square"
)

// snapshot is the wire representation of §6: a flat JSON object with
// p0..p31 piece tokens, named to match realtimechess.py's get_state
// response field-for-field.
type snapshot struct {
	Key         string  `json:"key"`
	UserX       string  `json:"userX"`
	UserXName   string  `json:"userXname"`
	UserXReady  bool    `json:"userXReady"`
	UserO       string  `json:"userO"`
	UserOName   string  `json:"userOname"`
	UserOReady  bool    `json:"userOReady"`
	Seq         int     `json:"seq"`
	State       int     `json:"state"`
	TimeStamp   float64 `json:"time_stamp"`
	Winner      *string `json:"winner,omitempty"`
	Pieces      [32]string
}

// MarshalJSON flattens Pieces into top-level p0..p31 keys, since Go's
// encoding/json has no direct way to splice a fixed-size array of fields
// into its parent object.
func (s snapshot) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 11+len(s.Pieces))
	m["key"] = s.Key
	m["userX"] = s.UserX
	m["userXname"] = s.UserXName
	m["userXReady"] = s.UserXReady
	m["userO"] = s.UserO
	m["userOname"] = s.UserOName
	m["userOReady"] = s.UserOReady
	m["seq"] = s.Seq
	m["state"] = s.State
	m["time_stamp"] = s.TimeStamp
	if s.Winner != nil {
		m["winner"] = *s.Winner
	}
	for i, tok := range s.Pieces {
		m[fmt.Sprintf("p%d", i)] = tok
	}
	return json.Marshal(m)
}

// SnapshotJSON is the getState operation of §6: it ticks the match forward
// and serializes its current state. Safe to call concurrently; acquires
// the match's own lock.
func (m *Match) SnapshotJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick(m.nowSeconds())
	return m.snapshotLocked()
}

// snapshotLocked builds the wire JSON without ticking or locking; callers
// that already hold m.mu and have already ticked (Broadcast, the engine
// operations) use this directly to avoid a redundant tick.
func (m *Match) snapshotLocked() ([]byte, error) {
	s := snapshot{
		Key:        m.key,
		UserX:      m.white.ID,
		UserXName:  m.white.Name,
		UserXReady: m.ready[0],
		UserO:      m.black.ID,
		UserOName:  m.black.Name,
		UserOReady: m.ready[1],
		Seq:        m.seq,
		State:      int(m.phase),
		TimeStamp:  m.nowSeconds(),
	}
	if m.phase == Gameover && m.winner != 0 {
		w := m.winner.String()
		s.Winner = &w
	}
	for i, p := range m.pieces {
		if p == nil {
			s.Pieces[i] = ""
			continue
		}
		s.Pieces[i] = p.Encode()
	}
	return json.Marshal(s)
}

// Summary is a read-only projection of match state for the registry's
// listing endpoints (§4.4's Summary()), avoiding a second JSON encode/decode
// round trip just to answer "who is playing and what phase is this in".
type Summary struct {
	Key         string
	WhiteID     string
	WhiteName   string
	BlackID     string
	BlackName   string
	Phase       Phase
	Winner      square.Color
	ObserverCnt int
}

func (m *Match) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick(m.nowSeconds())
	return Summary{
		Key:         m.key,
		WhiteID:     m.white.ID,
		WhiteName:   m.white.Name,
		BlackID:     m.black.ID,
		BlackName:   m.black.Name,
		Phase:       m.phase,
		Winner:      m.winner,
		ObserverCnt: m.observers.Count(),
	}
}
