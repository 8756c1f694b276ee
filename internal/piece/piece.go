// Package piece implements a single piece's phase state machine (§4.3) and
// its wire token codec (§4.1, grammar in §6).
package piece

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PetterS/realtimechess/internal/square"
)

// Phase is one of the three states a live piece can be in.
type Phase int

const (
	Static Phase = iota
	Moving
	Sleeping
)

func (p Phase) String() string {
	switch p {
	case Static:
		return "static"
	case Moving:
		return "moving"
	case Sleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// Time constants from §6.
const (
	SquaresPerSecond = 1.0
	SleepSeconds     = 3.0
)

// Piece is the mutable per-piece state held by a Match. Captured pieces are
// represented by Match as a nil/absent entry, not by a field on Piece.
type Piece struct {
	Color square.Color
	Kind  square.Kind

	Phase    Phase
	Position square.Square // destination while Moving, current square otherwise
	EndTime  float64       // wall-clock seconds; meaningless while Static
}

// New creates a piece standing still on pos.
func New(color square.Color, kind square.Kind, pos square.Square) *Piece {
	return &Piece{Color: color, Kind: kind, Phase: Static, Position: pos}
}

// Move initiates a move to `to`, starting from the piece's current position.
// It must only be called on a Static piece (the caller, Match, is
// responsible for that precondition). Per §4.3's determinism rule, EndTime
// is computed from the current Position before Position is overwritten.
func (p *Piece) Move(to square.Square, now float64) {
	dist := square.Distance(p.Position, to)
	p.EndTime = now + dist/SquaresPerSecond
	p.Position = to
	p.Phase = Moving
}

// Advance applies the time-driven transitions of §4.3 for a single tick.
// The caller is expected to invoke Advance twice per tick (see Match.tick)
// so a piece can flow Moving -> Sleeping -> Static within one call when
// debugNoTime has jumped the clock far into the future. Returns true if a
// promotion happened on this call (piece became a Queen).
func (p *Piece) Advance(now float64) (promoted bool) {
	switch p.Phase {
	case Moving:
		if now >= p.EndTime {
			p.Phase = Sleeping
			if p.Kind == square.Pawn && isPromotionRank(p.Color, p.Position.Rank) {
				p.Kind = square.Queen
				promoted = true
			}
			p.EndTime += SleepSeconds
		}
	case Sleeping:
		if now >= p.EndTime {
			p.Phase = Static
		}
	case Static:
		// no-op
	}
	return promoted
}

func isPromotionRank(color square.Color, rank int) bool {
	if color == square.White {
		return rank == 7
	}
	return rank == 0
}

// --- wire codec (§4.1, §6) ---

var (
	movingPattern   = regexp.MustCompile(`^M,(-?\d+\.?\d*),([A-H][1-8])$`)
	sleepingPattern = regexp.MustCompile(`^S,(-?\d+\.?\d*),([A-H][1-8])$`)
)

// Decode parses one piece wire token ("<color>,<kind>;<action>") into a
// Piece. An empty string denotes a captured piece and is handled by the
// caller (Match), not here.
func Decode(token string) (*Piece, error) {
	colorKind, action, ok := strings.Cut(token, ";")
	if !ok {
		return nil, fmt.Errorf("piece: malformed token %q: missing ';'", token)
	}
	colorStr, kindStr, ok := strings.Cut(colorKind, ",")
	if !ok {
		return nil, fmt.Errorf("piece: malformed token %q: missing color/kind ','", token)
	}
	colorN, err := strconv.Atoi(colorStr)
	if err != nil {
		return nil, fmt.Errorf("piece: bad color in %q: %w", token, err)
	}
	kindN, err := strconv.Atoi(kindStr)
	if err != nil {
		return nil, fmt.Errorf("piece: bad kind in %q: %w", token, err)
	}

	p := &Piece{Color: square.Color(colorN), Kind: square.Kind(kindN)}

	if m := movingPattern.FindStringSubmatch(action); m != nil {
		endTime, _ := strconv.ParseFloat(m[1], 64)
		p.Phase = Moving
		p.EndTime = endTime
		p.Position = square.Parse(m[2])
		return p, nil
	}
	if m := sleepingPattern.FindStringSubmatch(action); m != nil {
		endTime, _ := strconv.ParseFloat(m[1], 64)
		p.Phase = Sleeping
		p.EndTime = endTime
		p.Position = square.Parse(m[2])
		return p, nil
	}

	pos := square.Parse(action)
	if !pos.Valid() {
		return nil, fmt.Errorf("piece: bad static position in token %q", token)
	}
	p.Phase = Static
	p.Position = pos
	return p, nil
}

// Encode renders a Piece back to its wire token. encode(decode(s)) == s for
// all well-formed s is the round-trip law of §4.1 (up to float formatting,
// which uses Go's shortest round-trippable representation, matching the
// Python side's `str(float)`).
func (p *Piece) Encode() string {
	var action string
	switch p.Phase {
	case Moving:
		action = "M," + formatFloat(p.EndTime) + "," + p.Position.String()
	case Sleeping:
		action = "S," + formatFloat(p.EndTime) + "," + p.Position.String()
	default:
		action = p.Position.String()
	}
	return strconv.Itoa(int(p.Color)) + "," + strconv.Itoa(int(p.Kind)) + ";" + action
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (p *Piece) String() string {
	return p.Color.String() + " " + p.Kind.String()
}
