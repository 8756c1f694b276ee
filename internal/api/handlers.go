package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PetterS/realtimechess/internal/apperr"
	"github.com/PetterS/realtimechess/internal/match"
	"github.com/PetterS/realtimechess/internal/square"
)

// lookupMatch resolves the "key" query/form parameter to a live match,
// writing a NotFound response itself on miss so every handler below can
// just `return` on failure.
func (s *Server) lookupMatch(c *gin.Context) *match.Match {
	key := c.Query("key")
	if key == "" {
		key = c.PostForm("key")
	}
	m, ok := s.matches.Get(key)
	if !ok {
		writeError(c, apperr.New(apperr.NotFound, "no match with key %s", key))
		return nil
	}
	return m
}

// handleCreateMatch is the "created by a user's first visit" half of the
// Match Registry's lifecycle: the caller becomes White, and a second seat
// opens for whoever joins next (by key, or by picking the match out of
// handleRecentMatches's joinable list).
func (s *Server) handleCreateMatch(c *gin.Context) {
	p := currentPlayer(c)
	m := s.matches.Create(match.PlayerRef{ID: p.ID, Name: p.Name})
	if s.cfg != nil && s.cfg.DebugNoTime {
		m.SetDebugNoTime(true)
	}
	c.JSON(http.StatusOK, gin.H{"key": m.Key()})
}

// handleRecentMatches answers SPEC_FULL.md's recent(user) query: matches
// created within the registry's recent window, classified
// as returnable/joinable/observable from the caller's point of view.
func (s *Server) handleRecentMatches(c *gin.Context) {
	p := currentPlayer(c)
	classifications := s.matches.Recent(time.Now(), p.ID)
	c.JSON(http.StatusOK, classifications)
}

func (s *Server) handleMove(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	from := square.Parse(c.PostForm("from"))
	to := square.Parse(c.PostForm("to"))
	if !from.Valid() || !to.Valid() {
		writeError(c, apperr.New(apperr.BadRequest, "malformed from/to square"))
		return
	}

	moved, err := m.Move(currentPlayer(c).ID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

func (s *Server) handleReady(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	ready := c.PostForm("ready") == "true"
	if err := m.SetReady(currentPlayer(c).ID, ready); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleRandomize(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	if err := m.Randomize(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleNewGame(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	m.ReportResultsIfOver()
	fresh, err := m.NewGame(currentPlayer(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	s.matches.Replace(m.Key(), fresh)
	fresh.Broadcast()
	c.JSON(http.StatusOK, gin.H{"key": fresh.Key()})
}

func (s *Server) handleGetState(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	payload, err := snapshotFor(m)
	if err != nil {
		writeError(c, apperr.Wrap(apperr.InternalError, err, "failed to serialize match state"))
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (s *Server) handleSetDebug(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	m.SetDebugNoTime(c.PostForm("value") == "true")
	c.Status(http.StatusOK)
}

// snapshotFor calls the match's own JSON encoder; a tiny indirection so
// tests in this package can stub it without depending on match internals.
var snapshotFor = func(m *match.Match) ([]byte, error) {
	return m.SnapshotJSON()
}
