package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetterS/realtimechess/internal/match"
	"github.com/PetterS/realtimechess/internal/players"
	"github.com/PetterS/realtimechess/internal/registry"
)

func newTestServer(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()
	playerReg := players.NewInMemoryRegistry()
	matches := registry.New(playerReg, nil)
	s := NewServer(matches, playerReg, nil, nil)
	return s, matches
}

func authedRequest(method, target string, body string, playerID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("X-Player-Id", playerID)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginEnsuresPlayer(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"id":"p1","name":"Alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")
}

func TestMoveRequiresPlayerHeader(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/move", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveUnknownKeyReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	form := url.Values{"key": {"nope"}, "from": {"A2"}, "to": {"A3"}}
	req := authedRequest(http.MethodPost, "/move?"+form.Encode(), form.Encode(), "p1")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoveAndGetStateRoundTrip(t *testing.T) {
	s, matches := newTestServer(t)
	m := matches.Create(match.PlayerRef{ID: "p1", Name: "Alice"})
	m.Join(match.PlayerRef{ID: "p2", Name: "Bob"})
	require.NoError(t, m.SetReady("p1", true))
	require.NoError(t, m.SetReady("p2", true))

	form := url.Values{"key": {m.Key()}, "from": {"A2"}, "to": {"A4"}}
	req := authedRequest(http.MethodPost, "/move?"+form.Encode(), form.Encode(), "p1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"moved":true`)

	getReq := authedRequest(http.MethodGet, "/getstate?key="+m.Key(), "", "p1")
	getRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)
	assert.Contains(t, getRec.Body.String(), `"key":"`+m.Key()+`"`)
}

func TestReadyBothTransitionsToPlay(t *testing.T) {
	s, matches := newTestServer(t)
	m := matches.Create(match.PlayerRef{ID: "p1"})
	m.Join(match.PlayerRef{ID: "p2"})

	for _, id := range []string{"p1", "p2"} {
		form := url.Values{"key": {m.Key()}, "ready": {"true"}}
		req := authedRequest(http.MethodPost, "/ready", form.Encode(), id)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, match.Play, m.Summary().Phase)
}

func TestCreateMatchRoute(t *testing.T) {
	s, matches := newTestServer(t)
	req := authedRequest(http.MethodPost, "/matches", "", "p1")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, matches.Len())
}

func TestRecentMatchesRouteClassifiesJoinable(t *testing.T) {
	s, matches := newTestServer(t)
	m := matches.Create(match.PlayerRef{ID: "p1", Name: "Alice"})

	req := authedRequest(http.MethodGet, "/matches/recent", "", "p2")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), m.Key())
	assert.Contains(t, rec.Body.String(), `"Joinable":true`)
}

func TestSetDebugHiddenByDefault(t *testing.T) {
	s, matches := newTestServer(t)
	m := matches.Create(match.PlayerRef{ID: "p1"})

	form := url.Values{"key": {m.Key()}, "value": {"true"}}
	req := authedRequest(http.MethodPost, "/setdebug", form.Encode(), "p1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
