// Package api is the external-interface adapter of §4.7: a gin-backed HTTP
// server exposing the client→server operations of §6 as routes, plus a
// gorilla/websocket upgrade for observers. Each handler does exactly one
// thing: resolve the acting player and the match, call one Match
// operation, and translate the result into an HTTP response.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PetterS/realtimechess/internal/apperr"
	"github.com/PetterS/realtimechess/internal/config"
	"github.com/PetterS/realtimechess/internal/players"
	"github.com/PetterS/realtimechess/internal/registry"
)

// playerContextKey is the gin context key the auth middleware attaches a
// resolved players.Player under. The anonymous-login scheme itself (how a
// browser first gets an ID) is out of scope (§1); this adapter only
// consumes whatever identity a prior hop already resolved.
const playerContextKey = "player"

// Server wires the Match Registry and Player Registry to HTTP.
type Server struct {
	engine   *gin.Engine
	matches  *registry.Registry
	players  *players.InMemoryRegistry
	cfg      *config.Config
	log      *zap.Logger
	upgrader websocketUpgrader
}

// NewServer builds a Server with all routes registered.
func NewServer(matches *registry.Registry, playerReg *players.InMemoryRegistry, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:   gin.New(),
		matches:  matches,
		players:  playerReg,
		cfg:      cfg,
		log:      log,
		upgrader: newUpgrader(),
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

// Handler returns the http.Handler to pass to http.Server, matching the
// teacher's own "register handlers, then ListenAndServe" structure in
// main.go.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.POST("/login", s.handleLogin)

	authed := s.engine.Group("/")
	authed.Use(s.authMiddleware())
	authed.POST("/matches", s.handleCreateMatch)
	authed.GET("/matches/recent", s.handleRecentMatches)
	authed.POST("/move", s.handleMove)
	authed.POST("/ready", s.handleReady)
	authed.POST("/randomize", s.handleRandomize)
	authed.POST("/newgame", s.handleNewGame)
	authed.POST("/ping", s.handlePing)
	authed.GET("/getstate", s.handleGetState)
	authed.GET("/ws", s.handleWebsocket)

	if s.cfg != nil && s.cfg.AllowSetDebug {
		authed.POST("/setdebug", s.handleSetDebug)
	}
}

// authMiddleware trusts an "X-Player-Id"/"X-Player-Name" header pair,
// matching SPEC_FULL.md's explicit note that the anonymous-login scheme is
// out of scope: a real deployment would resolve this from a session cookie
// upstream of this adapter.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Player-Id")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing X-Player-Id"})
			return
		}
		name := c.GetHeader("X-Player-Name")
		p := s.players.Ensure(id, name)
		c.Set(playerContextKey, p)
		c.Next()
	}
}

func currentPlayer(c *gin.Context) players.Player {
	v, _ := c.Get(playerContextKey)
	p, _ := v.(players.Player)
	return p
}

// handleLogin is the one unauthenticated route: it ensures a Player record
// exists for the given ID and returns it, so a client can learn its
// starting rating before joining a match.
func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		ID   string `json:"id" binding:"required"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := s.players.Ensure(req.ID, req.Name)
	c.JSON(http.StatusOK, p)
}

// writeError maps an apperr.Error (§7) to its HTTP status code. A non-apperr
// error is treated as an internal error, same as the teacher's catch-all
// 500 response path.
func writeError(c *gin.Context, err error) {
	var ae *apperr.Error
	if as, ok := err.(*apperr.Error); ok {
		ae = as
	}
	if ae == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(ae.Kind.StatusCode(), gin.H{"error": ae.Error()})
}

// handlePing is the per-match heartbeat of §6: it lets a client detect a
// dropped connection the way the teacher's Player.Alive() ping/pong loop
// does, and ticks the match forward, giving a finished game the chance to
// report its result (§8 scenario 3).
func (s *Server) handlePing(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}
	m.Ping()
	c.JSON(http.StatusOK, gin.H{"time": time.Now().UTC().Format(time.RFC3339)})
}
