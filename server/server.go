// Package server exposes the exploration interface over HTTP. Every
// websocket connection gets its own session: its own reactive graph,
// built and driven on the connection's goroutine, never shared. The
// server holds only the immutable loaded table.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vitalstat/lifelens/dataset"
	"github.com/vitalstat/lifelens/logger"
)

// Server routes HTTP traffic onto per-connection sessions.
type Server struct {
	log    zerolog.Logger
	table  *dataset.Wide
	engine *gin.Engine
}

// New builds the router over an already loaded table. Loading happens
// before this point; a broken dataset never reaches a session.
func New(table *dataset.Wide, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		log:    logger.Component(log, "server"),
		table:  table,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/ws", s.serveWS)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Int("countries", len(s.table.Countries)).Msg("listening")
	return s.engine.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"countries": len(s.table.Countries),
	})
}
