// Package server is the HTTP front door: request/response envelopes, session
// administration and the generic failure surface over the shopflow façade.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/shopflow"
	"github.com/hupe1980/shopflow/logging"
)

// GenericFailureMessage is the only failure text exposed to callers; internal
// error details stay in the logs.
const GenericFailureMessage = "Sorry, we could not process your request. Please try again."

// Options configures the HTTP server.
type Options struct {
	// Logger receives request failures. Defaults to NoOpLogger.
	Logger logging.Logger

	// ReleaseMode silences gin's debug output. Defaults to true.
	ReleaseMode bool
}

// Server exposes the shopping assistant over HTTP.
type Server struct {
	flow   *shopflow.Shopflow
	router *gin.Engine
	logger logging.Logger
}

// New creates the server and registers its routes.
func New(flow *shopflow.Shopflow, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		ReleaseMode: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{flow: flow, router: router, logger: opts.Logger}

	router.GET("/health", s.handleHealth)
	router.POST("/chat", s.handleChat)
	sessions := router.Group("/sessions")
	{
		sessions.GET("/:id", s.handleGetSession)
		sessions.DELETE("/:id", s.handleDeleteSession)
	}

	return s
}

// Handler returns the underlying http.Handler, useful for tests and custom
// http.Server setups.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves HTTP on addr until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type historyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.flow.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": GenericFailureMessage})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.flow.Sessions().Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	history := make([]historyMessage, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		history = append(history, historyMessage{Role: string(msg.Speaker), Content: msg.Text})
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sess.ID, "messages": history})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.flow.Sessions().Delete(c.Param("id")); err != nil {
		s.logger.Error("session delete failed", "session_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": GenericFailureMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
