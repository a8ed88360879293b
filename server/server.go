// Package server exposes the chat core over HTTP and runs the periodic
// session sweep.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/EllieNosrat/chat-with-bing/chat"
	"github.com/EllieNosrat/chat-with-bing/logging"
	"github.com/EllieNosrat/chat-with-bing/session"
)

// ChatService is the slice of the advisor façade the HTTP layer needs.
type ChatService interface {
	Chat(ctx context.Context, sessionID, userMessage string) (answer, id string, err error)
	Sweep(now time.Time) int
	Sessions() int
}

// chatRequest is the POST /chat body.
type chatRequest struct {
	UserMessage    string `json:"user_message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// chatResponse is the POST /chat success body.
type chatResponse struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP front for the chat core.
type Server struct {
	echo    *echo.Echo
	service ChatService
	logger  logging.Logger
}

// NewServer builds the HTTP server and registers its routes.
func NewServer(service ChatService, logger logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	s := &Server{echo: e, service: service, logger: logger}

	e.POST("/chat", s.handleChat)
	e.GET("/health", s.handleHealth)

	return s
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleChat runs one chat turn. The caller always receives either a final
// answer plus a conversation id, or an explicit turn-failure signal; never a
// partial transcript.
func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.UserMessage == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "user_message is required"})
	}

	answer, id, err := s.service.Chat(c.Request().Context(), req.ConversationID, req.UserMessage)
	if err != nil {
		s.logger.Warn("http.chat.turn_failed", "conversation_id", id, "error", err.Error())
		switch {
		case errors.Is(err, chat.ErrMaxRounds):
			return c.JSON(http.StatusBadGateway, errorResponse{Error: "could not complete the turn"})
		case errors.Is(err, session.ErrSessionExpired):
			return c.JSON(http.StatusGone, errorResponse{Error: "session expired, start a new conversation"})
		default:
			return c.JSON(http.StatusBadGateway, errorResponse{Error: "model backend unavailable, retry the turn"})
		}
	}

	return c.JSON(http.StatusOK, chatResponse{Answer: answer, ConversationID: id})
}

// handleHealth reports liveness and the live session count.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "healthy",
		"sessions": s.service.Sessions(),
	})
}
