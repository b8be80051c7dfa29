// Package server exposes the study assistant over HTTP.
package server

import (
	"context"
	"embed"
	"net/http"

	"github.com/p-n-ai/pai-study/internal/agent"
	"github.com/p-n-ai/pai-study/internal/chat"
	"github.com/p-n-ai/pai-study/internal/knowledge"
)

//go:embed web/index.html
var web embed.FS

const (
	defaultQuizSize = 10
	maxBodyBytes    = 64 << 10
	summaryLength   = 150
)

// Answerer answers one question. *agent.Service satisfies it.
type Answerer interface {
	Ask(ctx context.Context, q agent.Question) agent.Reply
}

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Config holds the server's dependencies.
type Config struct {
	Knowledge      *knowledge.Holder
	Answerer       Answerer
	QuizSize       int
	AllowedOrigins []string         // extra WebSocket origins
	Checks         map[string]Check // readiness checks by name
}

// Server routes HTTP requests to the study handlers.
type Server struct {
	knowledge *knowledge.Holder
	answerer  Answerer
	quizSize  int
	checks    map[string]Check
	mux       *http.ServeMux
}

// New creates the HTTP handler with request ids, access logging and panic
// recovery applied to every route.
func New(cfg Config) http.Handler {
	s := &Server{
		knowledge: cfg.Knowledge,
		answerer:  cfg.Answerer,
		quizSize:  cfg.QuizSize,
		checks:    cfg.Checks,
		mux:       http.NewServeMux(),
	}
	if s.quizSize <= 0 {
		s.quizSize = defaultQuizSize
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)

	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /api/videos", s.handleVideos)
	s.mux.HandleFunc("POST /api/video/{id}/ask", s.handleVideoAsk)
	s.mux.HandleFunc("GET /api/topics", s.handleTopics)
	s.mux.HandleFunc("GET /api/topic/{id}", s.handleTopic)
	s.mux.HandleFunc("GET /api/quiz", s.handleQuiz)
	s.mux.HandleFunc("GET /api/flashcards", s.handleFlashcards)
	s.mux.HandleFunc("POST /api/generate-dialogue", s.handleDialogue)
	s.mux.HandleFunc("GET /api/export.xlsx", s.handleExport)

	s.mux.Handle("GET /ws/chat", chat.NewWebSocketHandler(cfg.Answerer, cfg.Knowledge, cfg.AllowedOrigins...))

	return requestID(accessLog(recoverer(s.mux)))
}
