package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/p-n-ai/pai-study/internal/agent"
	"github.com/p-n-ai/pai-study/internal/export"
	"github.com/p-n-ai/pai-study/internal/knowledge"
	"github.com/p-n-ai/pai-study/internal/match"
)

// Channel is the name recorded for questions asked over HTTP.
const Channel = "http"

const (
	aiProvider   = "Smart Knowledge-Based AI"
	checkTimeout = 2 * time.Second
)

type chatRequest struct {
	Message string `json:"message"`
	VideoID string `json:"video_id,omitempty"`
}

type chatResponse struct {
	Response      string         `json:"response"`
	Rule          string         `json:"rule"`
	RelatedVideos []relatedVideo `json:"related_videos"`
}

type relatedVideo struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type videoRequest struct {
	Question string `json:"question"`
}

type videoResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Topics      []string `json:"topics"`
}

type topicSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type topicDetail struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Content map[string]any `json:"content"`
}

type statusResponse struct {
	AIEnabled  bool   `json:"ai_enabled"`
	AIProvider string `json:"ai_provider"`
	knowledge.Stats
}

type dialogueRequest struct {
	Topic string `json:"topic"`
}

type dialogueResponse struct {
	Dialogue []agent.DialogueLine `json:"dialogue"`
	Topic    string               `json:"topic"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := web.ReadFile("web/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"checks": results})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		AIEnabled:  true,
		AIProvider: aiProvider,
		Stats:      s.knowledge.Store().Stats(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}
	if req.VideoID != "" {
		if _, ok := s.knowledge.Store().GetVideo(req.VideoID); !ok {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
	}

	reply := s.answerer.Ask(r.Context(), agent.Question{
		SessionID: RequestID(r.Context()),
		Channel:   Channel,
		Text:      text,
		VideoID:   req.VideoID,
	})
	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Text,
		Rule:     reply.Rule,
		RelatedVideos: lo.Map(reply.Videos, func(m match.VideoMatch, _ int) relatedVideo {
			return relatedVideo{ID: m.Video.ID, Title: m.Video.Title, Score: m.Score}
		}),
	})
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	videos := lo.Map(s.knowledge.Store().AllVideos(), func(v knowledge.Video, _ int) videoResponse {
		return videoResponse{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			Thumbnail:   v.Thumbnail(),
			Topics:      v.Topics,
		}
	})
	writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleVideoAsk(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Question)
	if text == "" {
		writeError(w, http.StatusBadRequest, "No question provided")
		return
	}
	id := r.PathValue("id")
	if _, ok := s.knowledge.Store().GetVideo(id); !ok {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	reply := s.answerer.Ask(r.Context(), agent.Question{
		SessionID: RequestID(r.Context()),
		Channel:   Channel,
		Text:      text,
		VideoID:   id,
	})
	writeJSON(w, http.StatusOK, map[string]string{"response": reply.Text})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics := lo.Map(s.knowledge.Store().AllTopics(), func(t knowledge.Topic, _ int) topicSummary {
		return topicSummary{ID: t.Key, Title: t.Title(), Summary: t.Summary(summaryLength)}
	})
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	t, ok := s.knowledge.Store().GetTopic(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Topic not found")
		return
	}

	content := map[string]any{
		"definition": t.Definition,
		"keywords":   t.Keywords,
	}
	for c, e := range t.Sections {
		content[string(c)] = e
	}
	writeJSON(w, http.StatusOK, topicDetail{ID: t.Key, Title: t.Title(), Content: content})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	quiz := s.knowledge.Store().Quiz()
	questions := lo.Samples(quiz, min(s.quizSize, len(quiz)))
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (s *Server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	store := s.knowledge.Store()

	var cards []knowledge.Flashcard
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		cards = store.SearchFlashcards(q)
	} else {
		cards = lo.Shuffle(store.Flashcards())
	}
	if cards == nil {
		cards = []knowledge.Flashcard{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleDialogue(w http.ResponseWriter, r *http.Request) {
	var req dialogueRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = agent.DefaultDialogueTopic
	}

	lines, err := agent.Dialogue(s.knowledge.Store(), topic)
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Topic not found")
			return
		}
		slog.Error("generating dialogue", "topic", topic, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dialogueResponse{Dialogue: lines, Topic: topic})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, s.knowledge.Store()); err != nil {
		slog.Error("exporting workbook", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="study.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// decodeJSON reads a size-limited JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
