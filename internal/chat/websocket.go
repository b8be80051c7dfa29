// Package chat serves study questions over WebSocket connections.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/p-n-ai/pai-study/internal/agent"
)

// Channel is the name recorded for questions asked over WebSocket.
const Channel = "websocket"

const defaultReadLimit = 16 << 10

// Answerer answers one question. *agent.Service satisfies it.
type Answerer interface {
	Ask(ctx context.Context, q agent.Question) agent.Reply
}

// InboundMessage is a client frame.
type InboundMessage struct {
	Message string `json:"message"`
	VideoID string `json:"video_id,omitempty"`
}

// OutboundMessage is a server frame. Exactly one of Response or Error is set.
type OutboundMessage struct {
	Response string `json:"response,omitempty"`
	Rule     string `json:"rule,omitempty"`
	Error    string `json:"error,omitempty"`
}

// WebSocketHandler upgrades requests and answers each inbound frame in order.
// Every connection is one session.
type WebSocketHandler struct {
	answerer       Answerer
	knowledge      agent.Knowledge
	originPatterns []string
	readLimit      int64
}

// NewWebSocketHandler creates a handler. originPatterns lists extra allowed
// Origin hosts; same-origin requests are always accepted.
func NewWebSocketHandler(a Answerer, k agent.Knowledge, originPatterns ...string) *WebSocketHandler {
	return &WebSocketHandler{
		answerer:       a,
		knowledge:      k,
		originPatterns: originPatterns,
		readLimit:      defaultReadLimit,
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.readLimit)

	session := uuid.NewString()
	slog.Info("chat session opened", "session_id", session, "remote", r.RemoteAddr)

	err = h.serve(r.Context(), conn, session)
	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		slog.Info("chat session closed", "session_id", session)
		conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		slog.Info("chat session cancelled", "session_id", session)
	default:
		slog.Warn("chat session ended", "session_id", session, "error", err)
	}
}

func (h *WebSocketHandler) serve(ctx context.Context, conn *websocket.Conn, session string) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var out OutboundMessage
		var in InboundMessage
		if err := json.Unmarshal(data, &in); err != nil {
			slog.Debug("discarding malformed chat frame", "session_id", session, "error", err)
			out = OutboundMessage{Error: "invalid JSON"}
		} else {
			out = h.handle(ctx, session, in)
		}
		if err := wsjson.Write(ctx, conn, out); err != nil {
			return err
		}
	}
}

func (h *WebSocketHandler) handle(ctx context.Context, session string, in InboundMessage) OutboundMessage {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return OutboundMessage{Error: "No message provided"}
	}
	if in.VideoID != "" {
		if _, ok := h.knowledge.Store().GetVideo(in.VideoID); !ok {
			return OutboundMessage{Error: "Video not found"}
		}
	}

	reply := h.answerer.Ask(ctx, agent.Question{
		SessionID: session,
		Channel:   Channel,
		Text:      text,
		VideoID:   in.VideoID,
	})
	return OutboundMessage{Response: reply.Text, Rule: reply.Rule}
}
