package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/p-n-ai/pai-study/internal/knowledge"
	"github.com/p-n-ai/pai-study/internal/match"
	"github.com/p-n-ai/pai-study/internal/platform/cache"
)

const cacheTimeout = 500 * time.Millisecond

// ReplyCache stores encoded replies. *cache.Cache satisfies it.
type ReplyCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// ServiceConfig holds dependencies for the question service.
type ServiceConfig struct {
	Knowledge Knowledge
	Cache     ReplyCache  // optional
	Events    EventLogger // optional
}

// Question is one inbound study question.
type Question struct {
	SessionID string
	Channel   string
	Text      string
	VideoID   string
}

// Service answers questions through the engine, memoising replies and
// recording analytics. Cache and event failures never fail a question.
type Service struct {
	knowledge Knowledge
	cache     ReplyCache
	events    EventLogger
}

// NewService creates a question service.
func NewService(cfg ServiceConfig) *Service {
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	return &Service{
		knowledge: cfg.Knowledge,
		cache:     cfg.Cache,
		events:    events,
	}
}

// cachedReply is the cache encoding of a Reply. Matches are stored by
// reference and resolved against the snapshot the key was built from.
type cachedReply struct {
	Text   string           `json:"text"`
	Rule   string           `json:"rule"`
	Topics []cachedMatchRef `json:"topics,omitempty"`
	Videos []cachedMatchRef `json:"videos,omitempty"`
}

type cachedMatchRef struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Ask answers q.
func (s *Service) Ask(ctx context.Context, q Question) Reply {
	store := s.knowledge.Store()
	key := cache.Key(store.Version(), q.VideoID, q.Text)

	reply, cached := s.lookup(ctx, store, key)
	if !cached {
		reply = respond(store, q.Text, q.VideoID)
		s.remember(ctx, store, key, reply)
	}

	slog.Info("question answered",
		"session_id", q.SessionID,
		"channel", q.Channel,
		"rule", reply.Rule,
		"video_id", q.VideoID,
		"cached", cached,
	)

	err := s.events.LogEvent(ctx, Event{
		SessionID: q.SessionID,
		Channel:   q.Channel,
		EventType: EventQuestionAnswered,
		Data: map[string]any{
			"rule":      reply.Rule,
			"video_id":  q.VideoID,
			"topics":    lo.Map(reply.Topics, func(m match.TopicMatch, _ int) string { return m.Topic.Key }),
			"cached":    cached,
			"query_len": len(q.Text),
		},
	})
	if err != nil {
		slog.Warn("failed to log event", "type", EventQuestionAnswered, "error", err)
	}

	return reply
}

func (s *Service) lookup(ctx context.Context, store *knowledge.Store, key string) (Reply, bool) {
	if s.cache == nil || store.Version() == "" {
		return Reply{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("reply cache read failed", "error", err)
		return Reply{}, false
	}
	if !ok {
		return Reply{}, false
	}

	var c cachedReply
	if err := json.Unmarshal(data, &c); err != nil {
		slog.Warn("discarding malformed cached reply", "error", err)
		return Reply{}, false
	}

	reply := Reply{Text: c.Text, Rule: c.Rule}
	for _, ref := range c.Topics {
		t, ok := store.GetTopic(ref.ID)
		if !ok {
			return Reply{}, false
		}
		reply.Topics = append(reply.Topics, match.TopicMatch{Topic: t, Score: ref.Score})
	}
	for _, ref := range c.Videos {
		v, ok := store.GetVideo(ref.ID)
		if !ok {
			return Reply{}, false
		}
		reply.Videos = append(reply.Videos, match.VideoMatch{Video: v, Score: ref.Score})
	}
	return reply, true
}

func (s *Service) remember(ctx context.Context, store *knowledge.Store, key string, reply Reply) {
	if s.cache == nil || store.Version() == "" {
		return
	}

	data, err := json.Marshal(cachedReply{
		Text: reply.Text,
		Rule: reply.Rule,
		Topics: lo.Map(reply.Topics, func(m match.TopicMatch, _ int) cachedMatchRef {
			return cachedMatchRef{ID: m.Topic.Key, Score: m.Score}
		}),
		Videos: lo.Map(reply.Videos, func(m match.VideoMatch, _ int) cachedMatchRef {
			return cachedMatchRef{ID: m.Video.ID, Score: m.Score}
		}),
	})
	if err != nil {
		slog.Warn("failed to encode reply for cache", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, key, data); err != nil {
		slog.Warn("reply cache write failed", "error", err)
	}
}
