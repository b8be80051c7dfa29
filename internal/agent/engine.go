// Package agent answers study questions with a fixed-priority chain of
// pattern rules over the knowledge base.
package agent

import (
	"strings"

	"github.com/p-n-ai/pai-study/internal/knowledge"
	"github.com/p-n-ai/pai-study/internal/match"
)

// Knowledge publishes the current knowledge snapshot. *knowledge.Holder
// satisfies it.
type Knowledge interface {
	Store() *knowledge.Store
}

// Reply is the engine's answer to one query.
type Reply struct {
	Text   string
	Rule   string
	Topics []match.TopicMatch
	Videos []match.VideoMatch
}

// Engine is the stateless query responder. It is safe for concurrent use.
type Engine struct {
	knowledge Knowledge
}

// NewEngine creates an engine reading from k.
func NewEngine(k Knowledge) *Engine {
	return &Engine{knowledge: k}
}

// Answer returns the reply text for query. videoID may be empty.
func (e *Engine) Answer(query, videoID string) string {
	return e.Respond(query, videoID).Text
}

// Respond runs query through the rule chain and reports which rule answered
// along with the ranked matches it saw.
func (e *Engine) Respond(query, videoID string) Reply {
	return respond(e.knowledge.Store(), query, videoID)
}

func respond(store *knowledge.Store, query, videoID string) Reply {
	t := &turn{
		store:  store,
		lower:  strings.ToLower(query),
		topics: match.MatchTopics(store, query),
	}
	if videoID != "" {
		t.video, t.hasVideo = store.GetVideo(videoID)
	}

	reply := Reply{
		Text:   defaultReply,
		Rule:   RuleDefault,
		Topics: t.topics,
		Videos: match.MatchVideos(store, query, videoID),
	}
	for _, r := range chain {
		if r.applies(t) {
			reply.Text, reply.Rule = r.compose(t), r.name
			break
		}
	}
	return reply
}
