package match

import (
	"cmp"
	"slices"

	"github.com/p-n-ai/pai-study/internal/knowledge"
)

// MaxTopics caps the number of topics MatchTopics returns.
const MaxTopics = 3

// Source is the read side of the knowledge base the matchers need.
type Source interface {
	AllTopics() []knowledge.Topic
	AllVideos() []knowledge.Video
	GetVideo(id string) (knowledge.Video, bool)
}

// TopicMatch is a topic with its relevance score. Score is always > 0.
type TopicMatch struct {
	Topic knowledge.Topic
	Score float64
}

// VideoMatch is a video with its relevance score. Score is always > 0.
type VideoMatch struct {
	Video knowledge.Video
	Score float64
}

// MatchTopics returns at most MaxTopics relevant topics, best first. Equal
// scores keep knowledge base order.
func MatchTopics(src Source, q string) []TopicMatch {
	var out []TopicMatch
	for _, t := range src.AllTopics() {
		if s := ScoreTopic(q, t); s > 0 {
			out = append(out, TopicMatch{Topic: t, Score: s})
		}
	}
	slices.SortStableFunc(out, func(a, b TopicMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > MaxTopics {
		out = out[:MaxTopics]
	}
	return out
}

// MatchVideos returns every relevant video, best first. A non-empty videoID
// restricts the search to that video; an unknown id yields no matches.
func MatchVideos(src Source, q, videoID string) []VideoMatch {
	videos := src.AllVideos()
	if videoID != "" {
		v, ok := src.GetVideo(videoID)
		if !ok {
			return nil
		}
		videos = []knowledge.Video{v}
	}

	var out []VideoMatch
	for _, v := range videos {
		if s := ScoreVideo(q, v); s > 0 {
			out = append(out, VideoMatch{Video: v, Score: s})
		}
	}
	slices.SortStableFunc(out, func(a, b VideoMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
