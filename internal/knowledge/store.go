// Package knowledge holds the study content: topics, lecture transcripts,
// quiz questions and flashcards. A Store is built once and never mutated,
// so it is safe for concurrent readers without locking.
package knowledge

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
)

// ErrNotFound is returned by error-returning lookups for unknown keys.
var ErrNotFound = errors.New("not found")

// Stats counts the loaded content.
type Stats struct {
	Topics     int `json:"topics_loaded"`
	Videos     int `json:"videos_loaded"`
	Quiz       int `json:"quiz_questions"`
	Flashcards int `json:"flashcards"`
}

// Store is an immutable snapshot of the knowledge base.
type Store struct {
	version    string
	topics     []Topic
	topicIndex map[string]int
	videos     []Video
	videoIndex map[string]int
	quiz       []QuizQuestion
	flashcards []Flashcard
}

// Content is the raw material a Store is built from.
type Content struct {
	Topics     []Topic
	Videos     []Video
	Quiz       []QuizQuestion
	Flashcards []Flashcard
}

// NewStore validates content and indexes it. Slice order is preserved and
// the store keeps its own copy of everything in c.
func NewStore(c Content) (*Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		topics:     cloneAll(c.Topics, Topic.clone),
		topicIndex: make(map[string]int, len(c.Topics)),
		videos:     cloneAll(c.Videos, Video.clone),
		videoIndex: make(map[string]int, len(c.Videos)),
		quiz:       cloneAll(c.Quiz, QuizQuestion.clone),
		flashcards: slices.Clone(c.Flashcards),
	}
	for i, t := range s.topics {
		s.topicIndex[t.Key] = i
	}
	for i, v := range s.videos {
		s.videoIndex[v.ID] = i
	}
	return s, nil
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

// Validate checks the invariants of the content set and reports every
// violation found.
func (c Content) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		if t.Key == "" {
			errs = append(errs, fmt.Errorf("topic #%d: key is required", i))
			continue
		}
		if seen[t.Key] {
			errs = append(errs, fmt.Errorf("topic %q: duplicate key", t.Key))
		}
		seen[t.Key] = true
		if t.Definition == "" {
			errs = append(errs, fmt.Errorf("topic %q: definition is required", t.Key))
		}
		for cat := range t.Sections {
			if !cat.Known() {
				errs = append(errs, fmt.Errorf("topic %q: unknown section %q", t.Key, cat))
			}
		}
	}

	seen = make(map[string]bool, len(c.Videos))
	for i, v := range c.Videos {
		if v.ID == "" {
			errs = append(errs, fmt.Errorf("video #%d: id is required", i))
			continue
		}
		if seen[v.ID] {
			errs = append(errs, fmt.Errorf("video %q: duplicate id", v.ID))
		}
		seen[v.ID] = true
	}

	ids := make(map[int]bool, len(c.Quiz))
	for _, q := range c.Quiz {
		if ids[q.ID] {
			errs = append(errs, fmt.Errorf("quiz %d: duplicate id", q.ID))
		}
		ids[q.ID] = true
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Errorf("quiz %d: want 4 options, got %d", q.ID, len(q.Options)))
		}
		if !slices.Contains(q.Options, q.Answer) {
			errs = append(errs, fmt.Errorf("quiz %d: answer %q is not one of the options", q.ID, q.Answer))
		}
	}

	for i, f := range c.Flashcards {
		if f.Term == "" || f.Definition == "" {
			errs = append(errs, fmt.Errorf("flashcard #%d: term and definition are required", i))
		}
	}

	return errors.Join(errs...)
}

// Version identifies the content the store was built from. Empty for
// stores built directly from Content.
func (s *Store) Version() string {
	return s.version
}

// GetTopic returns a copy of a topic by key. Accessors never hand out
// slices or maps the store still references.
func (s *Store) GetTopic(key string) (Topic, bool) {
	i, ok := s.topicIndex[key]
	if !ok {
		return Topic{}, false
	}
	return s.topics[i].clone(), true
}

// AllTopics returns all topics in insertion order.
func (s *Store) AllTopics() []Topic {
	return cloneAll(s.topics, Topic.clone)
}

// GetVideo returns a video by id.
func (s *Store) GetVideo(id string) (Video, bool) {
	i, ok := s.videoIndex[id]
	if !ok {
		return Video{}, false
	}
	return s.videos[i].clone(), true
}

// AllVideos returns all videos in insertion order.
func (s *Store) AllVideos() []Video {
	return cloneAll(s.videos, Video.clone)
}

// Quiz returns all quiz questions in insertion order.
func (s *Store) Quiz() []QuizQuestion {
	return cloneAll(s.quiz, QuizQuestion.clone)
}

// Flashcards returns all flashcards in insertion order.
func (s *Store) Flashcards() []Flashcard {
	return slices.Clone(s.flashcards)
}

// Stats reports how much content is loaded.
func (s *Store) Stats() Stats {
	return Stats{
		Topics:     len(s.topics),
		Videos:     len(s.videos),
		Quiz:       len(s.quiz),
		Flashcards: len(s.flashcards),
	}
}

// Holder publishes the current Store. Replacing the store swaps the whole
// snapshot; readers holding the previous one keep a consistent view.
type Holder struct {
	current atomic.Pointer[Store]
}

// NewHolder creates a holder publishing s.
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Store returns the current snapshot.
func (h *Holder) Store() *Store {
	return h.current.Load()
}

// Swap publishes s and returns the previous snapshot.
func (h *Holder) Swap(s *Store) *Store {
	return h.current.Swap(s)
}
