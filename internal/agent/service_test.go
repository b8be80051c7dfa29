package agent_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/pai-study/internal/agent"
	"github.com/p-n-ai/pai-study/internal/knowledge"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = value
	return nil
}

func newService(t *testing.T, cache agent.ReplyCache, events agent.EventLogger) (*agent.Service, *knowledge.Holder) {
	t.Helper()
	store, err := knowledge.Default()
	require.NoError(t, err)
	holder := knowledge.NewHolder(store)
	return agent.NewService(agent.ServiceConfig{
		Knowledge: holder,
		Cache:     cache,
		Events:    events,
	}), holder
}

func TestService_Ask(t *testing.T) {
	events := agent.NewMemoryEventLogger()
	svc, holder := newService(t, nil, events)

	reply := svc.Ask(t.Context(), agent.Question{
		SessionID: "s-1",
		Channel:   "http",
		Text:      "What is oligopoly?",
	})

	assert.Equal(t, agent.RuleDefinition, reply.Rule)
	assert.Equal(t, agent.NewEngine(holder).Answer("What is oligopoly?", ""), reply.Text)

	logged := events.Events()
	require.Len(t, logged, 1)
	assert.Equal(t, agent.EventQuestionAnswered, logged[0].EventType)
	assert.Equal(t, "s-1", logged[0].SessionID)
	assert.Equal(t, agent.RuleDefinition, logged[0].Data["rule"])
	assert.Equal(t, false, logged[0].Data["cached"])
}

func TestService_CachesReplies(t *testing.T) {
	cache := newFakeCache()
	events := agent.NewMemoryEventLogger()
	svc, _ := newService(t, cache, events)
	q := agent.Question{Text: "What is the prisoner's dilemma?"}

	first := svc.Ask(t.Context(), q)
	require.Len(t, cache.entries, 1)

	second := svc.Ask(t.Context(), q)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Rule, second.Rule)
	assert.Equal(t, first.Topics, second.Topics)
	assert.Equal(t, first.Videos, second.Videos)

	logged := events.Events()
	require.Len(t, logged, 2)
	assert.Equal(t, true, logged[1].Data["cached"])
}

func TestService_CacheKeyIncludesVideo(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newService(t, cache, nil)

	svc.Ask(t.Context(), agent.Question{Text: "zzzz"})
	svc.Ask(t.Context(), agent.Question{Text: "zzzz", VideoID: marketVideo})

	assert.Len(t, cache.entries, 2)
}

func TestService_CacheKeyIncludesVersion(t *testing.T) {
	cache := newFakeCache()
	svc, holder := newService(t, cache, nil)
	q := agent.Question{Text: "what is a tariff"}

	before := svc.Ask(t.Context(), q)
	assert.NotContains(t, before.Text, "**Tariff**")

	dir := t.TempDir()
	writeContent(t, dir, "trade.topics.yaml", "topics:\n  - key: tariff\n    definition: A tax on imports.\n    keywords: [tariff]\n")
	next, err := knowledge.LoadDir(dir)
	require.NoError(t, err)
	holder.Swap(next)

	after := svc.Ask(t.Context(), q)
	assert.Equal(t, "**Tariff**\n\nA tax on imports.", after.Text)
	assert.Len(t, cache.entries, 2)
}

func TestService_CacheFailureStillAnswers(t *testing.T) {
	cache := newFakeCache()
	cache.err = errors.New("connection refused")
	svc, _ := newService(t, cache, nil)

	reply := svc.Ask(t.Context(), agent.Question{Text: "how do we measure concentration"})
	assert.Equal(t, agent.RuleMeasureConcentration, reply.Rule)
}

func TestService_MalformedCacheEntryIgnored(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newService(t, cache, nil)
	q := agent.Question{Text: "how do we measure concentration"}

	svc.Ask(t.Context(), q)
	for k := range cache.entries {
		cache.entries[k] = []byte("{not json")
	}

	reply := svc.Ask(t.Context(), q)
	assert.Equal(t, agent.RuleMeasureConcentration, reply.Rule)
}

func TestService_UnversionedStoreSkipsCache(t *testing.T) {
	cache := newFakeCache()
	store, err := knowledge.NewStore(knowledge.Content{})
	require.NoError(t, err)
	svc := agent.NewService(agent.ServiceConfig{Knowledge: knowledge.NewHolder(store), Cache: cache})

	svc.Ask(t.Context(), agent.Question{Text: "hello"})
	assert.Zero(t, cache.gets)
	assert.Empty(t, cache.entries)
}
