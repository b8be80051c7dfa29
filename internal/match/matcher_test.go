package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/pai-study/internal/knowledge"
	"github.com/p-n-ai/pai-study/internal/match"
)

func defaultStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store, err := knowledge.Default()
	require.NoError(t, err)
	return store
}

func TestMatchTopics_KeywordHit(t *testing.T) {
	store := defaultStore(t)

	for _, topic := range store.AllTopics() {
		q := "tell me about " + topic.Keywords[0]
		matches := match.MatchTopics(store, q)

		var found bool
		for _, m := range matches {
			if m.Topic.Key == topic.Key {
				found = true
				assert.GreaterOrEqual(t, m.Score, 10.0, "topic %s", topic.Key)
			}
		}
		// A topic can be crowded out of the top three by broader keyword overlap,
		// but only by topics that also scored at least as high.
		if !found {
			require.Len(t, matches, match.MaxTopics, "query %q", q)
			assert.GreaterOrEqual(t, matches[len(matches)-1].Score, 10.0)
		}
	}
}

func TestMatchTopics_CappedAndPositive(t *testing.T) {
	store := defaultStore(t)

	queries := []string{
		"oligopoly collusion cartel nash prisoner game theory price leadership opec",
		"what is oligopoly",
		"a",
		"asdkfjasldkj",
	}
	for _, q := range queries {
		matches := match.MatchTopics(store, q)
		assert.LessOrEqual(t, len(matches), match.MaxTopics, q)
		for i, m := range matches {
			assert.Positive(t, m.Score, q)
			if i > 0 {
				assert.LessOrEqual(t, m.Score, matches[i-1].Score, "%q not sorted", q)
			}
		}
	}
}

func TestMatchTopics_TopResult(t *testing.T) {
	store := defaultStore(t)

	tests := []struct {
		query string
		want  string
	}{
		{"What is oligopoly?", "oligopoly"},
		{"explain the nash equilibrium", "nash_equilibrium"},
		{"define the kinked demand curve", "kinked_demand_curve"},
		{"what does opec do", "opec"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			matches := match.MatchTopics(store, tt.query)
			require.NotEmpty(t, matches)
			assert.Equal(t, tt.want, matches[0].Topic.Key)
		})
	}
}

func TestMatchTopics_NoMatch(t *testing.T) {
	assert.Empty(t, match.MatchTopics(defaultStore(t), "asdkfjasldkj"))
}

func TestMatchTopics_TiesKeepStoreOrder(t *testing.T) {
	store, err := knowledge.NewStore(knowledge.Content{
		Topics: []knowledge.Topic{
			{Key: "first", Definition: "zzz", Keywords: []string{"shared"}},
			{Key: "second", Definition: "zzz", Keywords: []string{"shared"}},
			{Key: "third", Definition: "zzz", Keywords: []string{"shared"}},
			{Key: "fourth", Definition: "zzz", Keywords: []string{"shared"}},
		},
	})
	require.NoError(t, err)

	matches := match.MatchTopics(store, "shared")
	require.Len(t, matches, 3)
	assert.Equal(t, "first", matches[0].Topic.Key)
	assert.Equal(t, "second", matches[1].Topic.Key)
	assert.Equal(t, "third", matches[2].Topic.Key)
}

func TestMatchVideos(t *testing.T) {
	store := defaultStore(t)

	t.Run("all videos", func(t *testing.T) {
		matches := match.MatchVideos(store, "prisoner's dilemma and nash equilibrium", "")
		require.NotEmpty(t, matches)
		assert.Equal(t, "Z_S0VA4jKes", matches[0].Video.ID)
	})

	t.Run("scoped to one video", func(t *testing.T) {
		matches := match.MatchVideos(store, "prisoner's dilemma and nash equilibrium", "Ec19ljjvlCI")
		for _, m := range matches {
			assert.Equal(t, "Ec19ljjvlCI", m.Video.ID)
		}
	})

	t.Run("unknown video", func(t *testing.T) {
		for _, q := range []string{"oligopoly", "prisoner's dilemma", "asdkfjasldkj", "market structure"} {
			assert.Empty(t, match.MatchVideos(store, q, "no-such-video"), q)
		}
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Empty(t, match.MatchVideos(store, "zzzz qqqq", ""))
	})
}

func TestMatch_Deterministic(t *testing.T) {
	store := defaultStore(t)
	q := "why is collusion in an oligopoly unstable"

	assert.Equal(t, match.MatchTopics(store, q), match.MatchTopics(store, q))
	assert.Equal(t, match.MatchVideos(store, q, ""), match.MatchVideos(store, q, ""))
}
