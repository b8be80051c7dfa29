package knowledge_test

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/p-n-ai/pai-study/internal/knowledge"
)

func TestNewStore_RejectsDuplicateTopicKeys(t *testing.T) {
	_, err := knowledge.NewStore(knowledge.Content{
		Topics: []knowledge.Topic{
			{Key: "oligopoly", Definition: "one", Keywords: []string{"a"}},
			{Key: "oligopoly", Definition: "two", Keywords: []string{"b"}},
		},
	})
	if err == nil {
		t.Fatal("NewStore() should reject duplicate topic keys")
	}
}

func TestNewStore_ReportsEveryProblem(t *testing.T) {
	_, err := knowledge.NewStore(knowledge.Content{
		Topics:     []knowledge.Topic{{Key: "empty"}},
		Flashcards: []knowledge.Flashcard{{Term: "Orphan"}},
	})
	if err == nil {
		t.Fatal("NewStore() should fail")
	}
	for _, want := range []string{"definition is required", "term and definition are required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestStore_AllTopicsReturnsCopy(t *testing.T) {
	store, err := knowledge.NewStore(knowledge.Content{
		Topics: []knowledge.Topic{{Key: "a", Definition: "A", Keywords: []string{"a"}}},
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	topics := store.AllTopics()
	topics[0].Key = "mutated"

	if got := store.AllTopics()[0].Key; got != "a" {
		t.Errorf("store changed through returned slice: key = %q", got)
	}
}

func TestStore_AccessorsDoNotShareNestedData(t *testing.T) {
	keywords := []string{"cartel"}
	store, err := knowledge.NewStore(knowledge.Content{
		Topics: []knowledge.Topic{{
			Key:        "collusion",
			Definition: "Firms agreeing on prices.",
			Keywords:   keywords,
			Sections: map[knowledge.Category]knowledge.Entry{
				knowledge.CategoryTypes: {Items: []string{"explicit", "tacit"}},
			},
		}},
		Videos: []knowledge.Video{{ID: "v1", Title: "Cartels", Topics: []string{"collusion"}}},
		Quiz: []knowledge.QuizQuestion{{
			ID: 1, Question: "Q", Options: []string{"a", "b", "c", "d"}, Answer: "a",
		}},
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	keywords[0] = "changed at source"
	topic, _ := store.GetTopic("collusion")
	topic.Keywords[0] = "changed"
	topic.Sections[knowledge.CategoryTypes].Items[0] = "changed"
	topic.Sections[knowledge.CategoryExample] = knowledge.Entry{Text: "added"}
	store.AllTopics()[0].Keywords[0] = "changed"
	video, _ := store.GetVideo("v1")
	video.Topics[0] = "changed"
	store.AllVideos()[0].Topics[0] = "changed"
	store.Quiz()[0].Options[0] = "changed"

	got, _ := store.GetTopic("collusion")
	if got.Keywords[0] != "cartel" {
		t.Errorf("Keywords = %v, want [cartel]", got.Keywords)
	}
	if items := got.List(knowledge.CategoryTypes); items[0] != "explicit" {
		t.Errorf("types section = %v, want explicit first", items)
	}
	if _, ok := got.Sections[knowledge.CategoryExample]; ok {
		t.Error("section added through a returned topic reached the store")
	}
	if v, _ := store.GetVideo("v1"); v.Topics[0] != "collusion" {
		t.Errorf("video Topics = %v, want [collusion]", v.Topics)
	}
	if q := store.Quiz()[0]; q.Options[0] != "a" {
		t.Errorf("quiz Options = %v, want a first", q.Options)
	}
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, err := knowledge.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, topic := range store.AllTopics() {
				if _, ok := store.GetTopic(topic.Key); !ok {
					t.Errorf("GetTopic(%s) not found", topic.Key)
				}
			}
		}()
	}
	wg.Wait()
}

func TestHolder_Swap(t *testing.T) {
	first, _ := knowledge.NewStore(knowledge.Content{})
	second, _ := knowledge.NewStore(knowledge.Content{
		Flashcards: []knowledge.Flashcard{{Term: "Cartel", Definition: "An agreement."}},
	})

	h := knowledge.NewHolder(first)
	if h.Store() != first {
		t.Fatal("Store() should return the initial snapshot")
	}

	prev := h.Swap(second)
	if prev != first {
		t.Error("Swap() should return the previous snapshot")
	}
	if h.Store().Stats().Flashcards != 1 {
		t.Error("Store() should return the swapped snapshot")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"oligopoly", "Oligopoly"},
		{"barriers_to_entry", "Barriers To Entry"},
		{"non_price_competition", "Non Price Competition"},
		{"prisoner's dilemma", "Prisoner's Dilemma"},
		{"opec", "Opec"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := knowledge.Title(tt.key); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestTopic_Summary(t *testing.T) {
	topic := knowledge.Topic{Definition: strings.Repeat("x", 200)}

	got := topic.Summary(150)
	if len(got) != 153 || !strings.HasSuffix(got, "...") {
		t.Errorf("Summary(150) length = %d, want 150 chars plus ellipsis", len(got))
	}

	short := knowledge.Topic{Definition: "Short."}
	if got := short.Summary(150); got != "Short." {
		t.Errorf("Summary(150) = %q, want unchanged definition", got)
	}
}

func TestEntry_MarshalJSON(t *testing.T) {
	topic := knowledge.Topic{
		Key: "k",
		Sections: map[knowledge.Category]knowledge.Entry{
			knowledge.CategoryTypes:    {Items: []string{"a", "b"}},
			knowledge.CategoryExamples: {Text: "example text"},
		},
	}

	data, err := json.Marshal(topic.Sections)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"examples":"example text","types":["a","b"]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
