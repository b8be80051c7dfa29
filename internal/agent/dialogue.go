package agent

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-study/internal/knowledge"
)

// DefaultDialogueTopic is used when no topic is requested or the requested
// one is unknown.
const DefaultDialogueTopic = "oligopoly"

const fallbackExamples = "Great examples include major industries like smartphones (Apple, Samsung), soft drinks (Coca-Cola, Pepsi), and airlines."

// DialogueLine is one spoken turn.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Dialogue scripts a short Professor/Student exchange about topic. The topic
// name is matched case-insensitively with spaces read as underscores.
func Dialogue(store *knowledge.Store, topic string) ([]DialogueLine, error) {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultDialogueTopic
	}

	key := strings.ReplaceAll(strings.ToLower(topic), " ", "_")
	t, ok := store.GetTopic(key)
	if !ok {
		t, ok = store.GetTopic(DefaultDialogueTopic)
	}
	if !ok {
		return nil, fmt.Errorf("dialogue topic %q: %w", topic, knowledge.ErrNotFound)
	}

	examples := fallbackExamples
	if e, ok := t.Sections[knowledge.CategoryExamples]; ok {
		if e.IsList() {
			examples = strings.Join(e.Items, "; ")
		} else {
			examples = e.Text
		}
	}

	return []DialogueLine{
		{"Professor", fmt.Sprintf("Today we're going to discuss %s. Do you know what this concept means?", strings.ReplaceAll(topic, "_", " "))},
		{"Student", "I've heard the term before, but I'm not entirely sure about the details."},
		{"Professor", t.Definition},
		{"Student", "That's interesting! Can you give me some real-world examples?"},
		{"Professor", examples},
		{"Student", "I see! So these big companies have to think carefully about what their competitors might do?"},
		{"Professor", "Exactly! That's called interdependence - it's the defining feature of oligopoly. Each firm must consider how rivals will react to their decisions."},
	}, nil
}
