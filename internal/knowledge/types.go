package knowledge

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Category tags a structured section of a topic.
type Category string

const (
	CategoryCharacteristics    Category = "characteristics"
	CategoryTypes              Category = "types"
	CategoryExamples           Category = "examples"
	CategoryExample            Category = "example"
	CategoryInterpretation     Category = "interpretation"
	CategoryFormula            Category = "formula"
	CategoryLimitations        Category = "limitations"
	CategoryImportance         Category = "importance"
	CategoryKeyConcepts        Category = "key_concepts"
	CategoryApplications       Category = "applications"
	CategoryExplanation        Category = "explanation"
	CategoryOligopolyApplied   Category = "oligopoly_application"
	CategoryOligopolyRelevance Category = "oligopoly_relevance"
	CategoryDominantStrategy   Category = "dominant_strategy"
	CategoryInstability        Category = "instability"
	CategoryStabilityFactors   Category = "factors_affecting_stability"
	CategoryResult             Category = "result"
	CategoryCriticism          Category = "criticism"
	CategoryBenefits           Category = "benefits"
	CategoryMethods            Category = "methods"
	CategoryWhyUsed            Category = "why_used"
	CategoryAllocative         Category = "allocative_efficiency"
	CategoryProductive         Category = "productive_efficiency"
	CategoryDynamic            Category = "dynamic_efficiency"
	CategoryMechanism          Category = "mechanism"
	CategoryChallenges         Category = "challenges"
)

var knownCategories = map[Category]bool{
	CategoryCharacteristics:    true,
	CategoryTypes:              true,
	CategoryExamples:           true,
	CategoryExample:            true,
	CategoryInterpretation:     true,
	CategoryFormula:            true,
	CategoryLimitations:        true,
	CategoryImportance:         true,
	CategoryKeyConcepts:        true,
	CategoryApplications:       true,
	CategoryExplanation:        true,
	CategoryOligopolyApplied:   true,
	CategoryOligopolyRelevance: true,
	CategoryDominantStrategy:   true,
	CategoryInstability:        true,
	CategoryStabilityFactors:   true,
	CategoryResult:             true,
	CategoryCriticism:          true,
	CategoryBenefits:           true,
	CategoryMethods:            true,
	CategoryWhyUsed:            true,
	CategoryAllocative:         true,
	CategoryProductive:         true,
	CategoryDynamic:            true,
	CategoryMechanism:          true,
	CategoryChallenges:         true,
}

// Known reports whether c is a recognised section tag.
func (c Category) Known() bool {
	return knownCategories[c]
}

// Entry is the value of a topic section: either free text or an ordered list.
type Entry struct {
	Text  string
	Items []string
}

// IsList reports whether the entry holds a list of items.
func (e Entry) IsList() bool {
	return e.Items != nil
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Text = node.Value
		e.Items = nil
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		if err := node.Decode(&items); err != nil {
			return err
		}
		e.Text = ""
		e.Items = items
		return nil
	default:
		return fmt.Errorf("line %d: section must be text or a list of text", node.Line)
	}
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsList() {
		return json.Marshal(e.Items)
	}
	return json.Marshal(e.Text)
}

// Topic is one knowledge-base concept.
type Topic struct {
	Key        string             `yaml:"key" json:"key"`
	Definition string             `yaml:"definition" json:"definition"`
	Keywords   []string           `yaml:"keywords" json:"keywords"`
	Sections   map[Category]Entry `yaml:"sections" json:"sections,omitempty"`
}

// clone copies t so that no slice or map is shared with the result.
func (t Topic) clone() Topic {
	t.Keywords = slices.Clone(t.Keywords)
	if t.Sections != nil {
		sections := make(map[Category]Entry, len(t.Sections))
		for c, e := range t.Sections {
			e.Items = slices.Clone(e.Items)
			sections[c] = e
		}
		t.Sections = sections
	}
	return t
}

// Title returns the display name derived from the topic key.
func (t Topic) Title() string {
	return Title(t.Key)
}

// List returns the items of a list section, or nil when the section is
// absent or holds free text.
func (t Topic) List(c Category) []string {
	e, ok := t.Sections[c]
	if !ok || !e.IsList() {
		return nil
	}
	return e.Items
}

// Text returns the free-text value of a section.
func (t Topic) Text(c Category) (string, bool) {
	e, ok := t.Sections[c]
	if !ok || e.IsList() {
		return "", false
	}
	return e.Text, true
}

// Summary truncates the definition to n characters, appending "..." when cut.
func (t Topic) Summary(n int) string {
	r := []rune(t.Definition)
	if len(r) <= n {
		return t.Definition
	}
	return string(r[:n]) + "..."
}

// Video is an embedded lecture transcript.
type Video struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Topics      []string `yaml:"topics" json:"topics"`
	Content     string   `yaml:"content" json:"-"`
}

func (v Video) clone() Video {
	v.Topics = slices.Clone(v.Topics)
	return v
}

// Thumbnail returns the video's preview image URL.
func (v Video) Thumbnail() string {
	return "https://img.youtube.com/vi/" + v.ID + "/maxresdefault.jpg"
}

// QuizQuestion is a multiple-choice question with exactly four options.
type QuizQuestion struct {
	ID          int      `yaml:"id" json:"id"`
	Question    string   `yaml:"question" json:"question"`
	Options     []string `yaml:"options" json:"options"`
	Answer      string   `yaml:"answer" json:"answer"`
	Explanation string   `yaml:"explanation" json:"explanation"`
}

func (q QuizQuestion) clone() QuizQuestion {
	q.Options = slices.Clone(q.Options)
	return q
}

// Flashcard pairs a term with its definition.
type Flashcard struct {
	Term       string `yaml:"term" json:"term"`
	Definition string `yaml:"definition" json:"definition"`
}

// Title turns a key or label such as "barriers_to_entry" into "Barriers To Entry".
func Title(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
