package agent

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-study/internal/knowledge"
	"github.com/p-n-ai/pai-study/internal/match"
)

// Rule names reported with every reply, in priority order.
const (
	RuleGreeting                     = "greeting"
	RuleCapability                   = "capability"
	RuleDefinition                   = "definition"
	RuleOligopolyExamples            = "oligopoly_examples"
	RulePrisonersDilemmaExample      = "prisoners_dilemma_example"
	RuleRigidPrices                  = "rigid_prices"
	RuleCollusionFails               = "collusion_fails"
	RuleMeasureConcentration         = "measure_concentration"
	RuleMonopolyComparison           = "monopoly_comparison"
	RulePerfectCompetitionComparison = "perfect_competition_comparison"
	RuleVideoTopics                  = "video_topics"
	RuleVideoExcerpt                 = "video_excerpt"
	RuleVideoSummary                 = "video_summary"
	RuleTopic                        = "topic"
	RuleDefault                      = "default"
)

const (
	definitionBullets = 4
	topicBullets      = 3
	videoTopicLimit   = 2
	excerptLines      = 5
	excerptTopics     = 5
	summaryChars      = 800
	// minExcerptWord is the length a query word must exceed to pick
	// transcript lines.
	minExcerptWord = 4
)

var (
	greetingPhrases   = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
	capabilityPhrases = []string{"what can you", "help me", "what do you know", "capabilities"}
	comparisonWords   = []string{"difference", "compare", "vs"}
)

// turn carries one query through the rule chain.
type turn struct {
	store  *knowledge.Store
	lower  string
	topics []match.TopicMatch

	video    knowledge.Video
	hasVideo bool

	labels  []string
	excerpt []string
	scanned bool
}

// rule is one entry of the priority chain: compose runs only when applies
// holds, and the first applicable rule produces the reply.
type rule struct {
	name    string
	applies func(t *turn) bool
	compose func(t *turn) string
}

var chain = []rule{
	{RuleGreeting, has(greetingPhrases...), fixed(greetingReply)},
	{RuleCapability, has(capabilityPhrases...), fixed(capabilityReply)},
	{RuleDefinition, all(has("what is", "define", "explain"), hasTopics), composeDefinition},
	{RuleOligopolyExamples, all(has("example"), has("oligopoly")), fixed(oligopolyExamplesReply)},
	{RulePrisonersDilemmaExample, all(has("example"), has("prisoner", "dilemma")), fixed(prisonersDilemmaExampleReply)},
	{RuleRigidPrices, all(has("why"), has("rigid", "stable")), fixed(rigidPricesReply)},
	{RuleCollusionFails, all(has("why"), has("collusion"), has("fail", "unstable", "difficult")), fixed(collusionFailsReply)},
	{RuleMeasureConcentration, all(has("how"), has("measure", "concentration")), fixed(measureConcentrationReply)},
	{RuleMonopolyComparison, all(has(comparisonWords...), has("monopoly")), fixed(monopolyComparisonReply)},
	{RulePerfectCompetitionComparison, all(has(comparisonWords...), has("competition", "perfect")), fixed(perfectCompetitionComparisonReply)},
	{RuleVideoTopics, func(t *turn) bool { return t.hasVideo && len(t.videoLabels()) > 0 }, composeVideoTopics},
	{RuleVideoExcerpt, func(t *turn) bool { return t.hasVideo && len(t.videoExcerpt()) > 0 }, composeVideoExcerpt},
	{RuleVideoSummary, func(t *turn) bool { return t.hasVideo }, composeVideoSummary},
	{RuleTopic, hasTopics, composeTopic},
	{RuleDefault, func(*turn) bool { return true }, fixed(defaultReply)},
}

// has matches when the lower-cased query contains any of the phrases.
func has(phrases ...string) func(*turn) bool {
	return func(t *turn) bool {
		for _, p := range phrases {
			if strings.Contains(t.lower, p) {
				return true
			}
		}
		return false
	}
}

func all(preds ...func(*turn) bool) func(*turn) bool {
	return func(t *turn) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

func hasTopics(t *turn) bool {
	return len(t.topics) > 0
}

func fixed(reply string) func(*turn) string {
	return func(*turn) string { return reply }
}

func composeDefinition(t *turn) string {
	top := t.topics[0].Topic

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n%s", top.Title(), top.Definition)
	if items := top.List(knowledge.CategoryCharacteristics); items != nil {
		b.WriteString("\n\n**Key Characteristics:**\n")
		writeBullets(&b, items, definitionBullets)
	}
	if items := top.List(knowledge.CategoryTypes); items != nil {
		b.WriteString("\n\n**Types:**\n")
		writeBullets(&b, items, definitionBullets)
	}
	return b.String()
}

func composeTopic(t *turn) string {
	top := t.topics[0].Topic

	var b strings.Builder
	fmt.Fprintf(&b, "Great question! Let me explain **%s**:\n\n%s\n\n", top.Title(), top.Definition)
	if items := top.List(knowledge.CategoryCharacteristics); items != nil {
		b.WriteString("**Key Points:**\n")
		writeBullets(&b, items, topicBullets)
	}
	if len(t.topics) > 1 {
		related := make([]string, 0, len(t.topics)-1)
		for _, m := range t.topics[1:] {
			related = append(related, m.Topic.Title())
		}
		b.WriteString("\n\n**Related Topics:** ")
		b.WriteString(strings.Join(related, ", "))
		b.WriteString("\n\nWould you like me to explain any of these related concepts?")
	}
	return b.String()
}

func composeVideoTopics(t *turn) string {
	parts := []string{fmt.Sprintf("**Based on the video '%s':**\n", t.video.Title)}

	labels := t.videoLabels()
	if len(labels) > videoTopicLimit {
		labels = labels[:videoTopicLimit]
	}
	for _, label := range labels {
		if topic, ok := t.store.GetTopic(labelKey(label)); ok {
			parts = append(parts, fmt.Sprintf("\n**%s:**\n%s", knowledge.Title(label), topic.Definition))
			continue
		}
		switch {
		case label == "prisoner's dilemma" || strings.Contains(label, "prisoner"):
			parts = appendDefinition(parts, t.store, "Prisoner's Dilemma", "prisoners_dilemma")
		case label == "nash equilibrium" || strings.Contains(label, "nash"):
			parts = appendDefinition(parts, t.store, "Nash Equilibrium", "nash_equilibrium")
		}
	}

	parts = append(parts, "\n\n📺 *This is covered in detail in the video at various points.*")
	return strings.Join(parts, "\n")
}

func appendDefinition(parts []string, store *knowledge.Store, heading, key string) []string {
	topic, ok := store.GetTopic(key)
	if !ok {
		return parts
	}
	return append(parts, fmt.Sprintf("\n**%s:**\n%s", heading, topic.Definition))
}

func composeVideoExcerpt(t *turn) string {
	lines := t.videoExcerpt()
	if len(lines) > excerptLines {
		lines = lines[:excerptLines]
	}
	topics := t.video.Topics
	if len(topics) > excerptTopics {
		topics = topics[:excerptTopics]
	}
	return fmt.Sprintf("**Based on the video '%s':**\n\n%s\n\n📺 The video covers: %s\n\nIs there a specific concept you'd like me to explain in more detail?",
		t.video.Title, strings.Join(lines, "\n"), strings.Join(topics, ", "))
}

func composeVideoSummary(t *turn) string {
	content := []rune(t.video.Content)
	if len(content) > summaryChars {
		content = content[:summaryChars]
	}
	return fmt.Sprintf("**From the video \"%s\":**\n\n%s...\n\n📚 **Topics covered:** %s\n\nFeel free to ask about any specific topic from this video!",
		t.video.Title, string(content), strings.Join(t.video.Topics, ", "))
}

// videoLabels returns the video's topic labels mentioned in the query, either
// whole or by any single word of the label.
func (t *turn) videoLabels() []string {
	t.scan()
	return t.labels
}

// videoExcerpt returns the trimmed transcript lines containing a query word
// longer than four characters.
func (t *turn) videoExcerpt() []string {
	t.scan()
	return t.excerpt
}

func (t *turn) scan() {
	if t.scanned || !t.hasVideo {
		return
	}
	t.scanned = true

	for _, label := range t.video.Topics {
		label = strings.ToLower(label)
		if strings.Contains(t.lower, label) || containsAnyWord(t.lower, strings.Fields(label)) {
			t.labels = append(t.labels, label)
		}
	}

	var words []string
	for _, w := range strings.Fields(t.lower) {
		if len([]rune(w)) > minExcerptWord {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return
	}
	for _, line := range strings.Split(strings.TrimSpace(t.video.Content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && containsAnyWord(strings.ToLower(line), words) {
			t.excerpt = append(t.excerpt, line)
		}
	}
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// labelKey turns a video topic label into a knowledge key.
func labelKey(label string) string {
	return strings.NewReplacer(" ", "_", "'", "", "-", "_").Replace(label)
}

func writeBullets(b *strings.Builder, items []string, limit int) {
	if len(items) > limit {
		items = items[:limit]
	}
	for _, item := range items {
		b.WriteString("• ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
