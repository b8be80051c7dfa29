package knowledge

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// SearchFlashcards returns flashcards whose term fuzzily matches q, closest
// first. Terms are tried before definitions; a card appears at most once.
func (s *Store) SearchFlashcards(q string) []Flashcard {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	terms := lo.Map(s.flashcards, func(f Flashcard, _ int) string { return f.Term })
	ranks := fuzzy.RankFindFold(q, terms)
	sort.Stable(ranks)

	out := make([]Flashcard, 0, len(ranks))
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		out = append(out, s.flashcards[r.OriginalIndex])
		seen[r.OriginalIndex] = true
	}

	// Multi-word queries rarely match a term as a subsequence, so fall back
	// to plain containment in definitions.
	lower := strings.ToLower(q)
	for i, f := range s.flashcards {
		if !seen[i] && strings.Contains(strings.ToLower(f.Definition), lower) {
			out = append(out, f)
		}
	}
	return out
}
