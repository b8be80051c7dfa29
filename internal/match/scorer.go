// Package match scores and ranks knowledge records against a free-text query.
// All functions are pure and safe for concurrent use.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/p-n-ai/pai-study/internal/knowledge"
)

const (
	keywordWeight    = 10
	keyWeight        = 15
	similarityWeight = 5
	videoTopicWeight = 10
	videoWordWeight  = 2

	// definitionPrefix bounds how much of a definition is compared.
	definitionPrefix = 200
	// minVideoWord excludes articles and prepositions from transcript scoring.
	minVideoWord = 3
)

// ScoreTopic rates how relevant topic t is to query q.
//
// Every keyword contained in the query adds 10, the key itself (underscores
// read as spaces) adds 15, and the similarity between the query and the start
// of the definition adds up to 5. Containment is plain substring matching.
func ScoreTopic(q string, t knowledge.Topic) float64 {
	lower := strings.ToLower(q)

	var score float64
	for _, k := range t.Keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			score += keywordWeight
		}
	}
	if strings.Contains(lower, strings.ReplaceAll(t.Key, "_", " ")) {
		score += keyWeight
	}
	score += Similarity(q, prefix(t.Definition, definitionPrefix)) * similarityWeight
	return score
}

// ScoreVideo rates how relevant video v is to query q. Each topic label
// contained in the query adds 10; each query word longer than three
// characters found in the transcript adds 2.
func ScoreVideo(q string, v knowledge.Video) float64 {
	lower := strings.ToLower(q)
	content := strings.ToLower(v.Content)

	var score float64
	for _, label := range v.Topics {
		if strings.Contains(lower, strings.ToLower(label)) {
			score += videoTopicWeight
		}
	}
	for _, w := range strings.Fields(lower) {
		if utf8.RuneCountInString(w) > minVideoWord && strings.Contains(content, w) {
			score += videoWordWeight
		}
	}
	return score
}

// Similarity returns 2*L/(|a|+|b|) where L is the length of the longest common
// subsequence of the lower-cased word tokens of a and b. The result lies in
// [0, 1]; it is symmetric and 0 when either side has no words.
func Similarity(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	total := len(ta) + len(tb)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	return 2 * float64(lcs(ta, tb)) / float64(total)
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// lcs computes the longest common subsequence length with two rolling rows.
func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
