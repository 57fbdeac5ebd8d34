package keywords

import (
	"sort"
	"strings"
)

// rake implements Rapid Automatic Keyword Extraction: stop-words and short
// words delimit candidate phrases, words are scored from a co-occurrence
// graph over the surviving phrases, and a phrase scores the sum of its words.
// Scores are unbounded non-negative, higher means more relevant.
func rake(text string, cfg Config) []Keyword {
	stop := stopwordsFor(cfg.Language)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	// Phase 1: candidate phrases. A phrase is a maximal run of admissible
	// words within one sentence; phrases exceeding MaxWordsPerPhrase are
	// discarded rather than truncated.
	var phrases [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 && len(cur) <= cfg.Rake.MaxWordsPerPhrase {
			phrases = append(phrases, cur)
		}
		cur = nil
	}
	prevSentence := 0
	for _, tok := range tokens {
		if tok.sentence != prevSentence {
			flush()
			prevSentence = tok.sentence
		}
		if stop[tok.lower] || len([]rune(tok.lower)) < cfg.Rake.MinWordLength || isNumeric(tok.lower) {
			flush()
			continue
		}
		cur = append(cur, tok.lower)
	}
	flush()
	if len(phrases) == 0 {
		return nil
	}

	// Phase 2: word scores from degree and frequency. Degree counts
	// co-occurrence with the other words of each phrase the word appears in.
	freq := make(map[string]float64)
	degree := make(map[string]float64)
	for _, phrase := range phrases {
		for _, w := range phrase {
			freq[w]++
			degree[w] += float64(len(phrase) - 1)
		}
	}
	wordScore := make(map[string]float64, len(freq))
	for w, f := range freq {
		wordScore[w] = (degree[w] + f) / f
	}

	// Phase 3: phrase scores, deduplicated on the joined text.
	phraseScore := make(map[string]float64)
	for _, phrase := range phrases {
		key := strings.Join(phrase, " ")
		if _, ok := phraseScore[key]; ok {
			continue
		}
		var sum float64
		for _, w := range phrase {
			sum += wordScore[w]
		}
		phraseScore[key] = sum
	}

	kws := make([]Keyword, 0, len(phraseScore))
	for text, score := range phraseScore {
		if score < cfg.MinScore {
			continue
		}
		kws = append(kws, Keyword{Text: text, Score: score})
	}

	// Descending score: for RAKE higher means more relevant.
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].Score != kws[j].Score {
			return kws[i].Score > kws[j].Score
		}
		return kws[i].Text < kws[j].Text
	})
	if len(kws) > cfg.MaxKeywords {
		kws = kws[:cfg.MaxKeywords]
	}
	return kws
}
