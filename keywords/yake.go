package keywords

import (
	"math"
	"sort"
	"strings"
)

// yakeTermStats accumulates the per-term statistics YAKE scores are built from.
type yakeTermStats struct {
	tf        float64 // total occurrences
	tfUpper   float64 // occurrences fully uppercased (acronyms)
	tfProper  float64 // occurrences capitalized mid-sentence
	sentences map[int]bool
	// co-occurrence tracking within the configured window
	leftDistinct  map[string]bool
	rightDistinct map[string]bool
	leftTotal     float64
	rightTotal    float64
	firstSentence []int // sentence index of every occurrence, in order
}

// yake scores candidate n-grams by combining term frequency, leading-position
// weighting, casing, sentence spread, and windowed co-occurrence into a single
// score normalized to [0,1] where lower means more relevant.
func yake(text string, cfg Config) []Keyword {
	stop := stopwordsFor(cfg.Language)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	numSentences := tokens[len(tokens)-1].sentence + 1

	stats := make(map[string]*yakeTermStats)
	for i, tok := range tokens {
		st, ok := stats[tok.lower]
		if !ok {
			st = &yakeTermStats{
				sentences:     make(map[int]bool),
				leftDistinct:  make(map[string]bool),
				rightDistinct: make(map[string]bool),
			}
			stats[tok.lower] = st
		}
		st.tf++
		st.sentences[tok.sentence] = true
		st.firstSentence = append(st.firstSentence, tok.sentence)

		if len(tok.text) > 1 && tok.text == strings.ToUpper(tok.text) && !isNumeric(tok.text) {
			st.tfUpper++
		} else if tok.text != tok.lower && i > 0 && tokens[i-1].sentence == tok.sentence {
			// Capitalized but not sentence-initial.
			st.tfProper++
		}

		for w := 1; w <= cfg.Yake.WindowSize; w++ {
			if j := i - w; j >= 0 && tokens[j].sentence == tok.sentence {
				st.leftDistinct[tokens[j].lower] = true
				st.leftTotal++
			}
			if j := i + w; j < len(tokens) && tokens[j].sentence == tok.sentence {
				st.rightDistinct[tokens[j].lower] = true
				st.rightTotal++
			}
		}
	}

	// Frequency distribution over non-stopword terms. The tf values are
	// integer counts, so the sums below are exact and independent of map
	// iteration order, keeping the scores reproducible between runs.
	var maxTF, sumTF, sumTFSq float64
	var n float64
	for term, st := range stats {
		if stop[term] {
			continue
		}
		if st.tf > maxTF {
			maxTF = st.tf
		}
		sumTF += st.tf
		sumTFSq += st.tf * st.tf
		n++
	}
	if n == 0 {
		return nil
	}
	meanTF := sumTF / n
	stdTF := math.Sqrt(math.Max(0, n*sumTFSq-sumTF*sumTF)) / n

	// Per-term score. Lower is better.
	termScore := make(map[string]float64, len(stats))
	for term, st := range stats {
		wCase := math.Max(st.tfUpper, st.tfProper) / (1 + math.Log(st.tf))
		wPos := math.Log(3 + medianInt(st.firstSentence))
		wFreq := st.tf / (meanTF + stdTF)
		var rel float64
		if st.leftTotal > 0 {
			rel += float64(len(st.leftDistinct)) / st.leftTotal
		}
		if st.rightTotal > 0 {
			rel += float64(len(st.rightDistinct)) / st.rightTotal
		}
		wRel := 1 + rel*(st.tf/maxTF)
		wDif := float64(len(st.sentences)) / float64(numSentences)
		termScore[term] = wRel * wPos / (wCase + wFreq/wRel + wDif/wRel)
	}

	// Candidate n-grams: sentence-local windows, no stopword at either edge,
	// no numeric-only terms.
	type candidate struct {
		score float64
		tf    float64
	}
	candidates := make(map[string]*candidate)
	for i := range tokens {
		for size := cfg.NgramRange[0]; size <= cfg.NgramRange[1]; size++ {
			end := i + size
			if end > len(tokens) || tokens[end-1].sentence != tokens[i].sentence {
				break
			}
			gram := tokens[i:end]
			if stop[gram[0].lower] || stop[gram[size-1].lower] {
				continue
			}
			valid := true
			for _, t := range gram {
				if isNumeric(t.lower) || len([]rune(t.lower)) < 2 {
					valid = false
					break
				}
			}
			if !valid {
				continue
			}
			parts := make([]string, size)
			for k, t := range gram {
				parts[k] = t.lower
			}
			key := strings.Join(parts, " ")
			if c, ok := candidates[key]; ok {
				c.tf++
				continue
			}
			prod, sum := 1.0, 0.0
			for _, t := range gram {
				s := termScore[t.lower]
				prod *= s
				sum += s
			}
			candidates[key] = &candidate{score: prod / (1 + sum), tf: 1}
		}
	}

	kws := make([]Keyword, 0, len(candidates))
	bound := cfg.MinScore
	if bound <= 0 {
		bound = 1 // admit everything
	}
	for text, c := range candidates {
		raw := c.score / c.tf
		score := raw / (1 + raw) // squash into [0,1)
		if score > bound {
			continue
		}
		kws = append(kws, Keyword{Text: text, Score: score})
	}

	// Ascending score: for YAKE lower means more relevant. Ties break on text
	// so output is reproducible.
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].Score != kws[j].Score {
			return kws[i].Score < kws[j].Score
		}
		return kws[i].Text < kws[j].Text
	})
	if len(kws) > cfg.MaxKeywords {
		kws = kws[:cfg.MaxKeywords]
	}
	return kws
}

func medianInt(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]int, len(vals))
	copy(sorted, vals)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}
