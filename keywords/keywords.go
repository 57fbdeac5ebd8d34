// Package keywords implements statistical keyword extraction with two
// interchangeable algorithms: YAKE and RAKE.
//
// The two score scales are deliberately opposite and never mixed: YAKE scores
// lie in [0,1] with lower meaning more relevant, RAKE scores are unbounded
// non-negative with higher meaning more relevant. Both algorithms are
// deterministic: identical text and configuration produce identical output,
// including ordering.
//
// Usage:
//
//	kws, err := keywords.Extract(text, keywords.Config{Algorithm: keywords.AlgorithmRAKE})
package keywords

import (
	"fmt"
	"strings"
	"unicode"
)

// Algorithm selects the scoring strategy.
type Algorithm string

const (
	AlgorithmYAKE Algorithm = "yake"
	AlgorithmRAKE Algorithm = "rake"
)

// Keyword is a scored phrase. The score scale depends on the algorithm that
// produced it.
type Keyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// YakeParams tunes the YAKE algorithm.
type YakeParams struct {
	// WindowSize is the number of terms on each side considered for
	// co-occurrence statistics. Default 2.
	WindowSize int `json:"window_size,omitempty" yaml:"window_size,omitempty"`
}

// RakeParams tunes the RAKE algorithm.
type RakeParams struct {
	// MinWordLength is the minimum rune length for a word to join a candidate
	// phrase; shorter words act as phrase delimiters. Default 3.
	MinWordLength int `json:"min_word_length,omitempty" yaml:"min_word_length,omitempty"`
	// MaxWordsPerPhrase discards candidate phrases longer than this. Default 4.
	MaxWordsPerPhrase int `json:"max_words_per_phrase,omitempty" yaml:"max_words_per_phrase,omitempty"`
}

// Config controls keyword extraction.
type Config struct {
	Algorithm   Algorithm  `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	MaxKeywords int        `json:"max_keywords,omitempty" yaml:"max_keywords,omitempty"`
	// MinScore is the admission bound. For YAKE it is an upper bound
	// (score <= MinScore admits); for RAKE a lower bound (score >= MinScore).
	// Zero disables filtering for both algorithms.
	MinScore   float64    `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	NgramRange [2]int     `json:"ngram_range,omitempty" yaml:"ngram_range,flow,omitempty"`
	Language   string     `json:"language,omitempty" yaml:"language,omitempty"`
	Yake       YakeParams `json:"yake_params,omitempty" yaml:"yake_params,omitempty"`
	Rake       RakeParams `json:"rake_params,omitempty" yaml:"rake_params,omitempty"`
}

func (c *Config) defaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmYAKE
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 10
	}
	if c.NgramRange[0] <= 0 {
		c.NgramRange[0] = 1
	}
	if c.NgramRange[1] < c.NgramRange[0] {
		c.NgramRange[1] = 3
		if c.NgramRange[1] < c.NgramRange[0] {
			c.NgramRange[1] = c.NgramRange[0]
		}
	}
	if c.Yake.WindowSize <= 0 {
		c.Yake.WindowSize = 2
	}
	if c.Rake.MinWordLength <= 0 {
		c.Rake.MinWordLength = 3
	}
	if c.Rake.MaxWordsPerPhrase <= 0 {
		c.Rake.MaxWordsPerPhrase = 4
	}
}

// Extract runs the configured algorithm over text.
func Extract(text string, cfg Config) ([]Keyword, error) {
	cfg.defaults()
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	switch cfg.Algorithm {
	case AlgorithmYAKE:
		return yake(text, cfg), nil
	case AlgorithmRAKE:
		return rake(text, cfg), nil
	default:
		return nil, fmt.Errorf("unknown keyword algorithm %q", cfg.Algorithm)
	}
}

// token is one word occurrence with its position in the document.
type token struct {
	text     string // original surface form
	lower    string
	sentence int // zero-based sentence index
}

// splitSentences splits text on sentence terminators and newlines.
func splitSentences(text string) []string {
	var sents []string
	var cur strings.Builder
	for _, r := range text {
		switch r {
		case '.', '!', '?', '\n', ';':
			if s := strings.TrimSpace(cur.String()); s != "" {
				sents = append(sents, s)
			}
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sents = append(sents, s)
	}
	return sents
}

// tokenize produces word tokens per sentence. A word is a maximal run of
// letters, digits, apostrophes, and hyphens.
func tokenize(text string) []token {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '-'
	}
	var tokens []token
	for si, sent := range splitSentences(text) {
		for _, w := range strings.FieldsFunc(sent, func(r rune) bool { return !isWordRune(r) }) {
			w = strings.Trim(w, "'-")
			if w == "" {
				continue
			}
			tokens = append(tokens, token{text: w, lower: strings.ToLower(w), sentence: si})
		}
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) && r != '.' && r != ',' {
			return false
		}
	}
	return len(s) > 0
}
