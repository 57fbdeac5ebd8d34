package keywords

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const mlDocument = `
Machine learning is a branch of artificial intelligence and computer science which focuses on the use of data and algorithms to imitate the way that humans learn.
Machine learning algorithms build a model based on sample data, known as training data, to make predictions or decisions without being explicitly programmed to do so.
Deep learning is a type of machine learning based on artificial neural networks. The learning process is deep because the structure of artificial neural networks consists of multiple input, output, and hidden layers.
Neural networks can be used for supervised, semi-supervised, and unsupervised learning. Convolutional neural networks are commonly applied to analyzing visual imagery.
Natural language processing is a subfield of linguistics, computer science, and artificial intelligence concerned with the interactions between computers and human language.
`

func TestExtractEmptyText(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmYAKE, AlgorithmRAKE} {
		kws, err := Extract("   \n  ", Config{Algorithm: alg})
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if kws != nil {
			t.Errorf("%s: got %v, want nil", alg, kws)
		}
	}
}

func TestExtractUnknownAlgorithm(t *testing.T) {
	if _, err := Extract("some text", Config{Algorithm: "textrank"}); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

// Repeated runs must agree to the last bit, scores included. Map iteration
// order varies between runs, so any order-dependent float accumulation in
// the scorers shows up here as a diff in the low ulps.
func TestDeterminism(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmYAKE, AlgorithmRAKE} {
		cfg := Config{Algorithm: alg, MaxKeywords: 15}
		first, err := Extract(mlDocument, cfg)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		for i := 0; i < 200; i++ {
			again, err := Extract(mlDocument, cfg)
			if err != nil {
				t.Fatalf("%s run %d: %v", alg, i, err)
			}
			if diff := cmp.Diff(first, again); diff != "" {
				t.Fatalf("%s run %d differs (-first +again):\n%s", alg, i, diff)
			}
		}
	}
}

func TestMinScoreZeroAdmitsAll(t *testing.T) {
	all, err := Extract(mlDocument, Config{Algorithm: AlgorithmYAKE, MaxKeywords: 100})
	if err != nil {
		t.Fatal(err)
	}
	bounded, err := Extract(mlDocument, Config{Algorithm: AlgorithmYAKE, MaxKeywords: 100, MinScore: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < len(bounded) {
		t.Fatalf("unfiltered run returned %d keywords, filtered run %d", len(all), len(bounded))
	}
	for _, kw := range bounded {
		if kw.Score > 0.2 {
			t.Errorf("%q score %v exceeds the 0.2 bound", kw.Text, kw.Score)
		}
	}
}

func TestMaxKeywordsLimit(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmYAKE, AlgorithmRAKE} {
		kws, err := Extract(mlDocument, Config{Algorithm: alg, MaxKeywords: 3})
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if len(kws) > 3 {
			t.Errorf("%s: got %d keywords, want <= 3", alg, len(kws))
		}
	}
}

func TestRelevantTermsExtracted(t *testing.T) {
	relevant := []string{"machine learning", "artificial intelligence", "neural networks", "deep learning"}
	for _, alg := range []Algorithm{AlgorithmYAKE, AlgorithmRAKE} {
		kws, err := Extract(mlDocument, Config{Algorithm: alg, MaxKeywords: 15})
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if len(kws) == 0 {
			t.Fatalf("%s: no keywords extracted", alg)
		}
		found := false
		for _, kw := range kws {
			for _, term := range relevant {
				if strings.Contains(kw.Text, term) {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("%s: no relevant term among %v", alg, kws)
		}
	}
}

func TestTokenizeSentences(t *testing.T) {
	toks := tokenize("First one. Second here! Third now?")
	if len(toks) != 6 {
		t.Fatalf("got %d tokens: %v", len(toks), toks)
	}
	wantSentences := []int{0, 0, 1, 1, 2, 2}
	for i, tok := range toks {
		if tok.sentence != wantSentences[i] {
			t.Errorf("token %q: sentence %d, want %d", tok.text, tok.sentence, wantSentences[i])
		}
	}
}

func TestStopwordsFallback(t *testing.T) {
	tests := []struct {
		language string
		word     string
	}{
		{"en", "the"},
		{"eng", "the"},
		{"english", "the"},
		{"de", "und"},
		{"deu", "und"},
		{"fr", "les"},
		{"es", "para"},
		{"xx", "the"}, // unknown falls back to English
		{"", "the"},
	}
	for _, tt := range tests {
		if !stopwordsFor(tt.language)[tt.word] {
			t.Errorf("stopwordsFor(%q): %q should be a stop word", tt.language, tt.word)
		}
	}
}
