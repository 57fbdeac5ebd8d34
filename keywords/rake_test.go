package keywords

import (
	"strings"
	"testing"
)

func TestRakeScoreRangeAndOrder(t *testing.T) {
	kws, err := Extract(mlDocument, Config{Algorithm: AlgorithmRAKE, MaxKeywords: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(kws) == 0 {
		t.Fatal("no keywords")
	}
	for i, kw := range kws {
		if kw.Score < 0 {
			t.Errorf("keyword %q: negative score %f", kw.Text, kw.Score)
		}
		if i > 0 && kws[i-1].Score < kw.Score {
			t.Errorf("order: %q (%f) before %q (%f), want descending",
				kws[i-1].Text, kws[i-1].Score, kw.Text, kw.Score)
		}
	}
}

func TestRakeMinScoreLowerBound(t *testing.T) {
	kws, err := Extract(mlDocument, Config{Algorithm: AlgorithmRAKE, MaxKeywords: 50, MinScore: 4.0})
	if err != nil {
		t.Fatal(err)
	}
	for _, kw := range kws {
		if kw.Score < 4.0 {
			t.Errorf("keyword %q: score %f below bound 4.0", kw.Text, kw.Score)
		}
	}
}

func TestRakePhraseDelimiting(t *testing.T) {
	// "of" and "the" are stop words, so they must never appear inside phrases.
	kws, err := Extract(mlDocument, Config{Algorithm: AlgorithmRAKE, MaxKeywords: 50})
	if err != nil {
		t.Fatal(err)
	}
	for _, kw := range kws {
		for _, w := range strings.Fields(kw.Text) {
			if stopwordsFor("en")[w] {
				t.Errorf("phrase %q contains stop word %q", kw.Text, w)
			}
		}
	}
}

func TestRakeMaxWordsPerPhrase(t *testing.T) {
	kws, err := Extract(mlDocument, Config{
		Algorithm: AlgorithmRAKE,
		Rake:      RakeParams{MaxWordsPerPhrase: 2, MinWordLength: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, kw := range kws {
		if n := len(strings.Fields(kw.Text)); n > 2 {
			t.Errorf("phrase %q: %d words, want <= 2", kw.Text, n)
		}
	}
}

func TestRakeMinWordLength(t *testing.T) {
	kws, err := Extract("an ox ate the tall green grass near a big old barn", Config{
		Algorithm: AlgorithmRAKE,
		Rake:      RakeParams{MinWordLength: 4, MaxWordsPerPhrase: 4},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, kw := range kws {
		for _, w := range strings.Fields(kw.Text) {
			if len(w) < 4 {
				t.Errorf("phrase %q contains short word %q", kw.Text, w)
			}
		}
	}
}

func TestRakeMultiWordPhrasesScoreHigher(t *testing.T) {
	// Classic RAKE property: longer co-occurring phrases accumulate degree and
	// outscore isolated single words.
	text := "Linear diophantine equations appear often. Linear diophantine equations have integer solutions. Criteria matter."
	kws, err := Extract(text, Config{Algorithm: AlgorithmRAKE, MaxKeywords: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(kws) == 0 {
		t.Fatal("no keywords")
	}
	if !strings.Contains(kws[0].Text, "diophantine") {
		t.Errorf("top phrase %q, want the diophantine phrase first", kws[0].Text)
	}
}
