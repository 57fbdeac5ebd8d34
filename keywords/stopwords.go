package keywords

import "strings"

// stopwordLists holds the built-in stop-word lists keyed by ISO 639-1 code.
// English is the fallback for unknown languages.
var stopwordLists = map[string][]string{
	"en": {
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
		"any", "are", "aren't", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "can't", "cannot", "could",
		"couldn't", "did", "didn't", "do", "does", "doesn't", "doing", "don't", "down",
		"during", "each", "few", "for", "from", "further", "had", "hadn't", "has",
		"hasn't", "have", "haven't", "having", "he", "he'd", "he'll", "he's", "her",
		"here", "here's", "hers", "herself", "him", "himself", "his", "how", "how's",
		"i", "i'd", "i'll", "i'm", "i've", "if", "in", "into", "is", "isn't", "it",
		"it's", "its", "itself", "let's", "me", "more", "most", "mustn't", "my",
		"myself", "no", "nor", "not", "of", "off", "on", "once", "only", "or", "other",
		"ought", "our", "ours", "ourselves", "out", "over", "own", "same", "shan't",
		"she", "she'd", "she'll", "she's", "should", "shouldn't", "so", "some", "such",
		"than", "that", "that's", "the", "their", "theirs", "them", "themselves",
		"then", "there", "there's", "these", "they", "they'd", "they'll", "they're",
		"they've", "this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "wasn't", "we", "we'd", "we'll", "we're", "we've", "were",
		"weren't", "what", "what's", "when", "when's", "where", "where's", "which",
		"while", "who", "who's", "whom", "why", "why's", "with", "won't", "would",
		"wouldn't", "you", "you'd", "you'll", "you're", "you've", "your", "yours",
		"yourself", "yourselves", "also", "just", "like", "may", "might", "must",
		"one", "shall", "since", "still", "us", "will",
	},
	"de": {
		"aber", "als", "am", "an", "auch", "auf", "aus", "bei", "bin", "bis", "bist",
		"da", "damit", "dann", "das", "dass", "dein", "dem", "den", "der", "des",
		"dessen", "die", "dies", "diese", "dieser", "dieses", "doch", "dort", "du",
		"durch", "ein", "eine", "einem", "einen", "einer", "eines", "er", "es", "euer",
		"eure", "für", "hatte", "hatten", "hier", "hinter", "ich", "ihr", "ihre", "im",
		"in", "ist", "ja", "jede", "jedem", "jeden", "jeder", "jedes", "kann", "kein",
		"können", "mein", "mit", "muss", "nach", "nicht", "noch", "nun", "nur", "ob",
		"oder", "schon", "sein", "seine", "sich", "sie", "sind", "so", "soll", "über",
		"um", "und", "uns", "unser", "unter", "vom", "von", "vor", "war", "waren",
		"warum", "was", "weiter", "weitere", "wenn", "wer", "werde", "werden", "wie",
		"wieder", "will", "wir", "wird", "wirst", "wo", "zu", "zum", "zur",
	},
	"fr": {
		"a", "afin", "ai", "ainsi", "alors", "au", "aucun", "aussi", "autre", "aux",
		"avec", "car", "ce", "cela", "ces", "cet", "cette", "ceux", "chaque", "ci",
		"comme", "dans", "de", "des", "donc", "dont", "du", "elle", "elles", "en",
		"encore", "est", "et", "eu", "il", "ils", "je", "la", "le", "les", "leur",
		"leurs", "lui", "ma", "mais", "me", "même", "mes", "moi", "mon", "ne", "ni",
		"nos", "notre", "nous", "on", "ont", "ou", "où", "par", "pas", "peu", "plus",
		"pour", "quand", "que", "quel", "quelle", "quels", "qui", "sa", "sans", "se",
		"ses", "si", "son", "sont", "sous", "sur", "ta", "te", "tes", "toi", "ton",
		"tous", "tout", "toute", "toutes", "tu", "un", "une", "vos", "votre", "vous",
	},
	"es": {
		"a", "al", "algo", "algunas", "algunos", "ante", "antes", "como", "con",
		"contra", "cual", "cuando", "de", "del", "desde", "donde", "durante", "e",
		"el", "ella", "ellas", "ellos", "en", "entre", "era", "es", "esa", "esas",
		"ese", "eso", "esos", "esta", "estas", "este", "esto", "estos", "fue", "ha",
		"hasta", "hay", "la", "las", "le", "les", "lo", "los", "más", "me", "mi",
		"mis", "mucho", "muy", "nada", "ni", "no", "nos", "nosotros", "o", "os",
		"otra", "otras", "otro", "otros", "para", "pero", "poco", "por", "porque",
		"que", "quien", "se", "ser", "si", "sin", "sobre", "son", "su", "sus",
		"también", "te", "tiene", "todo", "todos", "tu", "tus", "un", "una", "uno",
		"unos", "y", "ya", "yo",
	},
}

var stopwordSets = func() map[string]map[string]bool {
	sets := make(map[string]map[string]bool, len(stopwordLists))
	for lang, words := range stopwordLists {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[w] = true
		}
		sets[lang] = set
	}
	return sets
}()

// stopwordsFor returns the stop-word set for a language code. Accepts ISO
// 639-1 ("en"), ISO 639-3 ("eng"), and English names ("english"); unknown
// languages fall back to English.
func stopwordsFor(language string) map[string]bool {
	lang := strings.ToLower(strings.TrimSpace(language))
	switch lang {
	case "eng", "english":
		lang = "en"
	case "deu", "ger", "german":
		lang = "de"
	case "fra", "fre", "french":
		lang = "fr"
	case "spa", "spanish":
		lang = "es"
	}
	if set, ok := stopwordSets[lang]; ok {
		return set
	}
	return stopwordSets["en"]
}
