package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// MaxFeatures caps the number of terms kept in the per-call vocabulary.
const MaxFeatures = 5000

// ScoreSimilarity returns the TF-IDF cosine similarity of jobText against every
// candidate text, in candidate order. The vocabulary is fitted on the job text
// plus all candidate texts and lives only for the duration of the call.
func ScoreSimilarity(jobText string, candidateTexts []string) []float64 {
	docs := make([][]string, 0, len(candidateTexts)+1)
	docs = append(docs, terms(NormalizeText(jobText)))
	for _, text := range candidateTexts {
		docs = append(docs, terms(NormalizeText(text)))
	}

	scores := make([]float64, len(candidateTexts))

	vocab := fitVocabulary(docs, MaxFeatures)
	if len(vocab.index) == 0 {
		return scores
	}

	job := vocab.transform(docs[0])
	for i := range candidateTexts {
		scores[i] = cosine(job, vocab.transform(docs[i+1]))
	}

	return scores
}

// terms splits a normalized document into unigrams and bigrams. Tokens shorter
// than two letters and stop-words are dropped before bigrams are formed.
func terms(doc string) []string {
	tokens := make([]string, 0)
	for _, tok := range strings.Fields(doc) {
		if len(tok) < 2 || IsStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

type vocabulary struct {
	index map[string]int
	idf   []float64
}

func fitVocabulary(docs [][]string, limit int) *vocabulary {
	freq := make(map[string]int)
	docFreq := make(map[string]int)
	order := make([]string, 0)

	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := freq[term]; !ok {
				order = append(order, term)
			}
			freq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	if limit > 0 && len(order) > limit {
		slices.SortStableFunc(order, func(a, b string) int {
			return cmp.Compare(freq[b], freq[a])
		})
		order = order[:limit]
	}

	n := float64(len(docs))
	v := &vocabulary{
		index: make(map[string]int, len(order)),
		idf:   make([]float64, len(order)),
	}
	for i, term := range order {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return v
}

// transform returns the L2-normalized TF-IDF weights of doc as a sparse vector.
func (v *vocabulary) transform(doc []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range doc {
		if idx, ok := v.index[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx, tf := range vec {
		w := tf * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}

	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

func cosine(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}

	return math.Max(0, math.Min(1, dot))
}
