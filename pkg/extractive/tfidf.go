package extractive

import (
	"math"
	"sort"
)

// matrix is a sparse sentence-by-term weight matrix. Row i holds the weights
// of sentence i keyed by term.
type matrix struct {
	vocabulary []string
	rows       []map[string]float64
}

// buildMatrix computes L2-normalized TF-IDF rows for the tokenized sentences.
//
//   - tf(t, s)  = raw count of t in s
//   - idf(t)    = ln((1 + N) / (1 + df(t))) + 1
//   - w(t, s)   = tf(t, s) * idf(t), then each row is scaled to unit length
//
// N counts every sentence, including those without tokens. Rows without any
// token stay empty. The vocabulary is returned sorted.
func buildMatrix(tokenized [][]string) matrix {
	df := make(map[string]int)
	counts := make([]map[string]int, len(tokenized))
	for i, tokens := range tokenized {
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for t := range tf {
			df[t]++
		}
		counts[i] = tf
	}

	vocabulary := make([]string, 0, len(df))
	for t := range df {
		vocabulary = append(vocabulary, t)
	}
	sort.Strings(vocabulary)

	n := float64(len(tokenized))
	idf := make(map[string]float64, len(df))
	for t, d := range df {
		idf[t] = smoothIDF(n, float64(d))
	}

	rows := make([]map[string]float64, len(tokenized))
	for i, tf := range counts {
		row := make(map[string]float64, len(tf))
		for t, c := range tf {
			row[t] = float64(c) * idf[t]
		}
		normalizeL2(row)
		rows[i] = row
	}

	return matrix{vocabulary: vocabulary, rows: rows}
}

// smoothIDF returns ln((1+n)/(1+df)) + 1.
func smoothIDF(n, df float64) float64 {
	return math.Log((1+n)/(1+df)) + 1
}

// normalizeL2 scales row in place to unit Euclidean length.
// A zero row is left unchanged.
func normalizeL2(row map[string]float64) {
	var sumSquares float64
	for _, w := range row {
		sumSquares += w * w
	}
	if sumSquares == 0 {
		return
	}
	norm := math.Sqrt(sumSquares)
	for t, w := range row {
		row[t] = w / norm
	}
}

// rowSum adds the weights of row i in ascending term order, so that rows
// holding the same weights always produce bit-identical sums.
func (m matrix) rowSum(i int) float64 {
	row := m.rows[i]
	terms := make([]string, 0, len(row))
	for t := range row {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	var sum float64
	for _, t := range terms {
		sum += row[t]
	}
	return sum
}
