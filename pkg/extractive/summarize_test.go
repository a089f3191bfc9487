package extractive_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/pkg/extractive"
)

// indonesian is a subset of the built-in Indonesian stop-word list.
var indonesian = extractive.NewStopWords(
	"dan", "di", "ke", "dari", "untuk", "yang", "pada", "dengan", "dalam", "atau",
)

func optsWith(topK int) extractive.Options {
	opts := extractive.DefaultOptions()
	opts.TopK = topK
	opts.StopWords = indonesian
	return opts
}

/* ───────── scenarios ───────── */

func TestSummarize_MarketScenario(t *testing.T) {
	doc := "Budi pergi ke pasar. Budi membeli buah. Ibu memasak di dapur."

	got, err := extractive.Summarize(doc, optsWith(2))
	require.NoError(t, err)

	// "Ibu memasak di dapur." has three terms with df=1 and scores sqrt(3);
	// the two "Budi" sentences tie just below it, so the first one wins.
	assert.Equal(t, "Ibu memasak di dapur.. Budi pergi ke pasar", got)
}

func TestRank_MarketScenarioScores(t *testing.T) {
	doc := "Budi pergi ke pasar. Budi membeli buah. Ibu memasak di dapur."

	res, err := extractive.Rank(doc, optsWith(2))
	require.NoError(t, err)
	require.Len(t, res.Ranked, 3)

	idfShared := math.Log(4.0/3.0) + 1
	idfUnique := math.Log(4.0/2.0) + 1
	wantBudi := (idfShared + 2*idfUnique) / math.Sqrt(idfShared*idfShared+2*idfUnique*idfUnique)

	assert.Equal(t, 2, res.Ranked[0].Index)
	assert.InDelta(t, math.Sqrt(3), res.Ranked[0].Score, 1e-12)
	assert.Equal(t, 0, res.Ranked[1].Index)
	assert.InDelta(t, wantBudi, res.Ranked[1].Score, 1e-12)
	assert.Equal(t, 1, res.Ranked[2].Index)
	assert.Equal(t, res.Ranked[1].Score, res.Ranked[2].Score, "tied rows must score identically")

	assert.Equal(t, 2, res.Selected)
	// budi pergi pasar membeli buah ibu memasak dapur
	assert.Equal(t, 8, res.VocabularySize)
}

func TestSummarize_OnlyStopWords(t *testing.T) {
	_, err := extractive.Summarize("yang dan atau", optsWith(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, extractive.ErrEmptyVocabulary))
}

func TestSummarize_EmptyDocument(t *testing.T) {
	_, err := extractive.Summarize("", optsWith(3))
	assert.ErrorIs(t, err, extractive.ErrEmptyVocabulary)
}

func TestSummarize_OnlyShortTokens(t *testing.T) {
	_, err := extractive.Summarize("a b c. d, e! 1 2", optsWith(3))
	assert.ErrorIs(t, err, extractive.ErrEmptyVocabulary)
}

func TestSummarize_TopKLargerThanSentenceCount(t *testing.T) {
	doc := "Kucing tidur di sofa. Anjing berlari di taman"

	got, err := extractive.Summarize(doc, optsWith(10))
	require.NoError(t, err)
	assert.Equal(t, doc, got, "both sentences tie, so original order is kept")
}

func TestSummarize_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		opts extractive.Options
	}{
		{"zero top_k", extractive.Options{TopK: 0, MinTokenLength: 2}},
		{"negative top_k", extractive.Options{TopK: -3, MinTokenLength: 2}},
		{"zero min_token_length", extractive.Options{TopK: 3, MinTokenLength: 0}},
		{"negative min_token_length", extractive.Options{TopK: 3, MinTokenLength: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractive.Summarize("Budi pergi ke pasar", tt.opts)
			assert.ErrorIs(t, err, extractive.ErrInvalidArgument)
			assert.NotErrorIs(t, err, extractive.ErrEmptyVocabulary)
		})
	}
}

/* ───────── properties ───────── */

const longDoc = "Pemerintah mengumumkan kebijakan energi baru. " +
	"Kebijakan energi ini mendorong penggunaan panel surya di rumah. " +
	"Harga panel surya turun dalam lima tahun terakhir. " +
	"Warga menyambut kebijakan tersebut dengan antusias. " +
	"Beberapa pakar meragukan target pemerintah. " +
	"Target pemerintah adalah dua puluh persen energi terbarukan"

func TestSummarize_Deterministic(t *testing.T) {
	first, err := extractive.Summarize(longDoc, optsWith(3))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		got, err := extractive.Summarize(longDoc, optsWith(3))
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestSummarize_BoundedOutput(t *testing.T) {
	n := len(extractive.SplitSentences(longDoc))

	for k := 1; k <= n+2; k++ {
		res, err := extractive.Rank(longDoc, optsWith(k))
		require.NoError(t, err)

		want := k
		if want > n {
			want = n
		}
		assert.Len(t, res.Sentences(), want)
		assert.Equal(t, want, len(strings.Split(res.Summary(), extractive.SentenceSeparator)))
	}
}

func TestSummarize_MonotonicTopK(t *testing.T) {
	n := len(extractive.SplitSentences(longDoc))

	prev, err := extractive.Summarize(longDoc, optsWith(1))
	require.NoError(t, err)

	for k := 2; k <= n; k++ {
		got, err := extractive.Summarize(longDoc, optsWith(k))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, prev+extractive.SentenceSeparator),
			"summary for k=%d should extend summary for k=%d", k, k-1)
		prev = got
	}

	exhausted, err := extractive.Summarize(longDoc, optsWith(n+5))
	require.NoError(t, err)
	assert.Equal(t, prev, exhausted)
}

func TestRank_StableOnTies(t *testing.T) {
	res, err := extractive.Rank("Apel merah. Apel merah. Apel merah", optsWith(3))
	require.NoError(t, err)

	for i, s := range res.Ranked {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, res.Ranked[0].Score, s.Score)
	}
}

func TestRank_SentenceWithoutTermsScoresZero(t *testing.T) {
	res, err := extractive.Rank("Pasar ramai. dan yang. Harga naik", optsWith(3))
	require.NoError(t, err)

	last := res.Ranked[len(res.Ranked)-1]
	assert.Equal(t, 1, last.Index)
	assert.Equal(t, "dan yang", last.Text)
	assert.Zero(t, last.Score)
}

func TestRank_CaseFolding(t *testing.T) {
	res, err := extractive.Rank("Budi makan nasi. budi tidur. BUDI bermain", optsWith(3))
	require.NoError(t, err)

	// budi makan nasi tidur bermain
	assert.Equal(t, 5, res.VocabularySize)
}

func TestRank_CaseFoldedStopWords(t *testing.T) {
	_, err := extractive.Summarize("Yang DAN Atau", optsWith(1))
	assert.ErrorIs(t, err, extractive.ErrEmptyVocabulary)
}

func TestRank_ScoreOrderNotDocumentOrder(t *testing.T) {
	// The last sentence has the most distinct terms and must come first.
	doc := "Hujan turun. Hujan turun lagi. Petani menanam padi jagung kedelai sayur"

	res, err := extractive.Rank(doc, optsWith(2))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Ranked[0].Index)
	assert.True(t, strings.HasPrefix(res.Summary(), "Petani menanam"))
}

func TestRank_MinTokenLength(t *testing.T) {
	opts := optsWith(3)
	opts.MinTokenLength = 5

	res, err := extractive.Rank("Budi pergi ke pasar besar", opts)
	require.NoError(t, err)
	// pergi pasar besar
	assert.Equal(t, 3, res.VocabularySize)

	opts.MinTokenLength = 10
	_, err = extractive.Rank("Budi pergi ke pasar besar", opts)
	assert.ErrorIs(t, err, extractive.ErrEmptyVocabulary)
}

func TestRank_NilStopWords(t *testing.T) {
	opts := extractive.DefaultOptions()

	res, err := extractive.Rank("yang dan atau", opts)
	require.NoError(t, err)
	assert.Equal(t, 3, res.VocabularySize)
	assert.Equal(t, "yang dan atau", res.Summary())
}
