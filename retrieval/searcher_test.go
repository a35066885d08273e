package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/sagedoc/docchat/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() []Document {
	return []Document{
		{ID: "chunk_0", Text: "alpha beta gamma"},
		{ID: "chunk_1", Text: "delta epsilon zeta"},
		{ID: "chunk_2", Text: "eta theta iota"},
	}
}

func TestBuildIndex_RequiresEmbedder(t *testing.T) {
	_, err := BuildIndex(context.Background(), nil, testCorpus())
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestBuildIndex_VectorCountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil // one vector for three docs
	}

	_, err := BuildIndex(context.Background(), embedder, testCorpus())
	assert.ErrorIs(t, err, ErrVectorCountMismatch)
}

func TestIndex_SearchExactMatchRanksFirst(t *testing.T) {
	// The mock embedder is deterministic per text, so the query that equals
	// a document embeds to the same vector and wins on cosine similarity.
	index, err := BuildIndex(context.Background(), mock.NewMockEmbedder(), testCorpus())
	require.NoError(t, err)
	require.Equal(t, 3, index.Len())

	results, err := index.Search(context.Background(), "delta epsilon zeta", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "chunk_1", results[0].ID)
}

func TestIndex_SearchKLargerThanCorpus(t *testing.T) {
	index, err := BuildIndex(context.Background(), mock.NewMockEmbedder(), testCorpus())
	require.NoError(t, err)

	results, err := index.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3, "k beyond the corpus returns the whole corpus ranked")
}

func TestIndex_SearchZeroK(t *testing.T) {
	index, err := BuildIndex(context.Background(), mock.NewMockEmbedder(), testCorpus())
	require.NoError(t, err)

	results, err := index.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndex_TiesKeepCorpusOrder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	same := []float32{1, 0, 0}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = same
		}
		return vectors, nil
	}
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return same, nil
	}

	index, err := BuildIndex(context.Background(), embedder, testCorpus())
	require.NoError(t, err)

	results, err := index.Search(context.Background(), "query", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "chunk_0", results[0].ID)
	assert.Equal(t, "chunk_1", results[1].ID)
	assert.Equal(t, "chunk_2", results[2].ID)
}

func TestIndex_QueryEmbeddingFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	index, err := BuildIndex(context.Background(), embedder, testCorpus())
	require.NoError(t, err)

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	_, err = index.Search(context.Background(), "query", 2)
	require.Error(t, err)
}

func TestEmbeddingSearcher_RequiresEmbedder(t *testing.T) {
	_, err := NewEmbeddingSearcher(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestEmbeddingSearcher_Search(t *testing.T) {
	searcher, err := NewEmbeddingSearcher(mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "eta theta iota", testCorpus(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk_2", results[0].ID)
}
