package retrieval

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/sagedoc/docchat/ai"
)

// Document is one entry of a retrieval corpus: a stable source label plus
// the text it identifies.
type Document struct {
	ID   string
	Text string
}

// Searcher returns the top-k corpus documents most relevant to a query,
// ranked by similarity with ties broken by corpus order.
type Searcher interface {
	Search(ctx context.Context, query string, corpus []Document, k int) ([]Document, error)
}

// Index is a prebuilt similarity index over a fixed corpus. Building embeds
// every document once; searches only embed the query. An Index is immutable
// after construction and safe for concurrent searches.
type Index struct {
	embedder ai.Embedder
	docs     []Document
	vectors  [][]float32
	logger   *slog.Logger
}

// BuildIndex embeds the corpus and returns a searchable index over it.
func BuildIndex(ctx context.Context, embedder ai.Embedder, corpus []Document) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	texts := make([]string, len(corpus))
	for i, doc := range corpus {
		texts[i] = doc.Text
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(corpus) {
		return nil, ErrVectorCountMismatch
	}

	docs := make([]Document, len(corpus))
	copy(docs, corpus)

	return &Index{
		embedder: embedder,
		docs:     docs,
		vectors:  vectors,
		logger:   slog.Default().With("component", "retrieval-index"),
	}, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search embeds the query and returns the top-k documents by cosine
// similarity. Ties keep corpus order; k larger than the corpus returns the
// whole corpus ranked.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVector, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		ix.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	scores := make([]float64, len(ix.vectors))
	for i, vector := range ix.vectors {
		scores[i] = cosineSimilarity(queryVector, vector)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps corpus order for equal scores
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]Document, 0, k)
	for _, idx := range order[:k] {
		results = append(results, ix.docs[idx])
	}
	return results, nil
}

// EmbeddingSearcher implements Searcher by building a throwaway index per
// call. Callers that query the same corpus repeatedly should build an Index
// once and reuse it instead.
type EmbeddingSearcher struct {
	embedder ai.Embedder
}

var _ Searcher = (*EmbeddingSearcher)(nil)

// NewEmbeddingSearcher creates a searcher backed by the given embedder.
func NewEmbeddingSearcher(embedder ai.Embedder) (*EmbeddingSearcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &EmbeddingSearcher{embedder: embedder}, nil
}

// Search builds an index over the corpus and queries it once.
func (s *EmbeddingSearcher) Search(ctx context.Context, query string, corpus []Document, k int) ([]Document, error) {
	index, err := BuildIndex(ctx, s.embedder, corpus)
	if err != nil {
		return nil, err
	}
	return index.Search(ctx, query, k)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths compare over the shorter prefix; zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
