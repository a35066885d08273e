package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagedoc/docchat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPages_PagesAreAtomic(t *testing.T) {
	pages := []string{"aaaa", "bbbb", "cccc"}

	chunks := PackPages(pages, 8)
	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaabbbb", chunks[0].Text)
	assert.Equal(t, "cccc", chunks[1].Text)
}

func TestPackPages_OversizedPageGetsOwnChunk(t *testing.T) {
	pages := []string{"tiny", strings.Repeat("x", 50), "tiny"}

	chunks := PackPages(pages, 10)
	require.Len(t, chunks, 3)
	assert.Equal(t, "tiny", chunks[0].Text)
	assert.Equal(t, strings.Repeat("x", 50), chunks[1].Text, "a page is never split")
	assert.Equal(t, "tiny", chunks[2].Text)
}

func TestPackPages_IndicesAreSequential(t *testing.T) {
	pages := []string{"aaaa", "bbbb", "cccc"}

	chunks := PackPages(pages, 4)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.NotZero(t, chunk.Id, "chunk IDs are content-derived")
	}
}

func TestPackPages_EmptyInput(t *testing.T) {
	assert.Empty(t, PackPages(nil, 100))
	assert.Empty(t, PackPages([]string{"", ""}, 100), "blank pages produce no chunks")
}

func TestPackPages_ZeroBudgetUsesDefault(t *testing.T) {
	chunks := PackPages([]string{"some text"}, 0)
	require.Len(t, chunks, 1)
	assert.Equal(t, "some text", chunks[0].Text)
}

func TestTextFile_SplitsOnFormFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("page one\fpage two\fpage three"), 0644))

	pages, err := TextFile{}.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"page one", "page two", "page three"}, pages)
}

func TestTextFile_NoFormFeedIsSinglePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("just one page"), 0644))

	pages, err := TextFile{}.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"just one page"}, pages)
}

func TestTextFile_MissingFile(t *testing.T) {
	_, err := TextFile{}.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestTextFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := TextFile{}.Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
}
