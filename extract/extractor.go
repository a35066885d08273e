// Package extract defines the text-extraction collaborator contract and the
// page-atomic chunk packing the document pipeline applies to its output.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sagedoc/docchat/core"
)

// DefaultMaxChunkChars is the default per-chunk character budget.
const DefaultMaxChunkChars = 4000

// Extractor turns a document reference into an ordered sequence of page
// texts. Page splitting is the extractor's concern; chunk packing is not.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// Extract returns the document's pages in order.
	// Returns an error if the source is unreadable or corrupt.
	Extract(ctx context.Context, documentRef string) ([]string, error)
}

// PackPages packs page texts into chunks of at most maxChars characters,
// splitting only at page boundaries. A chunk never breaks a page apart but
// may hold several pages if they fit; a single page larger than the budget
// becomes a chunk on its own. Empty pages are carried along with their
// neighbors.
func PackPages(pages []string, maxChars int) []core.Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	var chunks []core.Chunk
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, core.NewChunk(len(chunks), current.String()))
			current.Reset()
		}
	}

	for _, page := range pages {
		if current.Len()+len(page) > maxChars {
			flush()
		}
		current.WriteString(page)
	}
	flush()

	return chunks
}

// TextFile is an Extractor for plain-text documents. Form feeds mark page
// boundaries; a file without form feeds is a single page. It stands in for
// an external PDF extraction service in local and test setups.
type TextFile struct{}

var _ Extractor = TextFile{}

// Extract reads the file and splits it into pages on form-feed characters.
func (TextFile) Extract(ctx context.Context, documentRef string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(documentRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrExtraction, documentRef, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", core.ErrExtraction, documentRef)
	}

	return strings.Split(string(data), "\f"), nil
}
