package pipeline

import (
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/engine"
	"github.com/sagedoc/docchat/retrieval"
)

// Pipeline states. Fields are populated monotonically: a stage sets fields
// and never clears them, so the routers' presence checks double as progress
// tracking. For list-valued fields, nil means "not produced yet" while an
// empty non-nil slice marks a completed stage with no entries.

// DocumentState threads the document pipeline: extraction, per-chunk
// summarization, and summary combination.
type DocumentState struct {
	engine.Fault
	DocumentRef  string
	Chunks       []core.Chunk
	Summaries    []string
	FinalSummary string
}

// FAQState threads the FAQ generation pipeline.
type FAQState struct {
	engine.Fault
	Chunks []core.Chunk
	FAQs   []core.FAQ
}

// QueryState threads the query refinement pipeline: spell check,
// decomposition, hypothesis identification, and improvement.
type QueryState struct {
	engine.Fault
	Query        string
	SpellChecked string
	SubQueries   []string
	Hypotheses   []string
	Improved     string
}

// ChatState threads one conversational turn. Index is the retrieval index
// over the session's chunks; a caller may seed it from a session handle to
// skip re-embedding the corpus, otherwise the chat stage builds it.
type ChatState struct {
	engine.Fault
	Query    string
	Chunks   []core.Chunk
	Summary  string
	FAQs     []core.FAQ
	History  []core.ConversationTurn
	Index    *retrieval.Index
	Response string
	Sources  []string
	Context  string
}
