package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagedoc/docchat/ai"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/engine"
	"github.com/sagedoc/docchat/retrieval"
)

const stepProcessChat = "process_chat_question"

// DefaultTopK is the number of chunks retrieved per chat turn.
const DefaultTopK = 4

// Chat answers one question from retrieved chunks, the conversation so far,
// and the document's summary and FAQs, appending the exchange to the
// history. The single stage runs at most once per state: an already-present
// response makes re-entry a no-op with zero collaborator calls.
type Chat struct {
	completer ai.Completer
	embedder  ai.Embedder
	topK      int
	retry     Retry
	logger    *slog.Logger
}

// ChatOption configures a Chat pipeline.
type ChatOption func(*Chat) error

// WithTopK sets how many chunks are retrieved per question.
// Default is DefaultTopK.
func WithTopK(k int) ChatOption {
	return func(p *Chat) error {
		if k > 0 {
			p.topK = k
		}
		return nil
	}
}

// WithChatRetry sets the collaborator retry policy.
func WithChatRetry(retry Retry) ChatOption {
	return func(p *Chat) error {
		if retry.MaxAttempts > 0 {
			p.retry = retry
		}
		return nil
	}
}

// WithChatLogger sets a custom logger.
// Default is slog.Default().
func WithChatLogger(logger *slog.Logger) ChatOption {
	return func(p *Chat) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewChat creates a new chat pipeline.
func NewChat(completer ai.Completer, embedder ai.Embedder, opts ...ChatOption) (*Chat, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Chat{
		completer: completer,
		embedder:  embedder,
		topK:      DefaultTopK,
		retry:     DefaultRetry(),
		logger:    slog.Default().With("component", "chat-pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run executes the pipeline on a prepared chat state. The caller seeds the
// state with the session's chunks, summary, FAQs, and history; on success
// the state carries the response, cited sources, the assembled retrieval
// context, and the extended history.
func (p *Chat) Run(ctx context.Context, state *ChatState) (*ChatState, error) {
	stages := map[string]engine.Stage[*ChatState]{
		stepProcessChat: p.processChatQuestion,
	}

	err := engine.Run(ctx, state, stages, routeChat)
	return state, err
}

// routeChat is terminal once a response exists for the current question, or
// when there is no question to answer.
func routeChat(s *ChatState) string {
	if s.Query != "" && s.Response == "" {
		return stepProcessChat
	}
	return engine.Terminal
}

// processChatQuestion retrieves context, asks the completion collaborator,
// and appends the user and assistant turns to the history.
func (p *Chat) processChatQuestion(ctx context.Context, s *ChatState) error {
	if len(s.Chunks) == 0 {
		return fmt.Errorf("%w: no document chunks available", core.ErrEmptyInput)
	}

	// Build the retrieval index unless the caller seeded a prebuilt one
	if s.Index == nil {
		p.logger.Info("building retrieval index", "chunks", len(s.Chunks))
		corpus := make([]retrieval.Document, len(s.Chunks))
		for i, chunk := range s.Chunks {
			corpus[i] = retrieval.Document{ID: chunk.Label(), Text: chunk.Text}
		}

		var index *retrieval.Index
		err := RetryWithBackoff(ctx, func() error {
			var buildErr error
			index, buildErr = retrieval.BuildIndex(ctx, p.embedder, corpus)
			return buildErr
		}, p.retry.MaxAttempts, p.retry.BaseDelay)
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrCollaborator, err)
		}
		s.Index = index
	}

	var retrieved []retrieval.Document
	err := RetryWithBackoff(ctx, func() error {
		var searchErr error
		retrieved, searchErr = s.Index.Search(ctx, s.Query, p.topK)
		return searchErr
	}, p.retry.MaxAttempts, p.retry.BaseDelay)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrCollaborator, err)
	}

	sources := make([]string, len(retrieved))
	for i, doc := range retrieved {
		sources[i] = doc.Text
	}

	prompt, err := chatPrompt.Format(map[string]any{
		"context":          retrievalContext(s.Summary, s.FAQs, sources),
		"chat_history":     formatHistory(s.History),
		"current_question": s.Query,
	})
	if err != nil {
		return err
	}

	response, err := complete(ctx, p.completer, p.retry, prompt)
	if err != nil {
		return err
	}

	// User turn first, then the assistant's answer
	s.History = append(s.History,
		core.ConversationTurn{Role: core.RoleUser, Content: s.Query},
		core.ConversationTurn{Role: core.RoleAssistant, Content: response},
	)
	s.Response = response
	s.Sources = sources
	s.Context = retrievalContext(s.Summary, s.FAQs, sources)
	return nil
}

// retrievalContext assembles the ephemeral per-turn context: summary block,
// formatted FAQ block, then the retrieved chunk texts. It is returned to
// the caller for display and never persisted.
func retrievalContext(summary string, faqs []core.FAQ, sources []string) string {
	var b strings.Builder
	b.WriteString("Document Summary:\n")
	b.WriteString(summary)
	b.WriteString("\n\nRelevant FAQs:\n")
	for _, faq := range faqs {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", faq.Question, faq.Answer)
	}
	b.WriteString("\nRelevant Document Chunks:\n")
	b.WriteString(strings.Join(sources, "\n\n"))
	return b.String()
}

// formatHistory renders the conversation history chronologically for the
// completion prompt.
func formatHistory(history []core.ConversationTurn) string {
	if len(history) == 0 {
		return "(no prior conversation)"
	}
	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Role.String())
		b.WriteString(": ")
		b.WriteString(turn.Content)
	}
	return b.String()
}
