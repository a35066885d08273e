package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagedoc/docchat/ai"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/engine"
)

const stepGenerateFAQs = "generate_faqs"

// FAQ derives question/answer pairs from document chunks, one generation
// call per chunk, concatenated in chunk order without deduplication.
type FAQ struct {
	completer ai.Completer
	retry     Retry
	logger    *slog.Logger
}

// FAQOption configures a FAQ pipeline.
type FAQOption func(*FAQ) error

// WithFAQRetry sets the collaborator retry policy.
func WithFAQRetry(retry Retry) FAQOption {
	return func(p *FAQ) error {
		if retry.MaxAttempts > 0 {
			p.retry = retry
		}
		return nil
	}
}

// WithFAQLogger sets a custom logger.
// Default is slog.Default().
func WithFAQLogger(logger *slog.Logger) FAQOption {
	return func(p *FAQ) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewFAQ creates a new FAQ generation pipeline.
func NewFAQ(completer ai.Completer, opts ...FAQOption) (*FAQ, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	p := &FAQ{
		completer: completer,
		retry:     DefaultRetry(),
		logger:    slog.Default().With("component", "faq-pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run executes the pipeline over the given chunks.
func (p *FAQ) Run(ctx context.Context, chunks []core.Chunk) (*FAQState, error) {
	state := &FAQState{Chunks: chunks}

	stages := map[string]engine.Stage[*FAQState]{
		stepGenerateFAQs: p.generateFAQs,
	}

	err := engine.Run(ctx, state, stages, routeFAQ)
	return state, err
}

// routeFAQ runs generation once when chunks are present and FAQs have not
// been produced. A non-nil empty FAQ list counts as produced: a document may
// legitimately yield no entries.
func routeFAQ(s *FAQState) string {
	if len(s.Chunks) > 0 && s.FAQs == nil {
		return stepGenerateFAQs
	}
	return engine.Terminal
}

// generateFAQs requests FAQs per chunk and parses the Q:/A: line format.
func (p *FAQ) generateFAQs(ctx context.Context, s *FAQState) error {
	if len(s.Chunks) == 0 {
		return fmt.Errorf("%w: no document chunks available", core.ErrEmptyInput)
	}

	faqs := make([]core.FAQ, 0)
	for i, chunk := range s.Chunks {
		p.logger.Info("generating FAQs for chunk", "chunk", i+1, "total", len(s.Chunks))

		prompt, err := faqPrompt.Format(map[string]any{
			"section_title": chunk.Title(),
			"text":          chunk.Text,
		})
		if err != nil {
			return err
		}

		response, err := complete(ctx, p.completer, p.retry, prompt)
		if err != nil {
			return fmt.Errorf("generating FAQs for chunk %d: %w", i, err)
		}

		faqs = append(faqs, parseFAQs(response)...)
	}

	s.FAQs = faqs
	return nil
}

// parseFAQs scans response lines for Q:/A: markers. An answer accumulates
// continuation lines until the next Q: marker or the end of the response,
// where the last pending pair is flushed. Responses without markers yield
// zero entries, which is not an error.
func parseFAQs(response string) []core.FAQ {
	var faqs []core.FAQ
	var question string
	var answer []string

	flush := func() {
		if question != "" && len(answer) > 0 {
			faqs = append(faqs, core.FAQ{
				Question: question,
				Answer:   strings.Join(answer, "\n"),
			})
		}
	}

	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "Q:"):
			flush()
			question = strings.TrimSpace(line[2:])
			answer = nil
		case strings.HasPrefix(line, "A:"):
			answer = append(answer, strings.TrimSpace(line[2:]))
		default:
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				answer = append(answer, trimmed)
			}
		}
	}
	flush()

	return faqs
}
