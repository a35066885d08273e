package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sagedoc/docchat/ai"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/engine"
	"github.com/sagedoc/docchat/extract"
)

// Document pipeline step names.
const (
	stepExtract   = "extract_text"
	stepSummarize = "summarize_chunks"
	stepCombine   = "combine_summaries"
)

// Document turns a raw document reference into ordered chunks and a final
// summary: extraction with page-atomic chunk packing, one summary per chunk
// (fanned out on a worker pool, all-or-nothing), then combination.
type Document struct {
	extractor     extract.Extractor
	completer     ai.Completer
	pool          *ants.Pool
	maxChunkChars int
	retry         Retry
	logger        *slog.Logger
}

// DocumentOption configures a Document pipeline.
type DocumentOption func(*Document) error

// WithDocumentPoolSize sets the worker pool size for per-chunk summarization.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithDocumentPoolSize(size int) DocumentOption {
	return func(p *Document) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithMaxChunkChars sets the per-chunk character budget for packing.
// Default is extract.DefaultMaxChunkChars.
func WithMaxChunkChars(maxChars int) DocumentOption {
	return func(p *Document) error {
		if maxChars > 0 {
			p.maxChunkChars = maxChars
		}
		return nil
	}
}

// WithDocumentRetry sets the collaborator retry policy.
func WithDocumentRetry(retry Retry) DocumentOption {
	return func(p *Document) error {
		if retry.MaxAttempts > 0 {
			p.retry = retry
		}
		return nil
	}
}

// WithDocumentLogger sets a custom logger.
// Default is slog.Default().
func WithDocumentLogger(logger *slog.Logger) DocumentOption {
	return func(p *Document) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewDocument creates a new document pipeline.
func NewDocument(extractor extract.Extractor, completer ai.Completer, opts ...DocumentOption) (*Document, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Document{
		extractor:     extractor,
		completer:     completer,
		pool:          pool,
		maxChunkChars: extract.DefaultMaxChunkChars,
		retry:         DefaultRetry(),
		logger:        slog.Default().With("component", "document-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Document) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Run executes the pipeline for one document reference. The returned state
// always carries whatever was produced before a failure; the error mirrors
// the state's failure.
func (p *Document) Run(ctx context.Context, documentRef string) (*DocumentState, error) {
	state := &DocumentState{DocumentRef: documentRef}

	stages := map[string]engine.Stage[*DocumentState]{
		stepExtract:   p.extractText,
		stepSummarize: p.summarizeChunks,
		stepCombine:   p.combineSummaries,
	}

	err := engine.Run(ctx, state, stages, routeDocument)
	return state, err
}

// routeDocument progresses strictly left-to-right, skipping any field that
// is already populated.
func routeDocument(s *DocumentState) string {
	switch {
	case len(s.Chunks) == 0:
		return stepExtract
	case len(s.Summaries) == 0:
		return stepSummarize
	case s.FinalSummary == "":
		return stepCombine
	default:
		return engine.Terminal
	}
}

// extractText extracts page texts and packs them into chunks.
func (p *Document) extractText(ctx context.Context, s *DocumentState) error {
	p.logger.Info("extracting text", "documentRef", s.DocumentRef)

	pages, err := p.extractor.Extract(ctx, s.DocumentRef)
	if err != nil {
		if errors.Is(err, core.ErrExtraction) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrExtraction, err)
	}

	chunks := extract.PackPages(pages, p.maxChunkChars)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: document produced no text", core.ErrExtraction)
	}

	p.logger.Info("split document into chunks", "count", len(chunks))
	s.Chunks = chunks
	return nil
}

// summarizeChunks generates one summary per chunk on the worker pool.
// A failure on any chunk aborts the stage; no partial summaries are kept.
func (p *Document) summarizeChunks(ctx context.Context, s *DocumentState) error {
	summaries := make([]string, len(s.Chunks))
	errs := make([]error, len(s.Chunks))

	var wg sync.WaitGroup
	for i, chunk := range s.Chunks {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			prompt, err := summaryPrompt.Format(map[string]any{"text": chunk.Text})
			if err != nil {
				errs[i] = err
				return
			}
			summaries[i], errs[i] = complete(ctx, p.completer, p.retry, prompt)
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("summarizing chunk %d: %w", i, err)
		}
	}

	s.Summaries = summaries
	return nil
}

// combineSummaries merges per-chunk summaries into the final summary. A
// single summary passes through unchanged with no model call.
func (p *Document) combineSummaries(ctx context.Context, s *DocumentState) error {
	if len(s.Summaries) == 1 {
		s.FinalSummary = s.Summaries[0]
		return nil
	}

	prompt, err := combinePrompt.Format(map[string]any{
		"summaries": strings.Join(s.Summaries, "\n\n"),
	})
	if err != nil {
		return err
	}

	finalSummary, err := complete(ctx, p.completer, p.retry, prompt)
	if err != nil {
		return err
	}

	s.FinalSummary = finalSummary
	return nil
}
