// Copyright 2025 Sagedoc Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docchat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagedoc/docchat/ai"
	"github.com/sagedoc/docchat/ai/openai"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/extract"
	"github.com/sagedoc/docchat/pipeline"
	"github.com/sagedoc/docchat/session"
	"github.com/sagedoc/docchat/spell"
	"github.com/sagedoc/docchat/storage/badger"
)

// Service is the top-level entry point: it owns the session manager, the AI
// provider, and the pipelines, and orchestrates them per session. Methods
// holding a session's lock never call another Service method that takes it.
type Service struct {
	backend      *badger.Backend
	sessions     *session.Manager
	provider     ai.Provider
	docPipeline  *pipeline.Document
	faqPipeline  *pipeline.FAQ
	chatPipeline *pipeline.Chat
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig      *ai.Config
	extractor     extract.Extractor
	inMemory      bool
	topK          int
	maxChunkChars int
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithExtractor sets the document text extractor.
// Default is the plain-text file extractor.
func WithExtractor(extractor extract.Extractor) ServiceOption {
	return func(o *serviceOptions) {
		if extractor != nil {
			o.extractor = extractor
		}
	}
}

// WithInMemoryStorage keeps sessions in memory instead of on disk.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithRetrievalTopK sets how many chunks are retrieved per chat question.
func WithRetrievalTopK(k int) ServiceOption {
	return func(o *serviceOptions) {
		if k > 0 {
			o.topK = k
		}
	}
}

// WithMaxChunkChars sets the per-chunk character budget for document
// packing. Default is extract.DefaultMaxChunkChars.
func WithMaxChunkChars(maxChars int) ServiceOption {
	return func(o *serviceOptions) {
		if maxChars > 0 {
			o.maxChunkChars = maxChars
		}
	}
}

// NewService creates a service with session storage at filePath.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:      ai.DefaultConfig(),
		extractor:     extract.TextFile{},
		topK:          pipeline.DefaultTopK,
		maxChunkChars: extract.DefaultMaxChunkChars,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewSessionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	sessions, err := session.NewManager(repo)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	service, err := newService(backend, sessions, provider, options)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}
	return service, nil
}

// newService wires the pipelines around preconstructed collaborators.
func newService(backend *badger.Backend, sessions *session.Manager, provider ai.Provider, options *serviceOptions) (*Service, error) {
	docPipeline, err := pipeline.NewDocument(options.extractor, provider.Completer(),
		pipeline.WithMaxChunkChars(options.maxChunkChars))
	if err != nil {
		return nil, err
	}

	faqPipeline, err := pipeline.NewFAQ(provider.Completer())
	if err != nil {
		docPipeline.Release()
		return nil, err
	}

	chatPipeline, err := pipeline.NewChat(provider.Completer(), provider.Embedder(),
		pipeline.WithTopK(options.topK))
	if err != nil {
		docPipeline.Release()
		return nil, err
	}

	return &Service{
		backend:      backend,
		sessions:     sessions,
		provider:     provider,
		docPipeline:  docPipeline,
		faqPipeline:  faqPipeline,
		chatPipeline: chatPipeline,
		logger:       slog.Default(),
	}, nil
}

// Close releases the pipelines, the AI provider, and the storage backend.
func (s *Service) Close() error {
	s.docPipeline.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.sessions.Close(); err != nil {
		s.logger.Error("error closing session manager", "err", err)
		return err
	}
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// Sessions exposes the session manager for direct lifecycle operations.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// CreateSession registers a new session for a document reference.
// Returns session.ErrDuplicate if the ID is already in use.
func (s *Service) CreateSession(ctx context.Context, id, documentRef string) (*core.SessionRecord, error) {
	return s.sessions.Create(ctx, id, documentRef)
}

// GetSession retrieves a session's current state.
func (s *Service) GetSession(ctx context.Context, id string) (*core.SessionRecord, error) {
	return s.sessions.Get(ctx, id)
}

// DeleteSession removes a session. Returns true if a session was removed.
func (s *Service) DeleteSession(ctx context.Context, id string) (bool, error) {
	return s.sessions.Delete(ctx, id)
}

// ListSessions returns the IDs of all sessions, sorted.
func (s *Service) ListSessions(ctx context.Context) ([]string, error) {
	return s.sessions.List(ctx)
}

// ProcessDocument runs document ingestion for the session: extraction,
// chunk packing, summarization, then FAQ generation. The summary is
// committed before FAQ generation starts, so a FAQ failure leaves the
// session with its chunks and summary intact.
func (s *Service) ProcessDocument(ctx context.Context, sessionID string) (*core.SessionRecord, error) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	record, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	docState, err := s.docPipeline.Run(ctx, record.DocumentRef)
	if err != nil {
		return nil, fmt.Errorf("processing document for session %s: %w", sessionID, err)
	}

	record, err = s.sessions.Update(ctx, sessionID, &core.SessionUpdate{
		Chunks:  docState.Chunks,
		Summary: &docState.FinalSummary,
	})
	if err != nil {
		return nil, err
	}

	// A fresh document invalidates any cached retrieval index
	s.sessions.SetHandle(sessionID, nil)

	faqState, err := s.faqPipeline.Run(ctx, record.Chunks)
	if err != nil {
		return record, fmt.Errorf("generating FAQs for session %s: %w", sessionID, err)
	}

	return s.sessions.Update(ctx, sessionID, &core.SessionUpdate{
		FAQs: faqState.FAQs,
	})
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	// Response is the assistant's answer.
	Response string
	// Sources are the retrieved chunk texts the answer drew on.
	Sources []string
	// Context is the assembled retrieval context shown to the model.
	// It is ephemeral and never persisted.
	Context string
}

// Ask answers a question within a session. The user turn and the answer are
// appended to the session's history on success; a failed turn leaves the
// history untouched.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*ChatResult, error) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	record, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := &pipeline.ChatState{
		Query:   question,
		Chunks:  record.Chunks,
		Summary: record.Summary,
		FAQs:    record.FAQs,
		History: record.History,
		Index:   s.sessions.Handle(sessionID),
	}

	state, err = s.chatPipeline.Run(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("answering question in session %s: %w", sessionID, err)
	}

	// The index is expensive to build; keep it for subsequent turns
	s.sessions.SetHandle(sessionID, state.Index)

	if _, err := s.sessions.Update(ctx, sessionID, &core.SessionUpdate{
		History: state.History,
	}); err != nil {
		return nil, err
	}

	return &ChatResult{
		Response: state.Response,
		Sources:  state.Sources,
		Context:  state.Context,
	}, nil
}

// RefineResult is the outcome of query refinement.
type RefineResult struct {
	// SpellChecked is the query after spelling and grammar correction.
	SpellChecked string
	// SubQueries are the simpler queries the original decomposes into.
	SubQueries []string
	// Hypotheses are the assumptions behind the query.
	Hypotheses []string
	// Improved is the final refined query.
	Improved string
}

// RefineQuery refines a raw query against a session's document. The spell
// dictionary is trained on the session's chunks so domain terms are not
// flagged as misspellings. The session itself is not modified.
func (s *Service) RefineQuery(ctx context.Context, sessionID, query string) (*RefineResult, error) {
	record, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	corpus := make([]string, len(record.Chunks))
	for i, chunk := range record.Chunks {
		corpus[i] = chunk.Text
	}

	refine, err := pipeline.NewRefine(spell.NewModelDictionary(corpus), s.provider.Completer())
	if err != nil {
		return nil, err
	}

	state, err := refine.Run(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("refining query in session %s: %w", sessionID, err)
	}

	return &RefineResult{
		SpellChecked: state.SpellChecked,
		SubQueries:   state.SubQueries,
		Hypotheses:   state.Hypotheses,
		Improved:     state.Improved,
	}, nil
}
