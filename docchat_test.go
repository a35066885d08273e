package docchat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sagedoc/docchat/ai/mock"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/extract"
	"github.com/sagedoc/docchat/pipeline"
	"github.com/sagedoc/docchat/session"
	"github.com/sagedoc/docchat/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapRepo is a map-backed storage.SessionRepository for service tests.
type mapRepo struct {
	mu      sync.Mutex
	records map[string]*core.SessionRecord
}

var _ storage.SessionRepository = (*mapRepo)(nil)

func (r *mapRepo) AddSession(ctx context.Context, record *core.SessionRecord) (*core.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.Id]; ok {
		return nil, storage.ErrDuplicateKey
	}
	r.records[record.Id] = record.Clone()
	return record, nil
}

func (r *mapRepo) UpdateSession(ctx context.Context, record *core.SessionRecord) (*core.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.Id]; !ok {
		return nil, storage.ErrNotFound
	}
	r.records[record.Id] = record.Clone()
	return record, nil
}

func (r *mapRepo) GetSession(ctx context.Context, id string) (*core.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return record.Clone(), nil
}

func (r *mapRepo) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *mapRepo) ListSessionIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *mapRepo) Close() error { return nil }

// scriptedCompleter answers each pipeline prompt with a recognizable canned
// response.
func scriptedCompleter() *mock.MockCompleter {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Summarize the following text"):
			return "chunk summary", nil
		case strings.Contains(prompt, "Combine these summaries"):
			return "combined summary", nil
		case strings.Contains(prompt, "frequently asked questions"):
			return "Q: What is covered?\nA: The document contents.", nil
		case strings.Contains(prompt, "spelling and grammar"):
			return "clean query", nil
		case strings.Contains(prompt, "Decompose"):
			return "sub query", nil
		case strings.Contains(prompt, "Improve the following query"):
			return "improved query", nil
		case strings.Contains(prompt, "identify key hypotheses"):
			return "a hypothesis", nil
		case strings.Contains(prompt, "helpful assistant"):
			return "the chat answer", nil
		default:
			return "", fmt.Errorf("unexpected prompt: %.60s", prompt)
		}
	}
	return completer
}

func newTestService(t *testing.T) (*Service, *mock.MockCompleter) {
	t.Helper()

	repo := &mapRepo{records: make(map[string]*core.SessionRecord)}
	sessions, err := session.NewManager(repo)
	require.NoError(t, err)

	completer := scriptedCompleter()
	provider := mock.NewMockProviderWithServices(completer, mock.NewMockEmbedder())

	service, err := newService(nil, sessions, provider, &serviceOptions{
		extractor: extract.TextFile{},
		topK:      pipeline.DefaultTopK,
	})
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	return service, completer
}

func writeTestDoc(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(pages, "\f")), 0644))
	return path
}

func TestService_EndToEnd(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	doc := writeTestDoc(t, "page one about compliance", "page two about reporting")

	// Create and process
	_, err := service.CreateSession(ctx, "s1", doc)
	require.NoError(t, err)

	record, err := service.ProcessDocument(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, record.Chunks)
	assert.Equal(t, "chunk summary", record.Summary,
		"a single chunk's summary passes through unchanged")
	require.NotEmpty(t, record.FAQs)
	assert.Equal(t, "What is covered?", record.FAQs[0].Question)

	// First question
	result, err := service.Ask(ctx, "s1", "what is this about?")
	require.NoError(t, err)
	assert.Equal(t, "the chat answer", result.Response)
	assert.NotEmpty(t, result.Sources)
	assert.Contains(t, result.Context, "chunk summary")

	// Second question sees the first in history
	_, err = service.Ask(ctx, "s1", "tell me more")
	require.NoError(t, err)

	record, err = service.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, record.History, 4, "two turns, two entries each")
	assert.Equal(t, "what is this about?", record.History[0].Content)
	assert.Equal(t, core.RoleAssistant, record.History[3].Role)

	// Refine leaves the session untouched
	refined, err := service.RefineQuery(ctx, "s1", "what are teh requirments")
	require.NoError(t, err)
	assert.Equal(t, "improved query", refined.Improved)

	after, err := service.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, after.History, 4, "refinement must not modify the session")

	// Delete
	deleted, err := service.DeleteSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = service.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestService_DuplicateSession(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	doc := writeTestDoc(t, "some content")

	_, err := service.CreateSession(ctx, "s1", doc)
	require.NoError(t, err)

	_, err = service.CreateSession(ctx, "s1", doc)
	assert.ErrorIs(t, err, session.ErrDuplicate)
}

func TestService_AskBeforeProcessingFails(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	doc := writeTestDoc(t, "some content")

	_, err := service.CreateSession(ctx, "s1", doc)
	require.NoError(t, err)

	_, err = service.Ask(ctx, "s1", "too early")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyInput, "no chunks yet: the question cannot be answered")

	record, err := service.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, record.History, "a failed turn leaves no trace in history")
}

func TestService_AskUnknownSession(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Ask(context.Background(), "ghost", "hello?")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestService_ProcessMissingDocument(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateSession(ctx, "s1", filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)

	_, err = service.ProcessDocument(ctx, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestService_MaxChunkCharsControlsPacking(t *testing.T) {
	repo := &mapRepo{records: make(map[string]*core.SessionRecord)}
	sessions, err := session.NewManager(repo)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(scriptedCompleter(), mock.NewMockEmbedder())
	service, err := newService(nil, sessions, provider, &serviceOptions{
		extractor:     extract.TextFile{},
		topK:          pipeline.DefaultTopK,
		maxChunkChars: 16,
	})
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	ctx := context.Background()
	doc := writeTestDoc(t, "first page text", "second page text")

	_, err = service.CreateSession(ctx, "s1", doc)
	require.NoError(t, err)

	record, err := service.ProcessDocument(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, record.Chunks, 2,
		"a budget smaller than two pages combined must keep the pages apart")
	assert.Equal(t, "combined summary", record.Summary,
		"two chunks mean two summaries and a combine call")
}

func TestService_IndexReusedAcrossTurns(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	doc := writeTestDoc(t, "page one", "page two")

	_, err := service.CreateSession(ctx, "s1", doc)
	require.NoError(t, err)
	_, err = service.ProcessDocument(ctx, "s1")
	require.NoError(t, err)

	_, err = service.Ask(ctx, "s1", "first")
	require.NoError(t, err)
	require.NotNil(t, service.Sessions().Handle("s1"), "first turn caches the index")

	handle := service.Sessions().Handle("s1")
	_, err = service.Ask(ctx, "s1", "second")
	require.NoError(t, err)
	assert.Same(t, handle, service.Sessions().Handle("s1"), "subsequent turns reuse the index")
}

func TestService_ReprocessInvalidatesIndex(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	doc := writeTestDoc(t, "original content")

	_, err := service.CreateSession(ctx, "s1", doc)
	require.NoError(t, err)
	_, err = service.ProcessDocument(ctx, "s1")
	require.NoError(t, err)

	_, err = service.Ask(ctx, "s1", "question")
	require.NoError(t, err)
	handle := service.Sessions().Handle("s1")
	require.NotNil(t, handle)

	_, err = service.ProcessDocument(ctx, "s1")
	require.NoError(t, err)

	assert.Nil(t, service.Sessions().Handle("s1"), "reprocessing must drop the stale index")
}
