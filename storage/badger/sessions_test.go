package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/storage"
)

func newTestRepo(t *testing.T) storage.SessionRepository {
	t.Helper()
	repo, backend, err := NewMemorySessionRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close(); backend.Close() })
	return repo
}

func TestSessionAddAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record := &core.SessionRecord{
		Id:          "s1",
		DocumentRef: "report.pdf",
		Chunks:      []core.Chunk{core.NewChunk(0, "chunk text")},
		Summary:     "a summary",
		FAQs:        []core.FAQ{{Question: "q", Answer: "a"}},
		History: []core.ConversationTurn{
			{Role: core.RoleUser, Content: "hello"},
			{Role: core.RoleAssistant, Content: "hi"},
		},
	}

	added, err := repo.AddSession(ctx, record)
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}
	if added.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set on add")
	}

	got, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.DocumentRef != "report.pdf" {
		t.Fatalf("Expected 'report.pdf', got '%s'", got.DocumentRef)
	}
	if len(got.Chunks) != 1 || got.Chunks[0].Text != "chunk text" {
		t.Fatalf("Chunks did not survive the round trip: %+v", got.Chunks)
	}
	if got.Summary != "a summary" {
		t.Fatalf("Expected 'a summary', got '%s'", got.Summary)
	}
	if len(got.FAQs) != 1 || got.FAQs[0].Question != "q" {
		t.Fatalf("FAQs did not survive the round trip: %+v", got.FAQs)
	}
	if len(got.History) != 2 || got.History[1].Role != core.RoleAssistant {
		t.Fatalf("History did not survive the round trip: %+v", got.History)
	}
}

func TestSessionAddDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddSession(ctx, &core.SessionRecord{Id: "s1", DocumentRef: "one.pdf"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	_, err = repo.AddSession(ctx, &core.SessionRecord{Id: "s1", DocumentRef: "two.pdf"})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// The first record must be untouched
	got, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.DocumentRef != "one.pdf" {
		t.Fatalf("Expected 'one.pdf', got '%s'", got.DocumentRef)
	}
}

func TestSessionUpdatePreservesCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddSession(ctx, &core.SessionRecord{Id: "s1", DocumentRef: "doc.pdf"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	before, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}

	// Timestamps round-trip at microsecond resolution; make sure the
	// update lands on a later tick
	time.Sleep(2 * time.Millisecond)

	before.Summary = "updated summary"
	_, err = repo.UpdateSession(ctx, before)
	if err != nil {
		t.Fatalf("Failed to update session: %v", err)
	}

	after, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if after.Summary != "updated summary" {
		t.Fatalf("Expected 'updated summary', got '%s'", after.Summary)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("CreatedAt changed on update: %v -> %v", before.CreatedAt, after.CreatedAt)
	}
	if !after.UpdatedAt.After(after.CreatedAt) {
		t.Fatalf("Expected UpdatedAt after CreatedAt, got %v <= %v", after.UpdatedAt, after.CreatedAt)
	}
}

func TestSessionUpdateMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UpdateSession(context.Background(), &core.SessionRecord{Id: "nope"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSessionGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetSession(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSessionDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddSession(ctx, &core.SessionRecord{Id: "s1", DocumentRef: "doc.pdf"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	if err := repo.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	_, err = repo.GetSession(ctx, "s1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.DeleteSession(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSessionListSorted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		_, err := repo.AddSession(ctx, &core.SessionRecord{Id: id, DocumentRef: "doc.pdf"})
		if err != nil {
			t.Fatalf("Failed to add session %s: %v", id, err)
		}
	}

	ids, err := repo.ListSessionIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %d sessions, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, ids)
		}
	}
}
