package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/retrieval"
	"github.com/sagedoc/docchat/storage"
)

// Manager owns the session lifecycle. Serializable session state lives in
// the repository; non-serializable per-session handles (the prebuilt
// retrieval index) live in an in-process cache and are rebuilt on demand
// after a restart. Creating an existing ID fails rather than silently
// resetting the session.
type Manager struct {
	repo    storage.SessionRepository
	handles *cache.Cache
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// updateMu serializes Update's read-modify-write. It is separate from
	// the per-session locks so a flow holding Lock can still call Update.
	updateMu sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager) error

// WithManagerLogger sets a custom logger.
// Default is slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a session manager backed by the given repository.
func NewManager(repo storage.SessionRepository, opts ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("session repository is required")
	}

	m := &Manager{
		repo:    repo,
		handles: cache.New(cache.NoExpiration, 0),
		logger:  slog.Default().With("component", "session-manager"),
		locks:   make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Create registers a new empty session for the given document reference.
// Returns ErrDuplicate if the ID is already in use.
func (m *Manager) Create(ctx context.Context, id, documentRef string) (*core.SessionRecord, error) {
	record := &core.SessionRecord{
		Id:          id,
		DocumentRef: documentRef,
	}
	if err := core.ValidateSessionRecord(record); err != nil {
		return nil, err
	}

	record, err := m.repo.AddSession(ctx, record)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, id)
		}
		return nil, err
	}

	m.logger.Info("created session", "session", id, "documentRef", documentRef)
	return record.Clone(), nil
}

// Get retrieves a session by ID. The returned record is a copy; mutating it
// does not affect stored state.
func (m *Manager) Get(ctx context.Context, id string) (*core.SessionRecord, error) {
	record, err := m.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

// Update merges a partial update into the stored session. Fields absent
// from the update are preserved, and the read-modify-write is serialized,
// so concurrent writers to different fields do not clobber each other's
// work.
func (m *Manager) Update(ctx context.Context, id string, update *core.SessionUpdate) (*core.SessionRecord, error) {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	record, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(record)

	record, err = m.repo.UpdateSession(ctx, record)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

// Delete removes the session, its cached handle, and its idle lock entry.
// Returns true if a session was removed, false if none existed. Deleting a
// missing session is not an error.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	m.handles.Delete(id)
	m.dropIdleLock(id)

	err := m.repo.DeleteSession(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	m.logger.Info("deleted session", "session", id)
	return true, nil
}

// List returns the IDs of all sessions, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.repo.ListSessionIDs(ctx)
}

// Handle returns the cached retrieval index for the session, or nil when
// none has been built yet.
func (m *Manager) Handle(id string) *retrieval.Index {
	if v, ok := m.handles.Get(id); ok {
		return v.(*retrieval.Index)
	}
	return nil
}

// SetHandle caches a retrieval index for the session. The handle is
// ephemeral and never persisted.
func (m *Manager) SetHandle(id string, index *retrieval.Index) {
	if index == nil {
		m.handles.Delete(id)
		return
	}
	m.handles.Set(id, index, cache.NoExpiration)
}

// Lock acquires the per-session mutex and returns its unlock function.
// Operations on distinct sessions never block each other.
func (m *Manager) Lock(id string) func() {
	m.mu.Lock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// dropIdleLock removes the per-session mutex unless someone holds it. A
// holder that raced the delete keeps the old mutex; the session is gone
// either way.
func (m *Manager) dropIdleLock(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lock, ok := m.locks[id]; ok && lock.TryLock() {
		lock.Unlock()
		delete(m.locks, id)
	}
}

// Close closes the underlying repository.
func (m *Manager) Close() error {
	return m.repo.Close()
}
