package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) (storage.SessionRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &SessionRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *SessionRepository) Close() error {
	return nil
}

// AddSession stores a new session record.
func (r *SessionRepository) AddSession(ctx context.Context, record *core.SessionRecord) (*core.SessionRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(record.Id)

		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		record.CreatedAt = time.Now().UTC()
		record.UpdatedAt = record.CreatedAt

		if err := tx.Set(key, storage.MarshalSessionRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// UpdateSession replaces an existing session record.
func (r *SessionRepository) UpdateSession(ctx context.Context, record *core.SessionRecord) (*core.SessionRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(record.Id)

		old, err := r.readSessionRecord(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		record.CreatedAt = old.CreatedAt
		record.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalSessionRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// GetSession retrieves a session record by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*core.SessionRecord, error) {
	var record *core.SessionRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readSessionRecord(tx, makeSessionKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}

	return record, nil
}

// DeleteSession removes a session record by ID.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(id)

		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListSessionIDs returns the IDs of all stored sessions, sorted.
func (r *SessionRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ids = append(ids, sessionKeyID(iter.Item().Key()))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.Sort(ids)
	return ids, nil
}

// readSessionRecord reads and deserializes a record within a transaction.
// Returns nil, nil when the key does not exist.
func (r *SessionRepository) readSessionRecord(tx *badger.Txn, key []byte) (*core.SessionRecord, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.SessionRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalSessionRecord(val)
		return err
	})
	return record, err
}
