package content

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemVersionStore is an in-memory TxVersionStore for tests and dev mode.
type MemVersionStore struct {
	mu       sync.Mutex
	versions []*Snapshot
}

// NewMemVersionStore creates an empty in-memory version store.
func NewMemVersionStore() *MemVersionStore {
	return &MemVersionStore{}
}

// Put inserts a version row as-is. Test seeding helper; no flag rules are
// enforced.
func (s *MemVersionStore) Put(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, snap.Clone())
}

// InTx runs fn under the store lock, restoring the previous state when fn
// fails so the unit of work is all-or-nothing.
func (s *MemVersionStore) InTx(_ context.Context, fn func(VersionStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := make([]*Snapshot, len(s.versions))
	for i, v := range s.versions {
		before[i] = v.Clone()
	}

	if err := fn(&lockedMemStore{store: s}); err != nil {
		s.versions = before
		return err
	}
	return nil
}

// Latest returns the version flagged latest for contentID, or nil.
func (s *MemVersionStore) Latest(_ context.Context, contentID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestLocked(contentID), nil
}

// Get returns the version keyed by (contentID, versionID), or nil.
func (s *MemVersionStore) Get(_ context.Context, contentID, versionID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.versions {
		if v.ContentID == contentID && v.VersionID == versionID {
			return v.Clone(), nil
		}
	}
	return nil, nil
}

// UnsetLatest clears the latest flag via compare-and-swap.
func (s *MemVersionStore) UnsetLatest(_ context.Context, contentID, versionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsetLatestLocked(contentID, versionID), nil
}

// CreateDraft persists the snapshot as the new latest, unpublished version.
func (s *MemVersionStore) CreateDraft(_ context.Context, snap *Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createDraftLocked(snap), nil
}

// Save persists changes to an existing version row.
func (s *MemVersionStore) Save(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(snap)
	return nil
}

func (s *MemVersionStore) latestLocked(contentID string) *Snapshot {
	for _, v := range s.versions {
		if v.ContentID == contentID && v.Latest {
			return v.Clone()
		}
	}
	return nil
}

func (s *MemVersionStore) unsetLatestLocked(contentID, versionID string) bool {
	for _, v := range s.versions {
		if v.ContentID == contentID && v.VersionID == versionID && v.Latest {
			v.Latest = false
			return true
		}
	}
	return false
}

func (s *MemVersionStore) createDraftLocked(snap *Snapshot) string {
	draft := snap.Clone()
	draft.VersionID = uuid.NewString()
	draft.Latest = true
	draft.Published = false
	s.versions = append(s.versions, draft)
	return draft.VersionID
}

func (s *MemVersionStore) saveLocked(snap *Snapshot) {
	for i, v := range s.versions {
		if v.ContentID == snap.ContentID && v.VersionID == snap.VersionID {
			s.versions[i] = snap.Clone()
			return
		}
	}
	s.versions = append(s.versions, snap.Clone())
}

// lockedMemStore serves calls made inside InTx, where the outer lock is
// already held.
type lockedMemStore struct {
	store *MemVersionStore
}

func (l *lockedMemStore) Latest(_ context.Context, contentID string) (*Snapshot, error) {
	return l.store.latestLocked(contentID), nil
}

func (l *lockedMemStore) Get(_ context.Context, contentID, versionID string) (*Snapshot, error) {
	for _, v := range l.store.versions {
		if v.ContentID == contentID && v.VersionID == versionID {
			return v.Clone(), nil
		}
	}
	return nil, nil
}

func (l *lockedMemStore) UnsetLatest(_ context.Context, contentID, versionID string) (bool, error) {
	return l.store.unsetLatestLocked(contentID, versionID), nil
}

func (l *lockedMemStore) CreateDraft(_ context.Context, snap *Snapshot) (string, error) {
	return l.store.createDraftLocked(snap), nil
}

func (l *lockedMemStore) Save(_ context.Context, snap *Snapshot) error {
	l.store.saveLocked(snap)
	return nil
}
