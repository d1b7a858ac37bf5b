package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"boostiq/pkg/entities"
)

// fileRecord is the on-disk shape, keyed by user ID in the snapshot map.
// Timestamps are Unix seconds, which bounds round-trip fidelity at the
// second as required.
type fileRecord struct {
	PlanID      string `json:"plan_id"`
	ActivatedAt int64  `json:"activated_at"`
	ExpiresAt   int64  `json:"expires_at"`
}

// FileStore persists the ledger as one JSON document rewritten atomically
// (write to temp file, then rename). Suited to the single-owner-process
// model; concurrent readers never observe a torn write.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]fileRecord
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}

	s := &FileStore{
		path:    path,
		records: make(map[string]fileRecord),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	if err = json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("ledger file %s is corrupt: %w", path, err)
	}

	return s, nil
}

func (s *FileStore) Put(_ context.Context, sub entities.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.records[sub.UserID]
	s.records[sub.UserID] = fileRecord{
		PlanID:      sub.PlanID,
		ActivatedAt: sub.ActivatedAt.Unix(),
		ExpiresAt:   sub.ExpiresAt.Unix(),
	}

	if err := s.persistLocked(); err != nil {
		// roll back the in-memory state so a failed persist is not
		// observable as success
		if existed {
			s.records[sub.UserID] = prev
		} else {
			delete(s.records, sub.UserID)
		}
		return err
	}

	return nil
}

func (s *FileStore) Get(_ context.Context, userID string) (*entities.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, nil
	}

	sub := toSubscription(userID, rec)
	return &sub, nil
}

func (s *FileStore) SweepExpired(_ context.Context, now time.Time) ([]entities.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []entities.Subscription
	removed := make(map[string]fileRecord)

	for userID, rec := range s.records {
		sub := toSubscription(userID, rec)
		if !sub.Expired(now) {
			continue
		}
		expired = append(expired, sub)
		removed[userID] = rec
		delete(s.records, userID)
	}

	if len(expired) == 0 {
		return nil, nil
	}

	if err := s.persistLocked(); err != nil {
		for userID, rec := range removed {
			s.records[userID] = rec
		}
		return nil, err
	}

	return expired, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger temp file: %w", err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	return nil
}

func toSubscription(userID string, rec fileRecord) entities.Subscription {
	return entities.Subscription{
		UserID:      userID,
		PlanID:      rec.PlanID,
		ActivatedAt: time.Unix(rec.ActivatedAt, 0).UTC(),
		ExpiresAt:   time.Unix(rec.ExpiresAt, 0).UTC(),
	}
}
