package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/backoffice/internal/domain"
)

const snapshotTimeout = 5 * time.Second

// SnapshotRepo persists lists outside the process.
type SnapshotRepo interface {
	Save(ctx context.Context, key Key, records []domain.Record) error
	Load(ctx context.Context, key Key) ([]domain.Record, error)
	Delete(ctx context.Context, key Key) error
}

// SnapshotStore writes every change through to a SnapshotRepo and falls
// back to it on a memory miss. Repo failures are logged, never returned:
// the memory copy stays authoritative.
//
// Writes hold writeMu across the memory change and the repo call, so the
// repo sees lists in the same order as memory and keeps the latest one.
type SnapshotStore struct {
	mem     Store
	repo    SnapshotRepo
	log     *slog.Logger
	writeMu sync.Mutex
}

// NewSnapshotStore wraps mem with write-through persistence to repo.
func NewSnapshotStore(mem Store, repo SnapshotRepo, log *slog.Logger) *SnapshotStore {
	return &SnapshotStore{
		mem:  mem,
		repo: repo,
		log:  log.With("component", "cache_snapshot"),
	}
}

func (s *SnapshotStore) Get(key Key) ([]domain.Record, bool) {
	if records, ok := s.mem.Get(key); ok {
		return records, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	records, err := s.repo.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("load snapshot", slog.String("key", key.String()), slog.String("error", err.Error()))
		}
		return nil, false
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if cur, ok := s.mem.Get(key); ok {
		return cur, true
	}
	s.mem.Set(key, records)
	return records, true
}

func (s *SnapshotStore) Set(key Key, records []domain.Record) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mem.Set(key, records)
	s.save(key, records)
}

func (s *SnapshotStore) Update(key Key, fn func([]domain.Record) []domain.Record) ([]domain.Record, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, ok := s.mem.Update(key, fn)
	if ok {
		s.save(key, next)
	}
	return next, ok
}

func (s *SnapshotStore) Delete(key Key) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mem.Delete(key)

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.repo.Delete(ctx, key); err != nil {
		s.log.Warn("delete snapshot", slog.String("key", key.String()), slog.String("error", err.Error()))
	}
}

func (s *SnapshotStore) save(key Key, records []domain.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, key, records); err != nil {
		s.log.Warn("save snapshot", slog.String("key", key.String()), slog.String("error", err.Error()))
	}
}
