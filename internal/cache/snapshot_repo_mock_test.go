package cache

import (
	"context"
	"sync"

	"github.com/heartmarshall/backoffice/internal/domain"
)

var _ SnapshotRepo = &SnapshotRepoMock{}

type SnapshotRepoMock struct {
	SaveFunc   func(ctx context.Context, key Key, records []domain.Record) error
	LoadFunc   func(ctx context.Context, key Key) ([]domain.Record, error)
	DeleteFunc func(ctx context.Context, key Key) error

	calls struct {
		Save []struct {
			Key     Key
			Records []domain.Record
		}
		Load []struct {
			Key Key
		}
		Delete []struct {
			Key Key
		}
	}
	lockSave   sync.RWMutex
	lockLoad   sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *SnapshotRepoMock) Save(ctx context.Context, key Key, records []domain.Record) error {
	if mock.SaveFunc == nil {
		panic("SnapshotRepoMock.SaveFunc: method is nil but SnapshotRepo.Save was just called")
	}
	callInfo := struct {
		Key     Key
		Records []domain.Record
	}{Key: key, Records: records}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, key, records)
}

func (mock *SnapshotRepoMock) SaveCalls() []struct {
	Key     Key
	Records []domain.Record
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}

func (mock *SnapshotRepoMock) Load(ctx context.Context, key Key) ([]domain.Record, error) {
	if mock.LoadFunc == nil {
		panic("SnapshotRepoMock.LoadFunc: method is nil but SnapshotRepo.Load was just called")
	}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, struct{ Key Key }{Key: key})
	mock.lockLoad.Unlock()
	return mock.LoadFunc(ctx, key)
}

func (mock *SnapshotRepoMock) LoadCalls() []struct{ Key Key } {
	mock.lockLoad.RLock()
	calls := mock.calls.Load
	mock.lockLoad.RUnlock()
	return calls
}

func (mock *SnapshotRepoMock) Delete(ctx context.Context, key Key) error {
	if mock.DeleteFunc == nil {
		panic("SnapshotRepoMock.DeleteFunc: method is nil but SnapshotRepo.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ Key Key }{Key: key})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, key)
}

func (mock *SnapshotRepoMock) DeleteCalls() []struct{ Key Key } {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
