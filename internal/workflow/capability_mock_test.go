package workflow

import (
	"context"
	"sync"

	"github.com/heartmarshall/backoffice/internal/domain"
)

var _ Capability = &CapabilityMock{}

type CapabilityMock struct {
	SearchFunc func(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error)
	CreateFunc func(ctx context.Context, input domain.Record) (Saved, error)
	UpdateFunc func(ctx context.Context, input domain.Record) (domain.Record, error)
	DeleteFunc func(ctx context.Context, id string) error

	calls struct {
		Search []struct {
			Cond  domain.Cond
			Limit int
		}
		Create []struct {
			Input domain.Record
		}
		Update []struct {
			Input domain.Record
		}
		Delete []struct {
			ID string
		}
	}
	lockSearch sync.RWMutex
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *CapabilityMock) Search(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error) {
	if mock.SearchFunc == nil {
		panic("CapabilityMock.SearchFunc: method is nil but Capability.Search was just called")
	}
	callInfo := struct {
		Cond  domain.Cond
		Limit int
	}{Cond: cond, Limit: limit}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, cond, limit)
}

func (mock *CapabilityMock) SearchCalls() []struct {
	Cond  domain.Cond
	Limit int
} {
	mock.lockSearch.RLock()
	calls := mock.calls.Search
	mock.lockSearch.RUnlock()
	return calls
}

func (mock *CapabilityMock) Create(ctx context.Context, input domain.Record) (Saved, error) {
	if mock.CreateFunc == nil {
		panic("CapabilityMock.CreateFunc: method is nil but Capability.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Input domain.Record }{Input: input})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, input)
}

func (mock *CapabilityMock) CreateCalls() []struct{ Input domain.Record } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *CapabilityMock) Update(ctx context.Context, input domain.Record) (domain.Record, error) {
	if mock.UpdateFunc == nil {
		panic("CapabilityMock.UpdateFunc: method is nil but Capability.Update was just called")
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, struct{ Input domain.Record }{Input: input})
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, input)
}

func (mock *CapabilityMock) UpdateCalls() []struct{ Input domain.Record } {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *CapabilityMock) Delete(ctx context.Context, id string) error {
	if mock.DeleteFunc == nil {
		panic("CapabilityMock.DeleteFunc: method is nil but Capability.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID string }{ID: id})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *CapabilityMock) DeleteCalls() []struct{ ID string } {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
