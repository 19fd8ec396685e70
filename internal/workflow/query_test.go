package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/backoffice/internal/domain"
)

func TestQuery_SetFilterFetchesOncePerFilter(t *testing.T) {
	cap := staticCapability(recs("a", "b"))
	q := NewQuery(cap, newTestStore(t), "searchTask", 100, slog.Default())
	ctx := context.Background()
	cond := domain.Eq("project.$id", "p1")

	require.NoError(t, q.SetFilter(ctx, cond))
	require.NoError(t, q.SetFilter(ctx, cond))

	calls := cap.SearchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, cond, calls[0].Cond)
	assert.Equal(t, 100, calls[0].Limit)

	require.NoError(t, q.SetFilter(ctx, domain.Eq("project.$id", "p2")))
	assert.Len(t, cap.SearchCalls(), 2)
}

func TestQuery_EmptyFilterFetchesOnFirstCall(t *testing.T) {
	cap := staticCapability(nil)
	q := NewQuery(cap, newTestStore(t), "searchGoodType", 0, slog.Default())

	require.NoError(t, q.SetFilter(context.Background(), ""))

	assert.Len(t, cap.SearchCalls(), 1)
	st := q.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.NotNil(t, st.Records)
	assert.Empty(t, st.Records)
}

func TestQuery_RefreshAlwaysReissues(t *testing.T) {
	cap := staticCapability(recs("a"))
	q := NewQuery(cap, newTestStore(t), "searchTask", 0, slog.Default())
	ctx := context.Background()

	require.NoError(t, q.SetFilter(ctx, "x"))
	require.NoError(t, q.Refresh(ctx))

	assert.Len(t, cap.SearchCalls(), 2)
}

func TestQuery_StateReflectsStore(t *testing.T) {
	store := newTestStore(t)
	q := NewQuery(staticCapability(recs("a", "b")), store, "searchTask", 0, slog.Default())
	require.NoError(t, q.SetFilter(context.Background(), "x"))

	store.Update(q.Key(), func(list []domain.Record) []domain.Record {
		return Reconcile(list, Deleted{ID: "a"})
	})

	assert.Equal(t, []string{"b"}, ids(q.State().Records))
}

func TestQuery_FailureIsQueryFailed(t *testing.T) {
	cause := errors.New("connection refused")
	cap := &CapabilityMock{
		SearchFunc: func(context.Context, domain.Cond, int) ([]domain.Record, error) { return nil, cause },
	}
	q := NewQuery(cap, newTestStore(t), "searchTask", 0, slog.Default())

	err := q.SetFilter(context.Background(), "x")

	var qErr *domain.QueryFailedError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, "connection refused", qErr.Message)
	assert.True(t, errors.Is(err, cause))

	st := q.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Nil(t, st.Records)
	assert.Equal(t, err, st.Err)
	assert.Len(t, cap.SearchCalls(), 1, "no automatic retry")
}

func TestQuery_StaleResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	cap := &CapabilityMock{
		SearchFunc: func(_ context.Context, cond domain.Cond, _ int) ([]domain.Record, error) {
			if cond == "slow" {
				once.Do(func() { close(started) })
				<-release
				return recs("stale"), nil
			}
			return recs("fresh"), nil
		},
	}
	q := NewQuery(cap, newTestStore(t), "searchWord", 100, slog.Default())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- q.SetFilter(ctx, "slow") }()
	<-started

	require.NoError(t, q.SetFilter(ctx, "fast"))
	close(release)
	require.NoError(t, <-done)

	st := q.State()
	assert.Equal(t, domain.Cond("fast"), q.Filter())
	assert.Equal(t, []string{"fresh"}, ids(st.Records))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "success", StatusSuccess.String())
}
