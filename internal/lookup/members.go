// Package lookup resolves member references for task forms: a debounced
// prefix search for picking an owner and a batched id to name resolver.
package lookup

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
	"github.com/heartmarshall/backoffice/pkg/debounce"
)

// DefaultDelay is the quiet period before a member search is issued.
const DefaultDelay = time.Second

// Option is one selectable member.
type Option struct {
	ID   string
	Name string
}

// MemberCond matches members of projectID whose name starts with prefix.
func MemberCond(projectID, prefix string) domain.Cond {
	return domain.And(domain.Eq("project.$id", projectID), domain.Like("name", prefix))
}

// MemberSearch issues a member search once typing pauses. Only the latest
// prefix is searched; results go to deliver.
type MemberSearch struct {
	searcher  workflow.Searcher
	projectID string
	limit     int
	deliver   func([]Option, error)
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	d      *debounce.Debouncer[string]

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewMemberSearch creates a search scoped to projectID. Close releases the
// pending timer and cancels a search in flight.
func NewMemberSearch(searcher workflow.Searcher, projectID string, delay time.Duration, limit int, deliver func([]Option, error), log *slog.Logger) *MemberSearch {
	ctx, cancel := context.WithCancel(context.Background())
	s := &MemberSearch{
		searcher:  searcher,
		projectID: projectID,
		limit:     limit,
		deliver:   deliver,
		log:       log.With("component", "member_search", "project", projectID),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.d = debounce.New(delay, s.run)
	return s
}

// Search schedules a search for prefix, superseding any pending one.
func (s *MemberSearch) Search(prefix string) {
	s.d.Call(strings.TrimSpace(prefix))
}

// Close drops the pending search and waits for one in flight to return.
func (s *MemberSearch) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.d.Cancel()
	s.cancel()
	s.wg.Wait()
}

func (s *MemberSearch) run(prefix string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	recs, err := s.searcher.Search(s.ctx, MemberCond(s.projectID, prefix), s.limit)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.log.Warn("member search failed", slog.String("prefix", prefix), slog.String("error", err.Error()))
		s.deliver(nil, err)
		return
	}
	s.deliver(Options(recs), nil)
}

// Options converts member records into selectable options.
func Options(recs []domain.Record) []Option {
	out := make([]Option, 0, len(recs))
	for _, r := range recs {
		out = append(out, Option{ID: r.ID(), Name: r.Text("name")})
	}
	return out
}
