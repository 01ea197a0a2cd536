package adms

import (
	"context"
	"errors"
	"sync"
	"time"

	"ADMS-backend/internal/attendance"
)

var errStore = errors.New("store unavailable")

type fakeRegistry struct {
	mu      sync.Mutex
	touched map[string]time.Time
	calls   []string
	err     error
	now     func() time.Time
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{touched: map[string]time.Time{}, now: time.Now}
}

func (r *fakeRegistry) Touch(_ context.Context, sn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, sn)
	if r.err != nil {
		return r.err
	}
	r.touched[sn] = r.now()
	return nil
}

func (r *fakeRegistry) lastSeen(sn string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.touched[sn]
	return t, ok
}

type fakeSink struct {
	mu     sync.Mutex
	events []attendance.Event
	// failAfter 件保存したら以降は失敗する（<0 なら失敗しない）
	failAfter int
}

func newFakeSink() *fakeSink { return &fakeSink{failAfter: -1} }

func (s *fakeSink) Append(_ context.Context, e *attendance.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter >= 0 && len(s.events) >= s.failAfter {
		return errStore
	}
	e.ID = uint64(len(s.events) + 1)
	s.events = append(s.events, *e)
	return nil
}

type queued struct {
	sn, payload, status string
}

// fakeQueue は pending のものだけを sent にする比較交換で払い出す
type fakeQueue struct {
	mu   sync.Mutex
	rows []*queued
	err  error
}

func (q *fakeQueue) enqueue(sn, payload string) *queued {
	q.mu.Lock()
	defer q.mu.Unlock()
	r := &queued{sn: sn, payload: payload, status: "pending"}
	q.rows = append(q.rows, r)
	return r
}

func (q *fakeQueue) state(r *queued) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return r.status
}

func (q *fakeQueue) Dequeue(_ context.Context, sn string) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", false, q.err
	}
	for _, r := range q.rows {
		if r.sn == sn && r.status == "pending" {
			r.status = "sent"
			return r.payload, true, nil
		}
	}
	return "", false, nil
}

func (q *fakeQueue) Complete(_ context.Context, sn string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return 0, q.err
	}
	var n int64
	for _, r := range q.rows {
		if r.sn == sn && r.status == "sent" {
			r.status = "completed"
			n++
		}
	}
	return n, nil
}
