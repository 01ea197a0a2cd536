package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

// memStore は queueStore のテスト用実装。ClaimOldestPending は MySQL の条件付き UPDATE と同じく
// 「pending のものだけを sent にする」比較交換で動く。
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*Command
}

func (m *memStore) Insert(_ context.Context, c *Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	c.Status = StatusPending
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memStore) ClaimOldestPending(_ context.Context, sn string, at time.Time) (*Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.DeviceSN == sn && r.Status == StatusPending {
			r.Status = StatusSent
			r.SentAt.Time, r.SentAt.Valid = at, true
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CompleteSent(_ context.Context, sn string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.DeviceSN == sn && r.Status == StatusSent {
			r.Status = StatusCompleted
			r.CompletedAt.Time, r.CompletedAt.Valid = at, true
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetByULID(_ context.Context, u string) (*Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.CommandULID == u {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apierr.ErrNotFound("command not found")
}

func (m *memStore) List(_ context.Context, f Filter) ([]Command, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Command
	for _, r := range m.rows {
		if f.DeviceSN != nil && r.DeviceSN != *f.DeviceSN {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memStore) status(id uint64) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return r.Status
		}
	}
	return ""
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqID struct {
	mu sync.Mutex
	n  int
}

func (g *seqID) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("01TESTULID%016d", g.n), nil
}

func newTestService() (*Service, *memStore) {
	st := &memStore{}
	svc := &Service{
		store:  st,
		clock:  fixedClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		id:     &seqID{},
		withTx: func(db.DBTX) queueStore { return st },
	}
	return svc, st
}
