package devices

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu    sync.Mutex
	t     time.Time
	calls int
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type memStore struct {
	mu   sync.Mutex
	rows map[string]deviceRow
	err  error
}

func newMemStore() *memStore { return &memStore{rows: map[string]deviceRow{}} }

func (m *memStore) Touch(_ context.Context, sn string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r, ok := m.rows[sn]
	if !ok {
		r = deviceRow{ID: uint64(len(m.rows) + 1), SN: sn}
	}
	if at.After(r.LastSeen) {
		r.LastSeen = at
	}
	m.rows[sn] = r
	return nil
}

func (m *memStore) List(_ context.Context) ([]deviceRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]deviceRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, nil
}

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestTouchThenOnlineUntilWindowElapses(t *testing.T) {
	clock := &fakeClock{t: t0}
	st := newMemStore()
	svc := newService(st, clock, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Touch(ctx, "SN001"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SN001", list[0].SN)
	assert.Equal(t, StatusOnline, list[0].Status)
	assert.False(t, list[0].LastSeen.Before(t0))

	clock.Advance(5 * time.Minute)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusOnline, list[0].Status, "boundary is inclusive")

	clock.Advance(time.Second)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusOffline, list[0].Status)
}

func TestTouchAcceptsEmptySerial(t *testing.T) {
	st := newMemStore()
	svc := newService(st, &fakeClock{t: t0}, time.Minute)

	require.NoError(t, svc.Touch(context.Background(), ""))
	require.NoError(t, svc.Touch(context.Background(), ""))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "", list[0].SN)
}

func TestListUsesSingleNow(t *testing.T) {
	clock := &fakeClock{t: t0}
	st := newMemStore()
	svc := newService(st, clock, time.Minute)
	for _, sn := range []string{"A", "B", "C", "D"} {
		require.NoError(t, svc.Touch(context.Background(), sn))
	}

	clock.calls = 0
	_, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, clock.calls)
}

func TestLivenessStatusAt(t *testing.T) {
	l := Liveness{Window: 30 * time.Second}
	assert.Equal(t, StatusOnline, l.StatusAt(t0, t0))
	assert.Equal(t, StatusOnline, l.StatusAt(t0, t0.Add(30*time.Second)))
	assert.Equal(t, StatusOffline, l.StatusAt(t0, t0.Add(31*time.Second)))
	// 端末側の時計ずれで未来の last_seen でも online
	assert.Equal(t, StatusOnline, l.StatusAt(t0.Add(time.Hour), t0))
}

func TestStoreErrorIsReturned(t *testing.T) {
	st := newMemStore()
	st.err = errors.New("db down")
	svc := newService(st, &fakeClock{t: t0}, time.Minute)

	assert.Error(t, svc.Touch(context.Background(), "SN001"))
	_, err := svc.List(context.Background())
	assert.Error(t, err)
}
