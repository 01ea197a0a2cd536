package commands

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

func TestEnqueueThenDequeue(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	c, err := svc.Enqueue(ctx, "SN001", "DATA QUERY USERINFO PIN=1")
	require.NoError(t, err)
	assert.Equal(t, string(StatusPending), c.Status)
	assert.NotEmpty(t, c.CommandULID)

	payload, ok, err := svc.Dequeue(ctx, "SN001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "DATA QUERY USERINFO PIN=1", payload)
	assert.Equal(t, StatusSent, st.status(c.ID))
}

func TestEnqueueValidates(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Enqueue(context.Background(), "", "X")
	assert.Error(t, err)
	_, err = svc.Enqueue(context.Background(), "SN001", "")
	assert.Error(t, err)

	_, err = svc.Enqueue(context.Background(), strings.Repeat("S", db.MaxSNLength+1), "X")
	var api *apierr.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, apierr.CodeInvalidArgument, api.Code)
	_, err = svc.Enqueue(context.Background(), strings.Repeat("S", db.MaxSNLength), "X")
	assert.NoError(t, err)
}

func TestDequeueEmptyQueueIsIdle(t *testing.T) {
	svc, _ := newTestService()
	payload, ok, err := svc.Dequeue(context.Background(), "SN404")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, payload)
}

func TestDequeueIsPerDevice(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Enqueue(ctx, "SN002", "FOR-2")
	require.NoError(t, err)

	_, ok, err := svc.Dequeue(ctx, "SN001")
	require.NoError(t, err)
	assert.False(t, ok)

	payload, ok, err := svc.Dequeue(ctx, "SN002")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "FOR-2", payload)
}

// C1, C2 を順に積む → 2回のポーリングで両方 sent → 完了報告1回で両方 completed
func TestTwoOutstandingCompletedByOneReport(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	c1, err := svc.Enqueue(ctx, "SN001", "C1")
	require.NoError(t, err)
	c2, err := svc.Enqueue(ctx, "SN001", "C2")
	require.NoError(t, err)
	other, err := svc.Enqueue(ctx, "SN002", "OTHER")
	require.NoError(t, err)

	p, ok, err := svc.Dequeue(ctx, "SN001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C1", p)
	assert.Equal(t, StatusSent, st.status(c1.ID))
	assert.Equal(t, StatusPending, st.status(c2.ID))

	p, ok, err = svc.Dequeue(ctx, "SN001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C2", p)
	assert.Equal(t, StatusSent, st.status(c1.ID))
	assert.Equal(t, StatusSent, st.status(c2.ID))

	_, ok, err = svc.Dequeue(ctx, "SN002")
	require.NoError(t, err)
	require.True(t, ok)

	n, err := svc.Complete(ctx, "SN001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, StatusCompleted, st.status(c1.ID))
	assert.Equal(t, StatusCompleted, st.status(c2.ID))
	assert.Equal(t, StatusSent, st.status(other.ID), "other devices are untouched")
}

func TestCompleteWithoutSentIsNoop(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	c, err := svc.Enqueue(ctx, "SN001", "C1")
	require.NoError(t, err)

	n, err := svc.Complete(ctx, "SN001")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, StatusPending, st.status(c.ID), "pending never jumps to completed")
}

func TestConcurrentPollsClaimOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Enqueue(ctx, "SN001", "ONLY")
	require.NoError(t, err)

	const pollers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		got  []string
		idle int
	)
	for i := 0; i < pollers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, ok, err := svc.Dequeue(ctx, "SN001")
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				got = append(got, p)
			} else {
				idle++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"ONLY"}, got)
	assert.Equal(t, pollers-1, idle)
}

func TestListValidatesStatus(t *testing.T) {
	svc, _ := newTestService()
	bad := Status("done")
	_, err := svc.List(context.Background(), Filter{Status: &bad})
	assert.Error(t, err)
}

func TestListFiltersAndClamps(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, sn := range []string{"A", "A", "B"} {
		_, err := svc.Enqueue(ctx, sn, "X")
		require.NoError(t, err)
	}
	sn := "A"
	res, err := svc.List(ctx, Filter{DeviceSN: &sn, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Commands, 2)
}
