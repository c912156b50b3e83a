package syncer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduler_BurstCoalescesToLeadingPlusTrailing(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(100*time.Millisecond, func() { runs.Add(1) })
	defer s.Stop()

	for i := 0; i < 5; i++ {
		s.RequestRefresh()
		time.Sleep(10 * time.Millisecond)
	}

	// Leading execution fires synchronously on the first request.
	require.Equal(t, int32(1), runs.Load())

	// The burst leaves exactly one trailing execution pending.
	require.Eventually(t, func() bool { return runs.Load() == 2 },
		time.Second, 5*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(2), runs.Load())
}

func TestScheduler_RunsImmediatelyAfterQuietWindow(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(50*time.Millisecond, func() { runs.Add(1) })
	defer s.Stop()

	s.RequestRefresh()
	require.Equal(t, int32(1), runs.Load())

	time.Sleep(80 * time.Millisecond)

	s.RequestRefresh()
	require.Equal(t, int32(2), runs.Load())
}

func TestScheduler_PendingTimerWinsAtWindowBoundary(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(200*time.Millisecond, func() { runs.Add(1) })
	defer s.Stop()

	s.RequestRefresh()
	s.RequestRefresh()
	require.Equal(t, int32(1), runs.Load())

	// Age the last execution past the window while the trailing timer is
	// still armed. The next request must defer to the timer instead of
	// running synchronously alongside it.
	s.mu.Lock()
	s.lastRun = time.Now().Add(-s.window)
	s.mu.Unlock()

	s.RequestRefresh()

	require.Eventually(t, func() bool { return runs.Load() == 2 },
		time.Second, 5*time.Millisecond)

	time.Sleep(250 * time.Millisecond)
	require.Equal(t, int32(2), runs.Load())
}

func TestScheduler_StopCancelsPending(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(50*time.Millisecond, func() { runs.Add(1) })

	s.RequestRefresh()
	s.RequestRefresh()
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load())

	s.RequestRefresh()
	require.Equal(t, int32(1), runs.Load())
}
