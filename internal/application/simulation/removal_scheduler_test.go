package simulation_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
)

func TestTimerRemovalScheduler_FiresAfterDelay(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()
	var fired int32

	s.Schedule("bld-1", 20*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	require.Equal(t, 1, s.PendingCount())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.PendingCount())
}

func TestTimerRemovalScheduler_ScheduleReplacesPending(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()
	var first, second int32

	s.Schedule("bld-1", time.Hour, func() {
		atomic.AddInt32(&first, 1)
	})
	s.Schedule("bld-1", 20*time.Millisecond, func() {
		atomic.AddInt32(&second, 1)
	})
	require.Equal(t, 1, s.PendingCount(), "replacement keeps a single pending entry")

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&second) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first), "replaced removal never runs")
}

func TestTimerRemovalScheduler_CancelStopsRemoval(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()
	var fired int32

	s.Schedule("bld-1", 30*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	assert.True(t, s.Cancel("bld-1"))
	assert.False(t, s.Cancel("bld-1"), "second cancel finds nothing")
	assert.False(t, s.Cancel("unknown"))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, s.PendingCount())
}

func TestTimerRemovalScheduler_FlushRunsEverythingOnce(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()
	var fired int32

	for _, id := range []string{"bld-1", "bld-2", "bld-3"} {
		s.Schedule(id, time.Hour, func() {
			atomic.AddInt32(&fired, 1)
		})
	}
	require.Equal(t, 3, s.PendingCount())

	s.Flush()
	assert.Equal(t, int32(3), atomic.LoadInt32(&fired), "flush runs synchronously")
	assert.Equal(t, 0, s.PendingCount())

	s.Flush()
	assert.Equal(t, int32(3), atomic.LoadInt32(&fired), "second flush finds nothing")
}

func TestTimerRemovalScheduler_TimerAndFlushNeverDoubleFire(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()
	var fired int32

	s.Schedule("bld-1", time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	s.Flush()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired), "whoever claims the entry runs it, the other skips")
}

func TestTimerRemovalScheduler_NegativeDelayFiresImmediately(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()
	var fired int32

	s.Schedule("bld-1", -5*time.Second, func() {
		atomic.AddInt32(&fired, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTimerRemovalScheduler_NilCallbackIsIgnored(t *testing.T) {
	s := simulation.NewTimerRemovalScheduler()

	s.Schedule("bld-1", time.Millisecond, nil)
	assert.Equal(t, 0, s.PendingCount())
}
