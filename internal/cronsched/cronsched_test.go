package cronsched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcron.dev/fleetcron/internal/ids"
)

func TestParseSchedule_SixFieldExpression(t *testing.T) {
	sched, err := ParseSchedule("*/1 * * * * *")
	require.NoError(t, err)
	assert.NotNil(t, sched)
}

func TestParseSchedule_InvalidExpression(t *testing.T) {
	_, err := ParseSchedule("not a cron expr")
	assert.Error(t, err)
}

func TestScheduler_AddRemove(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Len())

	sched, err := ParseSchedule("* * * * * *")
	require.NoError(t, err)

	id := s.Add(sched, func() {})
	assert.Equal(t, 1, s.Len())

	s.Remove(id)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_Remove_UnknownIDIsNoop(t *testing.T) {
	s := New()
	s.Remove(ids.NewTaskID())
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_Tick_FiresDueJobs(t *testing.T) {
	s := New()
	sched, err := ParseSchedule("* * * * * *") // fires every second
	require.NoError(t, err)

	var calls int64
	s.Add(sched, func() { atomic.AddInt64(&calls, 1) })

	now := time.Now().Add(2 * time.Second)
	s.Tick(now)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_Tick_CatchesUpMissedInstants(t *testing.T) {
	s := New()
	sched, err := ParseSchedule("* * * * * *")
	require.NoError(t, err)

	var calls int64
	s.Add(sched, func() { atomic.AddInt64(&calls, 1) })

	// Simulate a long gap: many missed seconds should all fire on one Tick.
	now := time.Now().Add(5 * time.Second)
	s.Tick(now)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) >= 4
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_Tick_DoesNotFireFutureInstants(t *testing.T) {
	s := New()
	sched, err := ParseSchedule("0 0 0 1 1 *") // once a year
	require.NoError(t, err)

	var calls int64
	s.Add(sched, func() { atomic.AddInt64(&calls, 1) })

	s.Tick(time.Now())
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, atomic.LoadInt64(&calls))
}
