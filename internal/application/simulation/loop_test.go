package simulation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

type tickRecorder struct {
	observations int32
}

func (r *tickRecorder) ObserveTick(duration time.Duration) {
	atomic.AddInt32(&r.observations, 1)
}

func TestLoop_TicksDriveTheWorld(t *testing.T) {
	f := newWorldFixture(t)
	loop := simulation.NewLoop(f.world, 10*time.Millisecond, nil)
	f.world.SetExecutor(loop)
	recorder := &tickRecorder{}
	loop.SetMetrics(recorder)

	loop.Start()
	defer loop.Stop()

	var placed *building.Building
	require.NoError(t, loop.Execute(context.Background(), func() {
		placed, _ = f.world.PlaceBuilding(context.Background(), "", building.BuildingTypePowerSpire, 1, "player-1", f.position, 0)
	}))
	require.NotNil(t, placed)

	assert.Eventually(t, func() bool {
		return f.world.Stats().Ticks > 3
	}, 2*time.Second, 10*time.Millisecond)

	var progress float64
	require.NoError(t, loop.Execute(context.Background(), func() {
		progress = placed.ConstructionProgress()
	}))
	assert.Greater(t, progress, 0.0, "ticker deltas advance construction")
	assert.Greater(t, atomic.LoadInt32(&recorder.observations), int32(0))
}

func TestLoop_ExecuteSerializesAccess(t *testing.T) {
	f := newWorldFixture(t)
	loop := simulation.NewLoop(f.world, time.Millisecond, nil)
	loop.Start()
	defer loop.Stop()

	// A plain int mutated from many goroutines stays exact only if every
	// increment runs on the loop goroutine.
	counter := 0
	errCh := make(chan error, 4)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if err := loop.Execute(context.Background(), func() {
					counter++
				}); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	require.NoError(t, loop.Execute(context.Background(), func() {}))
	assert.Equal(t, 100, counter)
}

func TestLoop_ExecuteAfterStopReturnsErrStopped(t *testing.T) {
	f := newWorldFixture(t)
	loop := simulation.NewLoop(f.world, time.Millisecond, nil)
	loop.Start()
	loop.Stop()

	err := loop.Execute(context.Background(), func() {})
	assert.ErrorIs(t, err, simulation.ErrStopped)
}

func TestLoop_ExecuteHonorsContextDeadline(t *testing.T) {
	f := newWorldFixture(t)
	// Never started: the submission is buffered but nothing runs it
	loop := simulation.NewLoop(f.world, time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := loop.Execute(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoop_StopIsIdempotent(t *testing.T) {
	f := newWorldFixture(t)
	loop := simulation.NewLoop(f.world, time.Millisecond, nil)
	loop.Start()

	loop.Stop()
	loop.Stop()
}

func TestLoop_RemovalTimerMarshalsBackOntoLoop(t *testing.T) {
	f := newWorldFixture(t)
	// Real scheduler so the grace timer fires on its own goroutine
	world := simulation.NewWorld(building.NewCatalog(), f.ledger, nil, nil, simulation.NewTimerRemovalScheduler(), nil, nil, nil)
	loop := simulation.NewLoop(world, 5*time.Millisecond, nil)
	world.SetExecutor(loop)
	loop.Start()
	defer loop.Stop()

	var placeErr, demolishErr error
	require.NoError(t, loop.Execute(context.Background(), func() {
		var b *building.Building
		b, placeErr = world.PlaceBuilding(context.Background(), "", building.BuildingTypeRelayPad, 1, "player-1", f.position, 0)
		if placeErr != nil {
			return
		}
		world.Step(float64(b.Config().ConstructionTime))
		_, demolishErr = world.DemolishBuilding(context.Background(), b.ID())
	}))
	require.NoError(t, placeErr)
	require.NoError(t, demolishErr)

	require.Equal(t, 1, world.Stats().TotalBuildings)
	assert.Eventually(t, func() bool {
		return world.Stats().TotalBuildings == 0
	}, 2*building.RemovalGracePeriod+2*time.Second, 50*time.Millisecond,
		"grace elapses and the timer removes the structure on the loop goroutine")
}
