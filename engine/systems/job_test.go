package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidates(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsCallbacks(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)

	var completed, failed, finished atomic.Int32
	var wg sync.WaitGroup
	boom := errors.New("boom")

	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		require.NoError(t, js.Submit(JobTask{
			Name: "job",
			OnStart: func() error {
				if i%4 == 0 {
					return boom
				}
				return nil
			},
			OnComplete: func() { completed.Add(1) },
			OnFailure: func(err error) {
				assert.ErrorIs(t, err, boom)
				failed.Add(1)
			},
			OnCompletionCallback: func() {
				finished.Add(1)
				wg.Done()
			},
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(15), completed.Load())
	assert.Equal(t, int32(5), failed.Load())
	assert.Equal(t, int32(20), finished.Load())
	require.NoError(t, js.Shutdown())
}

func TestJobSystemShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)

	var ran atomic.Bool
	done := make(chan struct{})
	js.AddWorkNonBlocking(JobTask{
		OnStart:              func() error { ran.Store(true); return nil },
		OnCompletionCallback: func() { close(done) },
	})
	<-done
	assert.True(t, ran.Load())

	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.Submit(JobTask{OnStart: func() error { return nil }}), ErrJobSystemShutdown)
}
