package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoDeliversValue(t *testing.T) {
	op := Go(func() (int, error) { return 42, nil })

	v, err := op.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, op.Finished())
}

func TestWaitSharedByCallers(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	op := Go(func() (string, error) {
		<-release
		calls++
		return "done", nil
	})

	assert.False(t, op.Finished())
	close(release)

	for i := 0; i < 3; i++ {
		v, err := op.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "done", v)
	}
	assert.Equal(t, 1, calls)
}

func TestWaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	op := Go(func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := op.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, op.Finished())
}

func TestFailed(t *testing.T) {
	boom := errors.New("boom")
	op := Failed[int](boom)

	assert.True(t, op.Finished())
	_, err := op.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}
