package async_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_CompleteOnce(t *testing.T) {
	f := async.NewFuture[int]()
	require.False(t, f.IsDone())

	require.True(t, f.Complete(1))
	require.False(t, f.Complete(2))
	require.False(t, f.Fail(errors.New("late")))

	v, err, ok := f.Peek()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFuture_FailOnce(t *testing.T) {
	f := async.NewFuture[string]()
	cause := errors.New("boom")
	require.True(t, f.Fail(cause))
	require.False(t, f.Complete("late"))

	_, err := f.Get(context.Background())
	require.ErrorIs(t, err, cause)
}

func TestFuture_FailNil(t *testing.T) {
	f := async.Failed[int](nil)
	_, err, ok := f.Peek()
	require.True(t, ok)
	require.ErrorIs(t, err, async.ErrNilFailure)
}

func TestFuture_PeekPending(t *testing.T) {
	f := async.NewFuture[int]()
	_, _, ok := f.Peek()
	assert.False(t, ok)
}

func TestFuture_GetRespectsContext(t *testing.T) {
	f := async.NewFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Get(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_OnCompleteBeforeAndAfter(t *testing.T) {
	f := async.NewFuture[int]()
	var got []int
	f.OnComplete(func(v int, err error) {
		require.NoError(t, err)
		got = append(got, v)
	})
	require.Empty(t, got)
	f.Complete(7)
	require.Equal(t, []int{7}, got)

	f.OnComplete(func(v int, err error) {
		got = append(got, v*2)
	})
	require.Equal(t, []int{7, 14}, got)
}

func TestFuture_ConcurrentSettlersCommitOnce(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := async.NewFuture[int]()
		var wg sync.WaitGroup
		winners := make(chan int, 16)
		for n := 0; n < 16; n++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				var won bool
				if n%2 == 0 {
					won = f.Complete(n)
				} else {
					won = f.Fail(errors.Errorf("fail %d", n))
				}
				if won {
					winners <- n
				}
			}(n)
		}
		wg.Wait()
		close(winners)
		count := 0
		for range winners {
			count++
		}
		require.Equal(t, 1, count)
		require.True(t, f.IsDone())
	}
}
