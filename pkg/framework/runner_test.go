package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunnerStopsAll(t *testing.T) {
	failure := errors.New("source broken")
	r := NewRunner().Go(
		NamedRun("blocking", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(ctx context.Context) error {
			return failure
		}),
	)
	done := make(chan error, 1)
	go func() { done <- r.Wait() }()
	select {
	case err := <-done:
		require.Error(t, err)
		var agg *AggregatedError
		require.True(t, errors.As(err, &agg))
		require.Equal(t, []error{failure}, agg.Errors)
	case <-time.After(time.Second):
		t.Fatal("runner doesn't stop")
	}
}

func TestRunnerCleanStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	cancel()
	require.NoError(t, r.Wait())
}

func TestNamedRun(t *testing.T) {
	r := NamedRun("status", RunFunc(func(context.Context) error { return nil }))
	require.Equal(t, "status", r.(Named).Name())
	require.NoError(t, r.Run(context.Background()))
}

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	closed := 0
	closer := closerFunc(func() error {
		closed++
		close(unblock)
		return nil
	})
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closed)

	closed = 0
	err = RunWithContextCloser(context.Background(), closerFunc(func() error {
		closed++
		return nil
	}), func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, closed)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(errors.New("a"), nil, errors.New("b"))
	require.Equal(t, "Multiple errors:\na\nb", errs.Aggregate().Error())
}

func TestAggregatedErrorIs(t *testing.T) {
	failure := errors.New("port gone")
	var errs AggregatedError
	err := errs.Add(failure).Aggregate()
	require.Equal(t, "port gone", err.Error())
	require.True(t, errors.Is(err, failure))
	require.False(t, errors.Is(err, context.Canceled))
}
