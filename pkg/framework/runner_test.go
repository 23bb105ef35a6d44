package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerWait(t *testing.T) {
	errFailed := errors.New("failed")
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		NamedRun("failing", RunFunc(func(context.Context) error {
			return errFailed
		})),
		RunFunc(func(context.Context) error { return nil }),
	)
	cancel()
	err := r.Wait()
	require.True(t, errors.Is(err, errFailed))
	require.Equal(t, "failed", err.Error())
}

func TestRunnerWaitNothing(t *testing.T) {
	require.NoError(t, NewRunner().Wait())
}

func TestAggregatedError(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	err := errs.Add(errA, nil, errB).Aggregate()
	require.Equal(t, "multiple errors: a; b", err.Error())
	require.True(t, errors.Is(err, errA))
	require.True(t, errors.Is(err, errB))
}
