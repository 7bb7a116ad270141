package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildforge/pkg/types"
)

func recordingAction(log *[]string, name string, err error) types.Action {
	return types.ActionFunc(func(ctx context.Context, ec *types.ExecutionContext) (any, error) {
		*log = append(*log, name)
		return name, err
	})
}

func TestCompositeAction_Order(t *testing.T) {
	var log []string
	composite, err := NewCompositeAction(
		recordingAction(&log, "main", nil),
		[]types.Action{recordingAction(&log, "pre1", nil), recordingAction(&log, "pre2", nil)},
		[]types.Action{recordingAction(&log, "post", nil)},
	)
	require.NoError(t, err)

	out, err := composite.Run(context.Background(), types.NewExecutionContext("t"))
	require.NoError(t, err)
	assert.Equal(t, "main", out, "composite output is the main action's output")
	assert.Equal(t, []string{"pre1", "pre2", "main", "post"}, log)
}

func TestCompositeAction_PreFailureSkipsMain(t *testing.T) {
	var log []string
	composite, err := NewCompositeAction(
		recordingAction(&log, "main", nil),
		[]types.Action{recordingAction(&log, "pre", errors.New("setup failed"))},
		nil,
	)
	require.NoError(t, err)

	_, err = composite.Run(context.Background(), types.NewExecutionContext("t"))
	require.Error(t, err)
	assert.Equal(t, []string{"pre"}, log, "main must not run after a pre failure")
}

func TestCompositeAction_MainFailureSkipsPost(t *testing.T) {
	var log []string
	composite, err := NewCompositeAction(
		recordingAction(&log, "main", errors.New("build failed")),
		nil,
		[]types.Action{recordingAction(&log, "post", nil)},
	)
	require.NoError(t, err)

	_, err = composite.Run(context.Background(), types.NewExecutionContext("t"))
	require.Error(t, err)
	assert.Equal(t, []string{"main"}, log)
}

func TestCompositeAction_UpToDateSkipsPost(t *testing.T) {
	var log []string
	composite, err := NewCompositeAction(
		types.ActionFunc(func(ctx context.Context, ec *types.ExecutionContext) (any, error) {
			log = append(log, "main")
			return nil, types.ErrUpToDate
		}),
		nil,
		[]types.Action{recordingAction(&log, "post", nil)},
	)
	require.NoError(t, err)

	_, err = composite.Run(context.Background(), types.NewExecutionContext("t"))
	assert.ErrorIs(t, err, types.ErrUpToDate, "the up-to-date signal must pass through unchanged")
	assert.Equal(t, []string{"main"}, log)
}

func TestCompositeAction_PostFailureFailsTask(t *testing.T) {
	var log []string
	composite, err := NewCompositeAction(
		recordingAction(&log, "main", nil),
		nil,
		[]types.Action{recordingAction(&log, "post", errors.New("cleanup failed"))},
	)
	require.NoError(t, err)

	out, err := composite.Run(context.Background(), types.NewExecutionContext("t"))
	require.Error(t, err)
	assert.Equal(t, "main", out, "the main output survives a post failure")
}

func TestCompositeAction_RequiresMain(t *testing.T) {
	_, err := NewCompositeAction(nil, nil, nil)
	assert.Error(t, err)
}
