package plan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	actions "github.com/inference-gateway/gridpilot/internal/actions"
	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

type mockActions struct {
	mu       sync.Mutex
	calls    []string
	outcomes map[string]actions.ClickOutcome
	clickErr error
	pressErr error
	typeOpts []actions.TypeOptions
	onWait   func()
}

func (m *mockActions) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockActions) Click(ctx context.Context, target string) (actions.ClickOutcome, error) {
	m.record("click:" + target)
	if m.clickErr != nil {
		return actions.ClickOutcome{Target: target}, m.clickErr
	}
	if o, ok := m.outcomes[target]; ok {
		return o, nil
	}
	return actions.ClickOutcome{Target: target, Found: true, Clicked: true, Attempts: 1}, nil
}

func (m *mockActions) Type(ctx context.Context, text string, opts actions.TypeOptions) (int, error) {
	m.record("type:" + text)
	m.typeOpts = append(m.typeOpts, opts)
	return 1, nil
}

func (m *mockActions) Press(ctx context.Context, key string) error {
	m.record("press:" + key)
	return m.pressErr
}

func (m *mockActions) Wait(ctx context.Context, d time.Duration) error {
	m.record("wait:" + d.String())
	if m.onWait != nil {
		m.onWait()
	}
	return display.Sleep(ctx, d)
}

func samplePlan() Plan {
	return Plan{Steps: []Step{
		{Action: ActionClick, Target: "search field"},
		{Action: ActionType, Text: "gophers", Loop: true, LoopDuration: 1, DelayBetween: 0.5},
		{Action: ActionPress, Key: "enter"},
		{Action: ActionWait, Seconds: secs(0.01)},
	}}
}

func TestExecutor_AllSucceed(t *testing.T) {
	mock := &mockActions{}
	cleanups := 0
	exec := NewExecutor(mock, time.Millisecond, func() error { cleanups++; return nil })

	var seen []int
	exec.OnStep(func(r StepResult) { seen = append(seen, r.Index) })

	summary := exec.Execute(context.Background(), samplePlan())

	assert.True(t, summary.OK())
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, []string{"click:search field", "type:gophers", "press:enter", "wait:10ms"}, mock.calls)
	assert.Equal(t, []actions.TypeOptions{{Loop: true, LoopDuration: time.Second, DelayBetween: 500 * time.Millisecond}}, mock.typeOpts)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Equal(t, 1, cleanups)
	require.NotNil(t, summary.Results[0].Click)
	assert.True(t, summary.Results[0].Click.Clicked)
}

func TestExecutor_FailuresContinue(t *testing.T) {
	mock := &mockActions{
		outcomes: map[string]actions.ClickOutcome{
			"missing":  {Target: "missing", Found: false, Reasoning: "not on screen"},
			"inert":    {Target: "inert", Found: true, Clicked: false, Attempts: 9},
			"reactive": {Target: "reactive", Found: true, Clicked: true, Attempts: 2},
		},
		pressErr: domain.ErrActionExecution,
	}
	ctx, logs := logger.TestContext()
	exec := NewExecutor(mock, 0, nil)

	summary := exec.Execute(ctx, Plan{Steps: []Step{
		{Action: ActionClick, Target: "missing"},
		{Action: ActionClick, Target: "inert"},
		{Action: ActionPress, Key: "f13"},
		{Action: ActionClick, Target: "reactive"},
	}})

	assert.False(t, summary.OK())
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Len(t, mock.calls, 4)

	assert.True(t, errors.Is(summary.Results[0].Err, domain.ErrElementNotFound))
	assert.True(t, errors.Is(summary.Results[1].Err, domain.ErrActionExecution))
	assert.Contains(t, summary.Results[1].Err.Error(), "after 9 click attempts")
	assert.True(t, errors.Is(summary.Results[2].Err, domain.ErrActionExecution))
	assert.Equal(t, StepSucceeded, summary.Results[3].Status)

	assert.Equal(t, 3, logs.FilterMessage("Step failed, continuing").Len())
}

func TestExecutor_ClickErrorIsFailure(t *testing.T) {
	mock := &mockActions{clickErr: domain.ErrCapture}
	summary := NewExecutor(mock, 0, nil).Execute(context.Background(), Plan{Steps: []Step{
		{Action: ActionClick, Target: "x"},
		{Action: ActionPress, Key: "esc"},
	}})

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.True(t, errors.Is(summary.Results[0].Err, domain.ErrCapture))
}

func TestExecutor_InvalidStepFails(t *testing.T) {
	mock := &mockActions{}
	summary := NewExecutor(mock, 0, nil).Execute(context.Background(), Plan{Steps: []Step{
		{Action: ActionWait},
		{Action: ActionPress, Key: "tab"},
	}})

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.True(t, errors.Is(summary.Results[0].Err, domain.ErrInvalidPlan))
	assert.Equal(t, []string{"press:tab"}, mock.calls)
}

func TestExecutor_CancelSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mock := &mockActions{onWait: cancel}
	cleanups := 0
	exec := NewExecutor(mock, 0, func() error { cleanups++; return errors.New("already gone") })

	summary := exec.Execute(ctx, Plan{Steps: []Step{
		{Action: ActionPress, Key: "tab"},
		{Action: ActionWait, Seconds: secs(60)},
		{Action: ActionClick, Target: "never"},
		{Action: ActionPress, Key: "never"},
	}})

	assert.False(t, summary.OK())
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, []string{"press:tab", "wait:1m0s"}, mock.calls)
	assert.Len(t, summary.Results, 4)
	assert.Equal(t, 1, cleanups)
}

func TestExecutor_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &mockActions{}
	summary := NewExecutor(mock, 0, nil).Execute(ctx, samplePlan())

	assert.Equal(t, 4, summary.Skipped)
	assert.Empty(t, mock.calls)
}

func TestExecutor_CancelDuringStepDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mock := &mockActions{}
	exec := NewExecutor(mock, time.Hour, nil)
	exec.OnStep(func(r StepResult) {
		if r.Index == 0 {
			cancel()
		}
	})

	summary := exec.Execute(ctx, samplePlan())
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 3, summary.Skipped)
}
