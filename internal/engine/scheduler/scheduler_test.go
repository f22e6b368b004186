package scheduler_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
	"go.trai.ch/shaderforge/internal/core/ports/mocks"
	"go.trai.ch/shaderforge/internal/engine/scheduler"
)

// recordingReporter captures report calls for assertions.
type recordingReporter struct {
	mu        sync.Mutex
	completed []string
	failed    []string
	messages  []string
}

func (r *recordingReporter) TaskCompleted(task *domain.Task, _, _ uint32, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, task.Source)
}

func (r *recordingReporter) TaskFailed(task *domain.Task, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, task.Source)
}

func (r *recordingReporter) Infof(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

var _ ports.Reporter = (*recordingReporter)(nil)

func task(source string) *domain.Task {
	return &domain.Task{Source: source, SourceFile: source, Profile: "ps", EntryPoint: "main"}
}

func serialOptions() *domain.Options {
	opts := domain.NewOptions()
	opts.Serial = true
	return opts
}

func newScheduler(t *testing.T) (*scheduler.Scheduler, *mocks.MockCompiler, *mocks.MockArtifactWriter, *recordingReporter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	return scheduler.New(mocks.NewMockLogger(ctrl)),
		mocks.NewMockCompiler(ctrl),
		mocks.NewMockArtifactWriter(ctrl),
		&recordingReporter{}
}

func TestRun_CompletesAllTasks(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	tasks := []*domain.Task{task("a.hlsl"), task("b.hlsl"), task("c.hlsl")}
	compiler.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		Return(ports.CompileResult{Succeeded: true, Payload: []byte{1}}).
		Times(3)
	artifacts.EXPECT().WriteArtifacts(gomock.Any(), []byte{1}).Return(nil).Times(3)

	stats := sched.Run(context.Background(), tasks, compiler, artifacts, reporter, serialOptions())

	assert.Equal(t, uint32(3), stats.Completed)
	assert.Equal(t, uint32(0), stats.Failed)
	assert.False(t, stats.Terminated)
	// A single worker drains the queue from the most recently planned end.
	assert.Equal(t, []string{"c.hlsl", "b.hlsl", "a.hlsl"}, reporter.completed)
}

func TestRun_LaunchFailureRetriesWithinBudget(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	opts := serialOptions()
	opts.RetryCount = 2

	tasks := []*domain.Task{task("a.hlsl")}
	gomock.InOrder(
		compiler.EXPECT().Invoke(gomock.Any(), tasks[0]).
			Return(ports.CompileResult{LaunchFailed: true, Diagnostic: "spawn failed"}),
		compiler.EXPECT().Invoke(gomock.Any(), tasks[0]).
			Return(ports.CompileResult{Succeeded: true, Payload: []byte{1}}),
	)
	artifacts.EXPECT().WriteArtifacts(tasks[0], []byte{1}).Return(nil)

	stats := sched.Run(context.Background(), tasks, compiler, artifacts, reporter, opts)

	assert.Equal(t, uint32(1), stats.Completed)
	assert.Equal(t, uint32(0), stats.Failed)
}

func TestRun_LaunchFailureBeyondBudgetIsPermanent(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	opts := serialOptions()
	opts.RetryCount = 2

	// Two retries are granted, so the third launch failure is final.
	tasks := []*domain.Task{task("a.hlsl")}
	compiler.EXPECT().Invoke(gomock.Any(), tasks[0]).
		Return(ports.CompileResult{LaunchFailed: true, Diagnostic: "spawn failed"}).
		Times(3)

	stats := sched.Run(context.Background(), tasks, compiler, artifacts, reporter, opts)

	assert.Equal(t, uint32(0), stats.Completed)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.True(t, stats.Terminated)
	assert.Equal(t, []string{"a.hlsl"}, reporter.failed)
}

func TestRun_CompileFailureStopsTheRun(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	tasks := []*domain.Task{task("a.hlsl"), task("b.hlsl"), task("c.hlsl")}
	// Only the first popped task runs; the failure terminates the worker.
	compiler.EXPECT().Invoke(gomock.Any(), tasks[2]).
		Return(ports.CompileResult{Diagnostic: "syntax error"})

	stats := sched.Run(context.Background(), tasks, compiler, artifacts, reporter, serialOptions())

	assert.Equal(t, uint32(0), stats.Completed)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.True(t, stats.Terminated)
}

func TestRun_ContinueOnErrorKeepsGoing(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	opts := serialOptions()
	opts.ContinueOnError = true

	tasks := []*domain.Task{task("a.hlsl"), task("b.hlsl")}
	compiler.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		Return(ports.CompileResult{Diagnostic: "syntax error"}).
		Times(2)

	stats := sched.Run(context.Background(), tasks, compiler, artifacts, reporter, opts)

	assert.Equal(t, uint32(2), stats.Failed)
	assert.False(t, stats.Terminated)
	assert.Len(t, reporter.failed, 2)
}

func TestRun_ArtifactWriteFailureFailsTheTask(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	tasks := []*domain.Task{task("a.hlsl")}
	compiler.EXPECT().Invoke(gomock.Any(), tasks[0]).
		Return(ports.CompileResult{Succeeded: true, Payload: []byte{1}})
	artifacts.EXPECT().WriteArtifacts(tasks[0], []byte{1}).
		Return(assert.AnError)

	stats := sched.Run(context.Background(), tasks, compiler, artifacts, reporter, serialOptions())

	assert.Equal(t, uint32(0), stats.Completed)
	assert.Equal(t, uint32(1), stats.Failed)
}

func TestRun_CanceledContextRunsNothing(t *testing.T) {
	sched, compiler, artifacts, reporter := newScheduler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []*domain.Task{task("a.hlsl")}
	stats := sched.Run(ctx, tasks, compiler, artifacts, reporter, serialOptions())

	require.Equal(t, uint32(0), stats.Completed)
	assert.True(t, stats.Terminated)
}
