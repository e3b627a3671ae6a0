package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_ExecutesSubmittedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(4)
	runner.Start(ctx)

	done := make(chan struct{})
	ok := runner.Submit(Task{
		Name: "probe",
		Run: func(context.Context) error {
			close(done)
			return nil
		},
	})
	if !ok {
		t.Fatal("submit rejected with free capacity")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestRunner_DelayedTaskRunsAfterDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(4)
	runner.Start(ctx)

	start := time.Now()
	done := make(chan struct{})
	runner.Submit(Task{
		Name:  "delayed",
		Delay: 50 * time.Millisecond,
		Run: func(context.Context) error {
			close(done)
			return nil
		},
	})

	select {
	case <-done:
		if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
			t.Fatalf("task ran after %v, before its delay", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestRunner_TaskFailureIsContained(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(4)
	runner.Start(ctx)

	var ran atomic.Bool
	runner.Submit(Task{
		Name: "failing",
		Run: func(context.Context) error {
			return errors.New("boom")
		},
	})
	done := make(chan struct{})
	runner.Submit(Task{
		Name: "after-failure",
		Run: func(context.Context) error {
			ran.Store(true)
			close(done)
			return nil
		},
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner stopped after a failing task")
	}
	if !ran.Load() {
		t.Fatal("subsequent task did not run")
	}
}

func TestRunner_SubmitDropsWhenFull(t *testing.T) {
	// Runner not started: the queue fills and later submissions drop.
	runner := NewRunner(1)

	if !runner.Submit(Task{Name: "first", Run: func(context.Context) error { return nil }}) {
		t.Fatal("first submit should be accepted")
	}
	if runner.Submit(Task{Name: "second", Run: func(context.Context) error { return nil }}) {
		t.Fatal("second submit should drop on a full queue")
	}
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	runner := NewRunner(4)
	runner.Start(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		runner.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}
