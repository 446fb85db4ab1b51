package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sprocket/internal/mainthread"
	"sprocket/internal/services"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case outcome := <-ch:
		return outcome
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for job outcome")
		return Outcome{}
	}
}

func waitIdle(t *testing.T, r *Runner) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("runner never returned to idle, state %s", r.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunnerSuccess(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ok.sh", "echo converting frame 1\nexit 0\n")
	r := NewRunner(filepath.Join(dir, "out.txt"), 10*time.Millisecond, mainthread.Immediate{}, nil)

	outcomes := make(chan Outcome, 1)
	jobID, err := r.Start(context.Background(), []string{script}, func(o Outcome) { outcomes <- o })
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if jobID == "" {
		t.Fatal("expected a job id")
	}

	outcome := waitOutcome(t, outcomes)
	if outcome.State != StateSucceeded {
		t.Fatalf("expected success, got %s (%v)", outcome.State, outcome.Err)
	}
	if outcome.JobID != jobID {
		t.Fatalf("outcome job id mismatch: %q != %q", outcome.JobID, jobID)
	}
	if !strings.Contains(outcome.Log, "converting frame 1") {
		t.Fatalf("expected captured log, got %q", outcome.Log)
	}
	waitIdle(t, r)
}

func TestRunnerFailureCarriesExitCode(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fail.sh", "echo boom 1>&2\nexit 3\n")
	r := NewRunner(filepath.Join(dir, "out.txt"), 10*time.Millisecond, mainthread.Immediate{}, nil)

	outcomes := make(chan Outcome, 1)
	if _, err := r.Start(context.Background(), []string{script}, func(o Outcome) { outcomes <- o }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	outcome := waitOutcome(t, outcomes)
	if outcome.State != StateFailed {
		t.Fatalf("expected failure, got %s", outcome.State)
	}
	if outcome.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", outcome.ExitCode)
	}
	if !errors.Is(outcome.Err, services.ErrConversion) {
		t.Fatalf("expected conversion error, got %v", outcome.Err)
	}
	if !strings.Contains(outcome.Log, "boom") {
		t.Fatalf("expected stderr in log, got %q", outcome.Log)
	}
	waitIdle(t, r)
}

func TestRunnerCancel(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "slow.sh", "echo started\nsleep 30\n")
	r := NewRunner(filepath.Join(dir, "out.txt"), 10*time.Millisecond, mainthread.Immediate{}, nil)

	outcomes := make(chan Outcome, 1)
	if _, err := r.Start(context.Background(), []string{script}, func(o Outcome) { outcomes <- o }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	r.Cancel()

	outcome := waitOutcome(t, outcomes)
	if outcome.State != StateCancelled {
		t.Fatalf("expected cancelled, got %s", outcome.State)
	}
	if !errors.Is(outcome.Err, services.ErrCancelled) {
		t.Fatalf("expected cancelled marker, got %v", outcome.Err)
	}
	waitIdle(t, r)
}

func TestRunnerRejectsConcurrentJobs(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "slow.sh", "sleep 30\n")
	r := NewRunner(filepath.Join(dir, "out.txt"), 10*time.Millisecond, mainthread.Immediate{}, nil)

	outcomes := make(chan Outcome, 1)
	if _, err := r.Start(context.Background(), []string{script}, func(o Outcome) { outcomes <- o }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.Running() {
		t.Fatal("expected runner to report running")
	}

	if _, err := r.Start(context.Background(), []string{script}, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for second job, got %v", err)
	}

	r.Cancel()
	waitOutcome(t, outcomes)
	waitIdle(t, r)
}

func TestRunnerSpawnFailure(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(filepath.Join(dir, "out.txt"), 10*time.Millisecond, mainthread.Immediate{}, nil)
	_, err := r.Start(context.Background(), []string{filepath.Join(dir, "missing-binary")}, nil)
	if !errors.Is(err, services.ErrFFmpegNotFound) {
		t.Fatalf("expected ffmpeg-not-found error, got %v", err)
	}
	if r.State() != StateIdle {
		t.Fatalf("expected runner to stay idle, got %s", r.State())
	}
}

func TestRunnerDispatchesOnHostExecutor(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ok.sh", "exit 0\n")
	queue := mainthread.NewSerialQueue()
	r := NewRunner(filepath.Join(dir, "out.txt"), 10*time.Millisecond, queue, nil)

	var outcome *Outcome
	if _, err := r.Start(context.Background(), []string{script}, func(o Outcome) { outcome = &o }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The callback must not run until the host drains its queue.
	deadline := time.Now().Add(5 * time.Second)
	for queue.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("completion was never enqueued")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if outcome != nil {
		t.Fatal("callback ran off the host executor")
	}
	queue.Drain()
	if outcome == nil || outcome.State != StateSucceeded {
		t.Fatalf("expected success after drain, got %+v", outcome)
	}
	if r.State() != StateIdle {
		t.Fatalf("expected idle after drain, got %s", r.State())
	}
}

func TestRunnerTruncatesPreviousLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(logPath, []byte("stale content from last run\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	script := writeScript(t, dir, "ok.sh", "echo fresh\nexit 0\n")
	r := NewRunner(logPath, 10*time.Millisecond, mainthread.Immediate{}, nil)

	outcomes := make(chan Outcome, 1)
	if _, err := r.Start(context.Background(), []string{script}, func(o Outcome) { outcomes <- o }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	outcome := waitOutcome(t, outcomes)
	if strings.Contains(outcome.Log, "stale content") {
		t.Fatalf("log was not truncated: %q", outcome.Log)
	}
	waitIdle(t, r)
}

func TestStateIsTerminal(t *testing.T) {
	for _, s := range []State{StateSucceeded, StateFailed, StateCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StateIdle, StateRunning} {
		if s.IsTerminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}
