package jobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"sprocket/internal/logging"
	"sprocket/internal/mainthread"
	"sprocket/internal/services"
)

// Outcome is the terminal report for one conversion job. Log carries the
// full merged process output read back from the log artifact (partial when
// cancelled mid-run).
type Outcome struct {
	JobID    string
	State    State
	ExitCode int
	Log      string
	Err      error
}

// Runner executes one conversion process at a time. The caller's completion
// callback always runs on the host executor, never on the worker goroutine,
// so it may touch UI state freely.
type Runner struct {
	logPath      string
	pollInterval time.Duration
	host         mainthread.Executor
	logger       *slog.Logger

	mu     sync.Mutex
	state  State
	cancel chan struct{}
	lock   *flock.Flock
}

// NewRunner builds a runner writing process output to logPath. pollInterval
// bounds cancellation latency.
func NewRunner(logPath string, pollInterval time.Duration, host mainthread.Executor, logger *slog.Logger) *Runner {
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}
	if host == nil {
		host = mainthread.Immediate{}
	}
	return &Runner{
		logPath:      logPath,
		pollInterval: pollInterval,
		host:         host,
		logger:       logging.NewComponentLogger(logger, "jobs"),
		state:        StateIdle,
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Running reports whether a job is in flight.
func (r *Runner) Running() bool {
	return r.State() == StateRunning
}

// Start spawns the conversion process described by args (element zero is the
// command) and returns the job identifier. done is invoked exactly once on
// the host executor with the terminal outcome; afterwards the runner is Idle
// again.
//
// Only one job may run at a time. A file lock beside the log artifact keeps
// a second panel process from clobbering it.
func (r *Runner) Start(ctx context.Context, args []string, done func(Outcome)) (string, error) {
	if len(args) == 0 {
		return "", services.Wrap(services.ErrValidation, "jobs", "start", "empty command", nil)
	}

	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		return "", services.Wrap(services.ErrValidation, "jobs", "start", "a conversion is already running", nil)
	}

	lock := flock.New(r.logPath + ".lock")
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = errors.New("lock held by another process")
	}
	if err != nil {
		r.mu.Unlock()
		return "", services.Wrap(services.ErrValidation, "jobs", "acquire log lock", "another conversion owns the log artifact", err)
	}

	logFile, err := os.OpenFile(r.logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		_ = lock.Unlock()
		r.mu.Unlock()
		return "", services.Wrap(services.ErrConversion, "jobs", "open log", "cannot write conversion log artifact", err)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Cancel = func() error { return terminateProcess(cmd.Process) }

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		_ = lock.Unlock()
		r.mu.Unlock()
		return "", services.Wrap(services.ErrFFmpegNotFound, "jobs", "spawn ffmpeg", "conversion process could not be started", err)
	}

	jobID := uuid.NewString()
	r.state = StateRunning
	r.cancel = make(chan struct{})
	r.lock = lock
	cancelCh := r.cancel
	r.mu.Unlock()

	r.logger.Info("conversion started",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldCommand, args[0]),
		logging.String(logging.FieldLogPath, r.logPath),
	)

	go r.wait(jobID, cmd, logFile, cancelCh, done)
	return jobID, nil
}

// Cancel requests the running job terminate. Observed within one poll
// interval; a no-op when nothing is running.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning || r.cancel == nil {
		return
	}
	select {
	case <-r.cancel:
	default:
		close(r.cancel)
	}
}

// wait owns the job from spawn to terminal dispatch. It blocks on process
// exit and checks the cancellation channel on a fixed tick; the tick bounds
// cancellation latency the way the original panel's 100ms poll loop did.
func (r *Runner) wait(jobID string, cmd *exec.Cmd, logFile *os.File, cancelCh <-chan struct{}, done func(Outcome)) {
	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	cancelled := false
	var waitErr error

poll:
	for {
		select {
		case waitErr = <-waitCh:
			break poll
		case <-ticker.C:
			if cancelled {
				continue
			}
			select {
			case <-cancelCh:
				cancelled = true
				// Best-effort terminate; the process may ignore it and
				// exit on its own, which the next waitCh receive handles.
				if err := terminateProcess(cmd.Process); err != nil {
					r.logger.Warn("terminate request failed",
						logging.String(logging.FieldJobID, jobID),
						logging.Error(err),
					)
				}
			default:
			}
		}
	}

	_ = logFile.Close()

	outcome := Outcome{JobID: jobID}
	switch {
	case cancelled:
		outcome.State = StateCancelled
		outcome.ExitCode = exitCode(waitErr)
		outcome.Err = services.Wrap(services.ErrCancelled, "jobs", "run ffmpeg", "conversion cancelled by user", nil)
	case waitErr == nil:
		outcome.State = StateSucceeded
	default:
		outcome.State = StateFailed
		outcome.ExitCode = exitCode(waitErr)
		outcome.Err = services.Wrap(services.ErrConversion, "jobs", "run ffmpeg", "conversion process exited nonzero", waitErr)
	}

	if data, err := os.ReadFile(r.logPath); err == nil {
		outcome.Log = string(data)
	} else {
		r.logger.Warn("cannot read conversion log",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
		)
	}

	r.mu.Lock()
	r.state = outcome.State
	r.mu.Unlock()

	r.logger.Info("conversion finished",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldOutcome, string(outcome.State)),
		logging.Int(logging.FieldExitCode, outcome.ExitCode),
	)

	r.host.Run(func() {
		if done != nil {
			done(outcome)
		}
		r.mu.Lock()
		r.state = StateIdle
		if r.lock != nil {
			_ = r.lock.Unlock()
			r.lock = nil
		}
		r.cancel = nil
		r.mu.Unlock()
	})
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
