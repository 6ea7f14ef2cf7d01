// Package dispatch launches the predefined maintenance jobs.
//
// Launches are fire-and-forget: Launch returns as soon as the child has
// started and the result only says whether it started. The job's outcome
// is observable later through what it writes (activity log, reports).
// Concurrent launches of the same job are neither deduplicated nor
// serialized; callers that care must avoid overlapping runs themselves.
package dispatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/domain"
	"github.com/vburojevic/sysdash/internal/metrics"
)

// Launch outcomes recorded in metrics
const (
	resultStarted  = "started"
	resultRejected = "rejected"
	resultNotFound = "not_found"
	resultFailed   = "failed"
)

// LaunchIDEnv carries the launch id into the job's environment so the
// lines it writes can be matched to the request that started it
const LaunchIDEnv = "SYSDASH_LAUNCH_ID"

// Dispatcher validates and launches jobs from a fixed script directory
type Dispatcher struct {
	adminDir string
	workDir  string
	logDir   string
	clock    clock.Clock
	log      *zap.Logger
	metrics  *metrics.Metrics

	// wg tracks reapers so tests and shutdown can wait
	wg sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithClock overrides the clock used for launch timestamps
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithLogDir sets where each launch's output file is written
func WithLogDir(dir string) Option {
	return func(d *Dispatcher) { d.logDir = dir }
}

// WithMetrics counts launch outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a dispatcher running scripts from adminDir with workDir as
// their working directory. Job output defaults to adminDir/logs.
func New(adminDir, workDir string, log *zap.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		adminDir: adminDir,
		workDir:  workDir,
		logDir:   filepath.Join(adminDir, "logs"),
		clock:    clock.New(),
		log:      log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ScriptPath returns the script registered for job
func (d *Dispatcher) ScriptPath(job domain.JobID) string {
	return filepath.Join(d.adminDir, "run-"+string(job)+".sh")
}

// Launch starts the named job. It validates the name against the
// allow-list, resolves the script and spawns it in its own process group.
// It never waits for the job to finish.
func (d *Dispatcher) Launch(name string) (domain.JobLaunchResult, error) {
	job, ok := domain.ParseJobID(name)
	if !ok {
		d.metrics.JobLaunch("invalid", resultRejected)
		d.log.Warn("rejected job launch", zap.String("job", name))
		return d.failed("", &JobError{Kind: KindInvalidJob, Job: name})
	}

	path := d.ScriptPath(job)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			d.metrics.JobLaunch(string(job), resultNotFound)
			d.log.Warn("job script missing", zap.String("job", string(job)), zap.String("path", path))
			return d.failed(job, &JobError{Kind: KindNotFound, Job: string(job), Path: path})
		}
		d.metrics.JobLaunch(string(job), resultFailed)
		return d.failed(job, &JobError{Kind: KindLaunchFailed, Job: string(job), Path: path, Err: err})
	}

	id := uuid.NewString()
	pid, logPath, err := d.spawn(job, path, id)
	if err != nil {
		d.metrics.JobLaunch(string(job), resultFailed)
		d.log.Error("job launch failed", zap.String("job", string(job)), zap.String("path", path), zap.Error(err))
		return d.failed(job, &JobError{Kind: KindLaunchFailed, Job: string(job), Path: path, Err: err})
	}

	d.metrics.JobLaunch(string(job), resultStarted)
	d.log.Info("job started", zap.String("job", string(job)), zap.String("path", path), zap.Int("pid", pid), zap.String("launch_id", id), zap.String("log_path", logPath))
	return domain.JobLaunchResult{
		Job:       job,
		Started:   true,
		Message:   fmt.Sprintf("%s maintenance job started", job.Title()),
		Timestamp: d.clock.Now(),
		PID:       pid,
		LaunchID:  id,
		LogPath:   logPath,
	}, nil
}

// Wait blocks until every launched job has exited. The request path never calls it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// spawn starts the script detached from the server's process group. The
// request context is not used: the job must outlive the request that
// triggered it. Output goes to a per-launch file rather than a pipe so the
// job keeps running after this process exits.
func (d *Dispatcher) spawn(job domain.JobID, path, id string) (int, string, error) {
	if err := os.MkdirAll(d.logDir, 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create job log directory: %w", err)
	}
	logPath := filepath.Join(d.logDir, fmt.Sprintf("%s-%s.log", job, id))
	out, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, "", fmt.Errorf("failed to open job log: %w", err)
	}
	// The child holds its own descriptor once started.
	defer out.Close()

	cmd := exec.Command(path)
	cmd.Dir = d.workDir
	cmd.Env = append(os.Environ(), LaunchIDEnv+"="+id)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return 0, "", err
	}
	pid := cmd.Process.Pid
	log := d.log.With(zap.String("job", string(job)), zap.Int("pid", pid), zap.String("launch_id", id), zap.String("log_path", logPath))

	// Reap the child so it does not linger as a zombie.
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := cmd.Wait(); err != nil {
			log.Warn("job exited with error", zap.Error(err))
			return
		}
		log.Info("job exited")
	}()

	return pid, logPath, nil
}

func (d *Dispatcher) failed(job domain.JobID, err *JobError) (domain.JobLaunchResult, error) {
	return domain.JobLaunchResult{
		Job:       job,
		Started:   false,
		Timestamp: d.clock.Now(),
		Error:     err.Error(),
	}, err
}
