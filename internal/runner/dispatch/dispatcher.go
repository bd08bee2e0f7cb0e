// Package dispatch materializes submitted source on disk, runs the
// language toolchain under a wall-clock bound, classifies the outcome and
// removes every artifact of the run.
package dispatch

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"codepad/internal/runner/recipe"
	"codepad/internal/runner/result"
	"codepad/pkg/utils/logger"
)

const (
	// DefaultTimeout bounds one run's wall-clock time.
	DefaultTimeout = 10 * time.Second
	// DefaultOutputLimitBytes caps each captured stream.
	DefaultOutputLimitBytes int64 = 64 * 1024

	sourcePrefix = "s_"
	binaryPrefix = "bin_"
	runDirPrefix = "run_"

	runIDBytes = 8
)

// Config controls dispatcher behavior.
type Config struct {
	// WorkDir is the shared working directory. It must already exist; the
	// surrounding process creates it once at startup.
	WorkDir string
	// Timeout is the wall-clock limit per run.
	Timeout time.Duration
	// OutputLimitBytes caps captured stdout and stderr individually.
	OutputLimitBytes int64
}

// Dispatcher executes submitted source code. Safe for use by any number of
// concurrent callers: every artifact name is namespaced by the run id, and
// fixed-filename recipes get a private per-run subdirectory.
type Dispatcher struct {
	workDir     string
	timeout     time.Duration
	outputLimit int64
	registry    *recipe.Registry
}

// New creates a dispatcher over the given registry.
func New(cfg Config, registry *recipe.Registry) (*Dispatcher, error) {
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("work dir is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("recipe registry is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.OutputLimitBytes <= 0 {
		cfg.OutputLimitBytes = DefaultOutputLimitBytes
	}
	return &Dispatcher{
		workDir:     cfg.WorkDir,
		timeout:     cfg.Timeout,
		outputLimit: cfg.OutputLimitBytes,
		registry:    registry,
	}, nil
}

// Timeout returns the configured wall-clock limit.
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// Execute runs one submission. It never returns a Go error: every path,
// including internal I/O faults, resolves to one of the four result kinds,
// and all run artifacts are removed on every exit path.
func (d *Dispatcher) Execute(ctx context.Context, languageID, source string) result.Execution {
	rec, ok := d.registry.Resolve(languageID)
	if !ok {
		return result.ConfigError(fmt.Sprintf("language not supported: %s", languageID))
	}

	runID, err := newRunID()
	if err != nil {
		logger.Error(ctx, "generate run id failed", zap.Error(err))
		return result.ConfigError("failed to allocate run identity")
	}

	runDir := d.workDir
	var sourcePath string
	if rec.Kind == recipe.CompileFixedName {
		// The toolchain dictates the source file name, so the run gets a
		// private directory; otherwise concurrent runs would collide.
		runDir = filepath.Join(d.workDir, runDirPrefix+runID)
		sourcePath = filepath.Join(runDir, rec.FixedFileName)
		if err := os.Mkdir(runDir, 0755); err != nil {
			logger.Error(ctx, "create run dir failed", zap.String("run_id", runID), zap.Error(err))
			return result.ConfigError("failed to write source")
		}
	} else {
		sourcePath = filepath.Join(d.workDir, sourcePrefix+runID+rec.Extension)
	}
	binPath := filepath.Join(runDir, binaryPrefix+runID)

	defer d.cleanup(ctx, rec, runID, runDir, sourcePath, binPath)

	if err := os.WriteFile(sourcePath, []byte(source), 0644); err != nil {
		logger.Error(ctx, "write source failed", zap.String("run_id", runID), zap.Error(err))
		return result.ConfigError("failed to write source")
	}

	command := rec.Command(sourcePath, runDir, binPath)
	logger.Debug(ctx, "run started",
		zap.String("run_id", runID),
		zap.String("language", rec.ID),
	)

	proc := runShell(ctx, command, runDir, d.timeout, d.outputLimit)
	exec := classify(proc)
	logger.Info(ctx, "run finished",
		zap.String("run_id", runID),
		zap.String("language", rec.ID),
		zap.String("kind", exec.Kind.String()),
		zap.Int("exit_code", proc.exitCode),
	)
	return exec
}

// classify maps the raw process status to a result kind. Exactly one
// attempt per request; timeouts and failures are terminal.
func classify(proc procStatus) result.Execution {
	switch {
	case proc.timedOut:
		return result.Timeout()
	case proc.exitCode == 0 && proc.waitErr == nil:
		return result.Success(proc.stdout, proc.stderr)
	case proc.stderr != "":
		return result.Failure(proc.stderr, "")
	case proc.waitErr != nil:
		return result.Failure("", proc.waitErr.Error())
	default:
		return result.Failure("", fmt.Sprintf("process exited with status %d", proc.exitCode))
	}
}

// cleanup removes every artifact the run could have produced. Absence of
// any target is not an error; other filesystem errors are logged and
// swallowed, never altering the execution's result.
func (d *Dispatcher) cleanup(ctx context.Context, rec recipe.Recipe, runID, runDir, sourcePath, binPath string) {
	if rec.Kind == recipe.CompileFixedName {
		// The private run directory holds the source, the fixed-name
		// compiled artifact and anything else the toolchain emitted.
		if err := os.RemoveAll(runDir); err != nil {
			logger.Warn(ctx, "cleanup run dir failed", zap.String("run_id", runID), zap.Error(err))
		}
		return
	}
	// One of the two binary paths will not exist; removal tolerates both.
	for _, path := range []string{sourcePath, binPath, binPath + recipe.ExecutableSuffix()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn(ctx, "cleanup artifact failed",
				zap.String("run_id", runID),
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}

// newRunID returns a 16-hex-character token from a cryptographically
// random source. Collision between concurrent runs is not an operational
// concern at this length.
func newRunID() (string, error) {
	buf := make([]byte, runIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
