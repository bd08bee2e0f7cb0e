package dispatch

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync/atomic"
	"time"
)

// procStatus is the raw outcome of one shell invocation.
type procStatus struct {
	exitCode int
	timedOut bool
	stdout   string
	stderr   string
	waitErr  error
}

// cappedWriter keeps at most max bytes and silently discards the rest, so
// a program flooding its streams cannot grow service memory. It always
// reports a full write; the child must not see a stream error.
type cappedWriter struct {
	buf bytes.Buffer
	max int64
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	remain := w.max - int64(w.buf.Len())
	if remain > 0 {
		if int64(len(p)) > remain {
			w.buf.Write(p[:remain])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}

// runShell executes command via the shell with dir as working directory,
// killing the whole process tree once timeout elapses. Compiled recipes
// spawn a compiler and then a separate binary, so terminating only the
// direct child would leave orphans.
func runShell(ctx context.Context, command, dir string, timeout time.Duration, outputLimit int64) procStatus {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.SysProcAttr = sysProcAttr()

	stdout := &cappedWriter{max: outputLimit}
	stderr := &cappedWriter{max: outputLimit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return procStatus{exitCode: -1, waitErr: err}
	}

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		var timer <-chan time.Time
		if timeout > 0 {
			timer = time.After(timeout)
		}
		select {
		case <-ctx.Done():
			killProcessTree(cmd.Process.Pid)
		case <-timer:
			timedOut.Store(true)
			killProcessTree(cmd.Process.Pid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)

	status := procStatus{
		exitCode: -1,
		timedOut: timedOut.Load(),
		stdout:   stdout.buf.String(),
		stderr:   stderr.buf.String(),
	}
	if cmd.ProcessState != nil {
		status.exitCode = cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			status.waitErr = waitErr
		}
	}
	return status
}
