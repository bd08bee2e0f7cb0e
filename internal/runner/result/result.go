// Package result defines the classified outcome of one execution.
package result

// Kind classifies how a run ended.
type Kind int

const (
	// KindSuccess means the process exited zero.
	KindSuccess Kind = iota
	// KindFailure means the process ran and exited non-zero, for any
	// reason. Compile errors and runtime errors are not distinguished:
	// compilation is a prerequisite step joined to execution, so a compile
	// failure manifests as a non-zero final exit with diagnostics on stderr.
	KindFailure
	// KindTimeout means the process was killed because the wall-clock
	// limit elapsed.
	KindTimeout
	// KindConfig means no process was run at all: unknown language, or the
	// source could not be persisted.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindTimeout:
		return "timeout"
	case KindConfig:
		return "config_error"
	default:
		return "unknown"
	}
}

// Execution is the value returned to the caller. It carries no filesystem
// state; all run artifacts are gone by the time it is produced.
type Execution struct {
	Kind    Kind
	Stdout  string
	Stderr  string
	Message string
}

// Success builds a successful execution. Stderr may be non-empty: a program
// can print diagnostics and still exit zero.
func Success(stdout, stderr string) Execution {
	return Execution{Kind: KindSuccess, Stdout: stdout, Stderr: stderr}
}

// Failure builds a failed execution carrying the diagnostic text.
func Failure(stderr, message string) Execution {
	return Execution{Kind: KindFailure, Stderr: stderr, Message: message}
}

// Timeout builds a timed-out execution.
func Timeout() Execution {
	return Execution{Kind: KindTimeout, Message: "time limit exceeded"}
}

// ConfigError builds an execution that never reached process invocation.
func ConfigError(message string) Execution {
	return Execution{Kind: KindConfig, Message: message}
}
