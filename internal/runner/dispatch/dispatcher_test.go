package dispatch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"codepad/internal/runner/recipe"
	"codepad/internal/runner/result"
)

// The test registry builds every recipe variant on top of sh, so the suite
// needs no real language toolchain.
func shRegistry() *recipe.Registry {
	return recipe.NewRegistryWith(
		recipe.Recipe{
			ID:        "script",
			Extension: ".sh",
			Kind:      recipe.Interpreted,
			RunTpl:    "sh {src}",
		},
		recipe.Recipe{
			ID:         "compiled",
			Extension:  ".sh",
			Kind:       recipe.CompileBinary,
			CompileTpl: "cp {src} {bin}",
			RunTpl:     "sh {bin}",
		},
		recipe.Recipe{
			ID:            "fixed",
			Extension:     ".sh",
			Kind:          recipe.CompileFixedName,
			FixedFileName: "main.sh",
			CompileTpl:    "cp {src} {dir}/main.compiled",
			RunTpl:        "sh {dir}/main.compiled",
		},
	)
}

func requireSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func newDispatcher(t *testing.T, timeout time.Duration) (*Dispatcher, string) {
	t.Helper()
	workDir := t.TempDir()
	d, err := New(Config{WorkDir: workDir, Timeout: timeout}, shRegistry())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d, workDir
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("artifacts left in work dir: %v", names)
	}
}

func TestExecuteSuccess(t *testing.T) {
	requireSh(t)
	d, workDir := newDispatcher(t, 5*time.Second)

	exec := d.Execute(context.Background(), "script", "echo hello")
	if exec.Kind != result.KindSuccess {
		t.Fatalf("expected success, got %s (%s)", exec.Kind, exec.Message)
	}
	if exec.Stdout != "hello\n" {
		t.Fatalf("unexpected stdout: %q", exec.Stdout)
	}
	assertEmptyDir(t, workDir)
}

func TestExecuteSuccessKeepsStderr(t *testing.T) {
	requireSh(t)
	d, _ := newDispatcher(t, 5*time.Second)

	exec := d.Execute(context.Background(), "script", "echo warn 1>&2; echo ok")
	if exec.Kind != result.KindSuccess {
		t.Fatalf("expected success, got %s", exec.Kind)
	}
	if exec.Stdout != "ok\n" || exec.Stderr != "warn\n" {
		t.Fatalf("unexpected streams: stdout=%q stderr=%q", exec.Stdout, exec.Stderr)
	}
}

func TestExecuteUnknownLanguage(t *testing.T) {
	d, workDir := newDispatcher(t, 5*time.Second)

	exec := d.Execute(context.Background(), "cobol", "DISPLAY 'HI'.")
	if exec.Kind != result.KindConfig {
		t.Fatalf("expected config error, got %s", exec.Kind)
	}
	if !strings.Contains(exec.Message, "not supported") {
		t.Fatalf("unexpected message: %q", exec.Message)
	}
	assertEmptyDir(t, workDir)
}

func TestExecuteFailureCarriesStderr(t *testing.T) {
	requireSh(t)
	d, workDir := newDispatcher(t, 5*time.Second)

	exec := d.Execute(context.Background(), "script", "echo boom 1>&2; exit 3")
	if exec.Kind != result.KindFailure {
		t.Fatalf("expected failure, got %s", exec.Kind)
	}
	if !strings.Contains(exec.Stderr, "boom") {
		t.Fatalf("expected diagnostic on stderr, got %q", exec.Stderr)
	}
	assertEmptyDir(t, workDir)
}

func TestExecuteFailureWithoutStderr(t *testing.T) {
	requireSh(t)
	d, _ := newDispatcher(t, 5*time.Second)

	exec := d.Execute(context.Background(), "script", "exit 7")
	if exec.Kind != result.KindFailure {
		t.Fatalf("expected failure, got %s", exec.Kind)
	}
	if exec.Message == "" {
		t.Fatal("expected an invocation error description")
	}
}

func TestExecuteCompiledRecipeCleansBinary(t *testing.T) {
	requireSh(t)
	d, workDir := newDispatcher(t, 5*time.Second)

	exec := d.Execute(context.Background(), "compiled", "echo built")
	if exec.Kind != result.KindSuccess {
		t.Fatalf("expected success, got %s (%s)", exec.Kind, exec.Message)
	}
	if exec.Stdout != "built\n" {
		t.Fatalf("unexpected stdout: %q", exec.Stdout)
	}
	assertEmptyDir(t, workDir)
}

func TestExecuteTimeout(t *testing.T) {
	requireSh(t)
	d, workDir := newDispatcher(t, 300*time.Millisecond)

	start := time.Now()
	exec := d.Execute(context.Background(), "script", "sleep 30")
	elapsed := time.Since(start)

	if exec.Kind != result.KindTimeout {
		t.Fatalf("expected timeout, got %s", exec.Kind)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("timeout not enforced within bound: %s", elapsed)
	}
	assertEmptyDir(t, workDir)
}

func TestExecuteTimeoutKillsChildren(t *testing.T) {
	requireSh(t)
	if runtime.GOOS != "linux" {
		t.Skip("process group kill is linux only")
	}
	d, workDir := newDispatcher(t, 300*time.Millisecond)

	// The marker file would appear only if the grandchild survived the kill.
	marker := workDir + "/.survivor"
	code := fmt.Sprintf("(sleep 2 && touch %s) & wait", marker)
	exec := d.Execute(context.Background(), "script", code)
	if exec.Kind != result.KindTimeout {
		t.Fatalf("expected timeout, got %s", exec.Kind)
	}

	time.Sleep(2500 * time.Millisecond)
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("background child survived the timeout kill")
	}
}

func TestConcurrentRunsDoNotCrossContaminate(t *testing.T) {
	requireSh(t)
	d, workDir := newDispatcher(t, 10*time.Second)

	const n = 8
	results := make([]result.Execution, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := "script"
			if i%2 == 0 {
				lang = "compiled"
			}
			results[i] = d.Execute(context.Background(), lang, fmt.Sprintf("echo token-%d", i))
		}(i)
	}
	wg.Wait()

	for i, exec := range results {
		if exec.Kind != result.KindSuccess {
			t.Fatalf("run %d: expected success, got %s (%s)", i, exec.Kind, exec.Message)
		}
		want := fmt.Sprintf("token-%d\n", i)
		if exec.Stdout != want {
			t.Fatalf("run %d: cross-contaminated stdout %q", i, exec.Stdout)
		}
	}
	assertEmptyDir(t, workDir)
}

func TestFixedNameRecipeIsolatedPerRun(t *testing.T) {
	requireSh(t)
	d, workDir := newDispatcher(t, 10*time.Second)

	const n = 4
	results := make([]result.Execution, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.Execute(context.Background(), "fixed", fmt.Sprintf("echo fixed-%d", i))
		}(i)
	}
	wg.Wait()

	for i, exec := range results {
		if exec.Kind != result.KindSuccess {
			t.Fatalf("run %d: expected success, got %s (%s)", i, exec.Kind, exec.Message)
		}
		want := fmt.Sprintf("fixed-%d\n", i)
		if exec.Stdout != want {
			t.Fatalf("run %d: contaminated stdout %q", i, exec.Stdout)
		}
	}
	assertEmptyDir(t, workDir)
}

func TestSequentialRunsAreIdempotent(t *testing.T) {
	requireSh(t)
	d, _ := newDispatcher(t, 5*time.Second)

	var first result.Execution
	for i := 0; i < 3; i++ {
		exec := d.Execute(context.Background(), "script", "echo same")
		if i == 0 {
			first = exec
			continue
		}
		if exec.Kind != first.Kind || exec.Stdout != first.Stdout {
			t.Fatalf("run %d differs: %+v vs %+v", i, exec, first)
		}
	}
}

func TestOutputIsCapped(t *testing.T) {
	requireSh(t)
	workDir := t.TempDir()
	d, err := New(Config{WorkDir: workDir, Timeout: 5 * time.Second, OutputLimitBytes: 1024}, shRegistry())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	exec := d.Execute(context.Background(), "script", "yes x | head -c 100000")
	if exec.Kind != result.KindSuccess {
		t.Fatalf("expected success, got %s (%s)", exec.Kind, exec.Message)
	}
	if len(exec.Stdout) != 1024 {
		t.Fatalf("expected capped stdout of 1024 bytes, got %d", len(exec.Stdout))
	}
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{}, shRegistry()); err == nil {
		t.Fatal("expected error for missing work dir")
	}
	if _, err := New(Config{WorkDir: t.TempDir()}, nil); err == nil {
		t.Fatal("expected error for missing registry")
	}
}
