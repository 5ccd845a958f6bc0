package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRun_CapturesStdout(t *testing.T) {
	result, err := Run("echo hello", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
	if result.Stdout != "hello\n" {
		t.Errorf("expected stdout %q, got %q", "hello\n", result.Stdout)
	}
	if result.Stderr != "" {
		t.Errorf("expected empty stderr, got %q", result.Stderr)
	}
	if !result.Success() {
		t.Error("expected Success() to be true")
	}
}

func TestRun_CapturesStderr(t *testing.T) {
	result, err := Run("echo oops >&2", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stderr != "oops\n" {
		t.Errorf("expected stderr %q, got %q", "oops\n", result.Stderr)
	}
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	result, err := Run("exit 3", nil)
	if err != nil {
		t.Fatalf("expected no error for non-zero exit, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
	if result.Success() {
		t.Error("expected Success() to be false")
	}
}

func TestRun_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	result, err := Run("pwd", &Options{Dir: dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// macOS tempdirs resolve through /private, compare resolved paths
	got, _ := filepath.EvalSymlinks(string(bytes.TrimSpace([]byte(result.Stdout))))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("expected pwd %q, got %q", want, got)
	}
}

func TestRun_Environment(t *testing.T) {
	result, err := Run("echo $WINEDROID_TEST_VAR", &Options{
		Env: append(os.Environ(), "WINEDROID_TEST_VAR=present"),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stdout != "present\n" {
		t.Errorf("expected injected env var, got %q", result.Stdout)
	}
}

func TestRun_SpawnError(t *testing.T) {
	old := os.Getenv("SHELL")
	os.Setenv("SHELL", "/nonexistent/shell")
	defer os.Setenv("SHELL", old)

	_, err := Run("echo hi", nil)

	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
}

func TestStream_WritesLive(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code, err := Stream("echo one; echo two >&2", nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if stdout.String() != "one\n" {
		t.Errorf("expected streamed stdout %q, got %q", "one\n", stdout.String())
	}
	if stderr.String() != "two\n" {
		t.Errorf("expected streamed stderr %q, got %q", "two\n", stderr.String())
	}
}

func TestStream_NonZeroExit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code, err := Stream("exit 5", nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if code != 5 {
		t.Errorf("expected exit code 5, got %d", code)
	}
}

func TestLookPath(t *testing.T) {
	if !LookPath("sh") {
		t.Error("expected sh to be on PATH")
	}
	if LookPath("winedroid-definitely-not-a-binary") {
		t.Error("expected missing binary to be reported absent")
	}
}
