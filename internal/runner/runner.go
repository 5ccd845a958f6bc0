// Package runner executes local shell commands and defines the Result type
// shared by local and remote execution. Both paths produce the same shape so
// callers can sequence local and on-device steps uniformly.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Result holds the outcome of one command execution.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// SpawnError indicates the command could not be started at all (binary not
// found, permission denied). It is distinct from a command that ran and
// exited non-zero, which is reported through Result.ExitCode.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn command %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Options control where and with what environment a command runs.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is the environment in KEY=VALUE form. Nil inherits the parent's.
	Env []string
}

// shellCommand builds an exec.Cmd that runs the command line through the
// user's shell so pipes and redirects work.
func shellCommand(command string, opts *Options) *exec.Cmd {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell, "-c", command)
	if opts != nil {
		cmd.Dir = opts.Dir
		if opts.Env != nil {
			cmd.Env = opts.Env
		}
	}
	return cmd
}

// Run executes a shell command line and captures its output in full.
// A non-zero exit is not an error; it is reported through Result.ExitCode.
// The command line is interpreted by the shell: callers must escape
// untrusted values themselves.
func Run(command string, opts *Options) (*Result, error) {
	cmd := shellCommand(command, opts)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, &SpawnError{Command: command, Err: runErr}
	}

	return result, nil
}

// Stream executes a shell command line, writing output to the given writers
// as it is produced. Used for long-running steps (builds) where the operator
// wants live progress. Returns the exit code.
func Stream(command string, opts *Options, stdout, stderr io.Writer) (int, error) {
	cmd := shellCommand(command, opts)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, &SpawnError{Command: command, Err: runErr}
	}

	return 0, nil
}

// LookPath reports whether a binary is available on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
