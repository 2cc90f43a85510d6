package virsh

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result captures one finished command.
type Result struct {
	ExitStatus int
	Stdout     string
	Stderr     string
}

// Runner executes a virsh invocation. Tests substitute a fake; the
// real thing shells out.
type Runner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// ExecRunner runs the virsh binary via os/exec.
type ExecRunner struct {
	// Binary is the executable to invoke, "virsh" when empty.
	Binary string

	// Connect is passed as --connect when set.
	Connect string
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) (Result, error) {
	binary := r.Binary
	if binary == "" {
		binary = "virsh"
	}
	full := args
	if r.Connect != "" {
		full = append([]string{"--connect", r.Connect}, args...)
	}

	cmd := exec.CommandContext(ctx, binary, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitStatus = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}
