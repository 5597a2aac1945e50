package remote

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// LocalRunner 本地开发环境使用，忽略 host 直接在本机执行
type LocalRunner struct{}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

func (r *LocalRunner) Run(ctx context.Context, host, command string) (*Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Host:     host,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitStatus = exitErr.ExitCode()
			return res, &ExitError{Host: host, ExitStatus: res.ExitStatus, Stderr: res.Stderr}
		}
		return res, err
	}
	return res, nil
}
