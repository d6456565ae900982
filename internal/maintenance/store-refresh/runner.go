// internal/maintenance/store-refresh/runner.go
package storerefresh

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes one refresh command.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
