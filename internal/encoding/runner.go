package encoding

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// Runner executes one external encoder invocation. A nil error means the
// process exited zero; any non-zero exit surfaces as *exec.ExitError.
type Runner interface {
	Run(ctx context.Context, name string, args []string) error
}

// ExecRunner is the production Runner. Children inherit stdio so encoder
// progress stays visible, and run in their own process group so an
// interrupt delivered to the coordinator does not also kill an in-flight
// encode before it can finish.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd.Run()
}
