package supervisor

import (
	"context"
	"os/exec"
)

// Runner performs process operations for the supervisor.
type Runner interface {
	// Kill terminates every process with the given executable name. An
	// error usually means nothing was running.
	Kill(ctx context.Context, name string) error
	// Start launches path detached and returns its pid.
	Start(path string, args []string) (int, error)
}

// ExecRunner runs real processes. Started processes are waited on in the
// background so they are reaped when they exit.
type ExecRunner struct {
	// OnExit, if set, is called from the reaping goroutine.
	OnExit func(pid int, err error)
}

// Kill implements Runner.
func (ExecRunner) Kill(ctx context.Context, name string) error {
	return killCommand(ctx, name).Run()
}

// Start implements Runner.
func (r ExecRunner) Start(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		if r.OnExit != nil {
			r.OnExit(pid, err)
		}
	}()
	return pid, nil
}
