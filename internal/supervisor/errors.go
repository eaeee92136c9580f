package supervisor

import "fmt"

// Install steps reported by InstallError.
const (
	StepList     = "list"
	StepRemove   = "remove"
	StepDownload = "download"
	StepChmod    = "chmod"
)

// InstallError names the install step that failed.
type InstallError struct {
	Step string
	Path string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install %s %s: %v", e.Step, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// LaunchError means the binary could not be started. RPC calls will fail
// until the bridge is restarted.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
