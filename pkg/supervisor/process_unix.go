//go:build unix

package supervisor

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// sysProcAttr puts the server in its own process group so a terminal
// Ctrl-C aimed at the test run does not reach it first.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// processExited polls the child without blocking and reaps it if it has exited.
func processExited(p *os.Process) (bool, error) {
	var status unix.WaitStatus
	for {
		pid, err := unix.Wait4(p.Pid, &status, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			// already reaped elsewhere
			return true, nil
		case err != nil:
			return false, err
		}
		return pid == p.Pid, nil
	}
}

func interrupt(p *os.Process) error {
	return p.Signal(unix.SIGINT)
}
