//go:build windows

package supervisor

import (
	"errors"
	"os"
	"os/exec"
)

// Windows has no process groups reachable through signals; the leader is killed directly.
func configureCommand(cmd *exec.Cmd) {}

func signalTerminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	return p.Kill()
}

func killGroup(pgid int) error {
	p, err := os.FindProcess(pgid)
	if err != nil {
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func processAlive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}

func processName(pid int) (string, error) {
	return "", errors.New("process names are not available on windows")
}
