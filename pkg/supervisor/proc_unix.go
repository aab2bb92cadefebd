//go:build !windows

package supervisor

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureCommand makes the driver the leader of a new process group.
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalTerminate(pid int) error {
	return ignoreGone(unix.Kill(pid, unix.SIGTERM))
}

// killGroup sends SIGKILL to every process in the group.
func killGroup(pgid int) error {
	if pgid <= 0 {
		return nil
	}
	return ignoreGone(unix.Kill(-pgid, unix.SIGKILL))
}

// processAlive uses signal 0 to probe for existence. EPERM means it exists but is not ours.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// processName returns the kernel's short command name for pid.
func processName(pid int) (string, error) {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/comm")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func ignoreGone(err error) error {
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
