//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

func setProcessGroup(cmd *exec.Cmd) {}

// terminateGroup uses taskkill to request termination of the process tree;
// Windows has no SIGTERM equivalent for console children.
func terminateGroup(cmd *exec.Cmd) error {
	return exec.Command("taskkill", "/pid", strconv.Itoa(cmd.Process.Pid), "/t").Run()
}

// killGroup force-terminates the process tree.
func killGroup(cmd *exec.Cmd) error {
	return exec.Command("taskkill", "/pid", strconv.Itoa(cmd.Process.Pid), "/t", "/f").Run()
}
