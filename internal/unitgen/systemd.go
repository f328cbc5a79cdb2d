package unitgen

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// realInitController implements InitController using os/exec to call
// systemctl.
type realInitController struct{}

// NewInitController returns an InitController that calls the real systemctl
// binary.
func NewInitController() InitController {
	return &realInitController{}
}

func (c *realInitController) IsAvailable() bool {
	_, err := exec.LookPath("systemctl")
	return err == nil
}

func (c *realInitController) DaemonReload() error {
	return c.run("daemon-reload")
}

func (c *realInitController) EnableNow(unit string) error {
	return c.run("enable", "--now", unit)
}

func (c *realInitController) Stop(unit string) error {
	return c.run("stop", unit)
}

func (c *realInitController) Disable(unit string) error {
	return c.run("disable", unit)
}

func (c *realInitController) IsActive(unit string) bool {
	err := exec.Command("systemctl", "is-active", "--quiet", unit).Run()
	return err == nil
}

func (c *realInitController) run(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("unitgen: systemctl %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}

// realPrivilegeChecker implements PrivilegeChecker using the effective UID.
type realPrivilegeChecker struct{}

// NewPrivilegeChecker returns a PrivilegeChecker that checks the real
// process credentials.
func NewPrivilegeChecker() PrivilegeChecker {
	return &realPrivilegeChecker{}
}

func (c *realPrivilegeChecker) IsPrivileged() bool {
	return unix.Geteuid() == 0
}
