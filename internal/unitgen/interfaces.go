package unitgen

// InitController abstracts systemd unit activation for testability.
// All mutating operations must be idempotent: repeating an operation that is
// already applied returns nil.
type InitController interface {
	// IsAvailable returns true if systemd (systemctl) is available.
	IsAvailable() bool

	// DaemonReload executes systemctl daemon-reload to pick up unit file
	// changes.
	DaemonReload() error

	// EnableNow enables the named unit for future boots and starts it
	// immediately (systemctl enable --now).
	EnableNow(unit string) error

	// Stop stops the named unit. Returns nil if the unit is not running.
	Stop(unit string) error

	// Disable disables the named unit from starting on boot.
	Disable(unit string) error

	// IsActive returns true if the named unit is currently running.
	IsActive(unit string) bool
}

// PrivilegeChecker abstracts privilege checking for testability.
type PrivilegeChecker interface {
	// IsPrivileged returns true if the current process may write system
	// unit files and drive the init system.
	IsPrivileged() bool
}
