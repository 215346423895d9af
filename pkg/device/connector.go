// Package device provides HarmonyOS device access via the hdc bridge.
package device

// Connector is the device command channel the core components run
// against. It carries two primitives: arbitrary shell commands and
// low-level input injection. Implementations are not safe for concurrent
// use; callers issue at most one operation at a time.
type Connector interface {
	// RunCommand executes a shell command on the device and returns its
	// raw output. Output may be large (a render-tree dump for a busy
	// process can exceed 10 MB); implementations must not truncate it.
	RunCommand(cmd string) (string, error)

	// SendInput injects a low-level input event (click, swipe, keyEvent)
	// and returns the raw device output.
	SendInput(kind string, args ...string) (string, error)
}
