package device

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DumpCommand is the shell command that produces the render-tree dump.
const DumpCommand = `hidumper -s RenderService -a RSTree`

// remoteScreenshotPath is where snapshot_display writes on the device.
const remoteScreenshotPath = "/data/local/tmp/hypium-runner.jpeg"

// HarmonyDevice manages a HarmonyOS device connection via hdc.
type HarmonyDevice struct {
	target  string
	hdcPath string
}

// Info contains basic device information.
type Info struct {
	Target  string
	Name    string
	Version string
}

// New creates a HarmonyDevice for the given connect key. If target is
// empty, the first connected device is used. If hdcPath is empty, hdc
// is located on PATH. The device is polled with backoff until it
// reports as connected.
func New(target, hdcPath string) (*HarmonyDevice, error) {
	var err error
	if hdcPath == "" {
		hdcPath, err = findHDC()
		if err != nil {
			return nil, err
		}
	}

	if target == "" {
		target, err = detectTarget(hdcPath)
		if err != nil {
			return nil, fmt.Errorf("no target specified and auto-detect failed: %w", err)
		}
	}

	d := &HarmonyDevice{
		target:  target,
		hdcPath: hdcPath,
	}

	policy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(250*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithMaxElapsedTime(10*time.Second),
	)
	if err := backoff.Retry(d.checkConnected, policy); err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}

	return d, nil
}

// detectTarget finds the first connected target key.
func detectTarget(hdcPath string) (string, error) {
	cmd := exec.Command(hdcPath, "list", "targets")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "Empty") {
			continue
		}
		// "hdc list targets -v" style lines carry extra columns
		return strings.Fields(line)[0], nil
	}
	return "", fmt.Errorf("no connected targets found")
}

// Target returns the device connect key.
func (d *HarmonyDevice) Target() string {
	return d.target
}

// RunCommand executes a shell command on the device.
func (d *HarmonyDevice) RunCommand(cmd string) (string, error) {
	return d.hdc("shell", cmd)
}

// SendInput injects a uitest input event on the device.
func (d *HarmonyDevice) SendInput(kind string, args ...string) (string, error) {
	parts := append([]string{"uitest", "uiInput", kind}, args...)
	return d.RunCommand(strings.Join(parts, " "))
}

// DumpRenderTree reads the full render-tree dump.
func (d *HarmonyDevice) DumpRenderTree() (string, error) {
	return d.RunCommand(DumpCommand)
}

// LaunchApp starts an ability of the given bundle.
func (d *HarmonyDevice) LaunchApp(bundle, ability string) (string, error) {
	if ability == "" {
		ability = "EntryAbility"
	}
	return d.RunCommand(fmt.Sprintf("aa start -b %s -a %s", bundle, ability))
}

// StopApp force-stops the given bundle.
func (d *HarmonyDevice) StopApp(bundle string) (string, error) {
	return d.RunCommand("aa force-stop " + bundle)
}

// Screenshot captures the display and transfers the image to localPath.
func (d *HarmonyDevice) Screenshot(localPath string) error {
	if _, err := d.RunCommand("snapshot_display -f " + remoteScreenshotPath); err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if _, err := d.hdc("file", "recv", remoteScreenshotPath, localPath); err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}
	_, _ = d.RunCommand("rm -f " + remoteScreenshotPath)
	return nil
}

// Info returns device information.
func (d *HarmonyDevice) Info() (Info, error) {
	info := Info{Target: d.target}

	if name, err := d.RunCommand("param get const.product.name"); err == nil {
		info.Name = strings.TrimSpace(name)
	}
	if ver, err := d.RunCommand("param get const.product.software.version"); err == nil {
		info.Version = strings.TrimSpace(ver)
	}

	return info, nil
}

// hdc executes an hdc command. Output is buffered without a size cap:
// render-tree dumps for busy processes run well past 10 MB.
func (d *HarmonyDevice) hdc(args ...string) (string, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if d.target != "" {
		cmdArgs = append(cmdArgs, "-t", d.target)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(d.hdcPath, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = stdout.String()
		}
		return "", fmt.Errorf("hdc %s: %w: %s", strings.Join(args, " "), err, errMsg)
	}

	return stdout.String(), nil
}

// checkConnected verifies the device answers on the shell channel.
func (d *HarmonyDevice) checkConnected() error {
	out, err := d.RunCommand("echo ready")
	if err != nil {
		return err
	}
	if !strings.Contains(out, "ready") {
		return fmt.Errorf("unexpected response from target %s", d.target)
	}
	return nil
}

// findHDC locates the hdc binary.
func findHDC() (string, error) {
	if path, err := exec.LookPath("hdc"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("hdc not found in PATH; ensure the HarmonyOS SDK toolchains are installed")
}
