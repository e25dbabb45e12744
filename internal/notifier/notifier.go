package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/mayatruitt/habitpal/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Notifier delivers desktop notifications through the tray companion app's
// local webhook. Delivery failures are expected when the tray app is not
// running and never interrupt the caller.
type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 3 * time.Second}}
}

func (n *Notifier) Notify(text string) error {
	dir, err := trayConfigDir()
	if err != nil {
		return err
	}

	endpoint, err := discoverTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return n.post(endpoint, WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// trayEndpoint is the validated connection target parsed from the tray
// app's lockfile, which holds one "port|pid|secret" line.
type trayEndpoint struct {
	port   int
	pid    int
	secret string
}

func (e trayEndpoint) url() string {
	return fmt.Sprintf("http://127.0.0.1:%d", e.port)
}

// verifyProcess confirms the pid in the lockfile still belongs to the tray
// app, guarding against a stale lockfile whose pid was recycled.
func (e trayEndpoint) verifyProcess() error {
	proc, err := findProcessFunc(e.pid)
	if err != nil || proc == nil {
		return errors.New("habitpal-tray process not running")
	}
	if !strings.HasPrefix(proc.Executable(), "habitpal-tray") {
		return fmt.Errorf("pid %d belongs to %s, not habitpal-tray", e.pid, proc.Executable())
	}
	return nil
}

// discoverTray reads and validates the lockfile and checks the process
// behind it is alive.
func discoverTray(lockfilePath string) (trayEndpoint, error) {
	raw, err := os.ReadFile(lockfilePath)
	if err != nil {
		return trayEndpoint{}, errors.New("habitpal-tray is not running")
	}

	endpoint, err := parseLockfile(string(raw))
	if err != nil {
		return trayEndpoint{}, err
	}
	if err := endpoint.verifyProcess(); err != nil {
		return trayEndpoint{}, err
	}
	return endpoint, nil
}

func parseLockfile(content string) (trayEndpoint, error) {
	fields := strings.Split(strings.TrimSpace(content), "|")
	if len(fields) != 3 {
		return trayEndpoint{}, fmt.Errorf("lockfile has %d fields, want port|pid|secret", len(fields))
	}

	port, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return trayEndpoint{}, fmt.Errorf("lockfile port %q is not a number", fields[0])
	}
	if port < 1 || port > 65535 {
		return trayEndpoint{}, fmt.Errorf("lockfile port %d is out of range", port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return trayEndpoint{}, fmt.Errorf("lockfile pid %q is not a number", fields[1])
	}

	secret := strings.TrimSpace(fields[2])
	if secret == "" {
		return trayEndpoint{}, errors.New("lockfile secret is empty")
	}

	return trayEndpoint{port: port, pid: pid, secret: secret}, nil
}

// trayConfigDir resolves where the tray app drops its lockfile: its own
// config dir by default, or the lockfile_dir named in its settings file.
func trayConfigDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	dir := filepath.Join(base, constants.TrayAppIdentifier)
	if override, ok := lockfileDirOverride(filepath.Join(dir, "settings.json")); ok {
		return override, nil
	}
	return dir, nil
}

func lockfileDirOverride(settingsPath string) (string, bool) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return "", false
	}

	var doc struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.Settings.LockfileDir == "" {
		return "", false
	}
	return doc.Settings.LockfileDir, true
}

func (n *Notifier) post(endpoint trayEndpoint, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, endpoint.url(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Habitpal-Secret", endpoint.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
