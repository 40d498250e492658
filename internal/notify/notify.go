package notify

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
	"sync"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/qadatrack/qada/internal/constants"
)

// Permission mirrors the platform notification permission states: the
// capability has not been probed yet, delivery is available, or delivery
// has been refused. The core never assumes granted.
type Permission int

const (
	PermissionNotAsked Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "not asked"
	}
}

// Notifier is the delivery capability the scheduler depends on. Tests
// substitute a fake; the real implementation talks to the qada agent.
type Notifier interface {
	Permission() Permission
	Request() Permission
	Notify(text string) error
}

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// AgentNotifier delivers notifications through the local qada agent: a
// lockfile under the user config dir advertises "port|pid|secret", the pid
// is confirmed to be a live qada-agent process, and the text is posted to
// the agent's localhost webhook.
type AgentNotifier struct {
	mu         sync.Mutex
	permission Permission
	client     *http.Client
}

type webhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewAgentNotifier() *AgentNotifier {
	return &AgentNotifier{
		permission: PermissionNotAsked,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *AgentNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// Request probes the agent and settles the permission state: granted when
// the agent is reachable, denied when it is not. Callers may Request again
// later; a denied state is re-probed, matching a user who started the
// agent after the first refusal.
func (n *AgentNotifier) Request() Permission {
	perm := PermissionGranted
	if _, _, err := discoverAgent(); err != nil {
		perm = PermissionDenied
	}

	n.mu.Lock()
	n.permission = perm
	n.mu.Unlock()
	return perm
}

// Notify posts the text to the agent, retrying transient failures a few
// times before giving up.
func (n *AgentNotifier) Notify(text string) error {
	port, secret, err := discoverAgent()
	if err != nil {
		return err
	}

	payload := webhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}
	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(constants.NotifyRetryDelay)
		}
		if lastErr = n.post(port, secret, payload); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// AgentConfigDir returns the directory the agent keeps its lockfile in.
func AgentConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.AppName), nil
}

func discoverAgent() (port, secret string, err error) {
	dir, err := AgentConfigDir()
	if err != nil {
		return "", "", err
	}
	return validateLockfile(filepath.Join(dir, constants.NotifierLockfileName))
}

func validateLockfile(path string) (string, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.New("qada-agent is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("agent lockfile is malformed")
	}

	port := parts[0]
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return "", "", errors.New("invalid port in agent lockfile")
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in agent lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in agent lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("qada-agent process not running")
	}
	if !strings.HasPrefix(process.Executable(), "qada-agent") {
		return "", "", fmt.Errorf("process with PID %d is not qada-agent (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func (n *AgentNotifier) post(port, secret string, payload webhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Qada-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
