package providers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/micmonay/keybd_event"

	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

// Automation executes remote-control commands: launching applications,
// opening files, injecting keyboard shortcuts and simple file operations.
type Automation struct {
	metrics *Metrics
}

// NewAutomation creates the automation provider. System-info requests are
// answered from the shared metrics provider.
func NewAutomation(metrics *Metrics) *Automation {
	return &Automation{metrics: metrics}
}

// Execute dispatches a command by type. An unknown type is a business
// rejection (success=false result), not an internal error.
func (a *Automation) Execute(cmdType string, data json.RawMessage) (protocol.CommandResult, error) {
	switch cmdType {
	case protocol.CmdOpenApp:
		return a.openApp(data)
	case protocol.CmdOpenFile:
		return a.openFile(data)
	case protocol.CmdSystemInfo:
		return a.SystemInfo()
	case protocol.CmdKeyboard:
		return a.keyboard(data)
	case protocol.CmdFileOperation:
		return a.fileOperation(data)
	default:
		return protocol.CommandResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown command type: %s", cmdType),
		}, nil
	}
}

// SystemInfo returns a detailed host snapshot.
func (a *Automation) SystemInfo() (protocol.CommandResult, error) {
	info, err := a.metrics.SystemInfo()
	if err != nil {
		return protocol.CommandResult{}, err
	}
	return protocol.CommandResult{Success: true, SystemInfo: info}, nil
}

// --- Command handlers ---

// knownApps maps friendly names to Windows executables, matching what the
// mobile app offers in its shortcut list.
var knownApps = map[string]string{
	"chrome":        "chrome.exe",
	"notepad":       "notepad.exe",
	"calculator":    "calc.exe",
	"file explorer": "explorer.exe",
	"task manager":  "taskmgr.exe",
	"control panel": "control.exe",
	"cmd":           "cmd.exe",
	"powershell":    "powershell.exe",
}

func (a *Automation) openApp(data json.RawMessage) (protocol.CommandResult, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil || name == "" {
		return protocol.CommandResult{Success: false, Error: "open_app: application name required"}, nil
	}

	target := name
	if runtime.GOOS == "windows" {
		if exe, ok := knownApps[strings.ToLower(name)]; ok {
			target = exe
		}
	}

	if err := launch(target); err != nil {
		return protocol.CommandResult{}, fmt.Errorf("open app %q: %w", name, err)
	}

	slog.Info("application launched", "app", name)
	return protocol.CommandResult{Success: true, Message: fmt.Sprintf("Opened %s", name)}, nil
}

func (a *Automation) openFile(data json.RawMessage) (protocol.CommandResult, error) {
	var path string
	if err := json.Unmarshal(data, &path); err != nil || path == "" {
		return protocol.CommandResult{Success: false, Error: "open_file: path required"}, nil
	}

	if err := openWithDefault(path); err != nil {
		return protocol.CommandResult{}, fmt.Errorf("open file %q: %w", path, err)
	}

	slog.Info("file opened", "path", path)
	return protocol.CommandResult{Success: true, Message: fmt.Sprintf("Opened %s", path)}, nil
}

// shortcut is a keyboard chord: modifiers plus one key.
type shortcut struct {
	ctrl  bool
	alt   bool
	shift bool
	key   int
}

var shortcuts = map[string]shortcut{
	"copy":           {ctrl: true, key: keybd_event.VK_C},
	"paste":          {ctrl: true, key: keybd_event.VK_V},
	"cut":            {ctrl: true, key: keybd_event.VK_X},
	"select all":     {ctrl: true, key: keybd_event.VK_A},
	"save":           {ctrl: true, key: keybd_event.VK_S},
	"undo":           {ctrl: true, key: keybd_event.VK_Z},
	"redo":           {ctrl: true, key: keybd_event.VK_Y},
	"close window":   {alt: true, key: keybd_event.VK_F4},
	"task manager":   {ctrl: true, shift: true, key: keybd_event.VK_ESC},
	"switch windows": {alt: true, key: keybd_event.VK_TAB},
}

func (a *Automation) keyboard(data json.RawMessage) (protocol.CommandResult, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil || name == "" {
		return protocol.CommandResult{Success: false, Error: "keyboard: shortcut name required"}, nil
	}

	sc, ok := shortcuts[strings.ToLower(name)]
	if !ok {
		return protocol.CommandResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown keyboard command: %s", name),
		}, nil
	}

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return protocol.CommandResult{}, fmt.Errorf("keyboard: %w", err)
	}
	kb.SetKeys(sc.key)
	kb.HasCTRL(sc.ctrl)
	kb.HasALT(sc.alt)
	kb.HasSHIFT(sc.shift)
	if err := kb.Launching(); err != nil {
		return protocol.CommandResult{}, fmt.Errorf("keyboard %q: %w", name, err)
	}

	slog.Info("keyboard shortcut injected", "shortcut", name)
	return protocol.CommandResult{Success: true, Message: fmt.Sprintf("Executed: %s", name)}, nil
}

func (a *Automation) fileOperation(data json.RawMessage) (protocol.CommandResult, error) {
	var op protocol.FileOperation
	if err := json.Unmarshal(data, &op); err != nil {
		return protocol.CommandResult{Success: false, Error: "file_operation: malformed payload"}, nil
	}

	switch op.Type {
	case "list_directory":
		entries, err := os.ReadDir(op.Path)
		if err != nil {
			return protocol.CommandResult{}, fmt.Errorf("list %q: %w", op.Path, err)
		}
		files := make([]string, 0, len(entries))
		for _, e := range entries {
			files = append(files, e.Name())
		}
		return protocol.CommandResult{Success: true, Files: files}, nil

	case "delete_file":
		if err := os.Remove(op.Path); err != nil {
			return protocol.CommandResult{}, fmt.Errorf("delete %q: %w", op.Path, err)
		}
		slog.Info("file deleted", "path", op.Path)
		return protocol.CommandResult{Success: true, Message: fmt.Sprintf("Deleted: %s", op.Path)}, nil

	default:
		return protocol.CommandResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown file operation: %s", op.Type),
		}, nil
	}
}

// --- Platform launchers ---

// launch starts a program without waiting for it to exit.
func launch(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	case "darwin":
		cmd = exec.Command("open", "-a", target)
	default:
		cmd = exec.Command(target)
	}
	return cmd.Start()
}

// openWithDefault opens a file or folder with the OS default handler.
func openWithDefault(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
