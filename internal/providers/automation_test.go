package providers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

func TestExecuteUnknownType(t *testing.T) {
	a := NewAutomation(NewMetrics())

	result, err := a.Execute("reboot", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("unknown command type must not succeed")
	}
	if result.Error != "Unknown command type: reboot" {
		t.Errorf("error = %q", result.Error)
	}
}

func TestKeyboardUnknownShortcut(t *testing.T) {
	a := NewAutomation(NewMetrics())

	result, err := a.Execute(protocol.CmdKeyboard, json.RawMessage(`"self destruct"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.Error != "Unknown keyboard command: self destruct" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestOpenAppRequiresName(t *testing.T) {
	a := NewAutomation(NewMetrics())

	result, err := a.Execute(protocol.CmdOpenApp, json.RawMessage(`""`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("empty app name must be rejected")
	}
}

func TestFileOperationListDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	a := NewAutomation(NewMetrics())
	data, _ := json.Marshal(protocol.FileOperation{Type: "list_directory", Path: dir})

	result, err := a.Execute(protocol.CmdFileOperation, data)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !result.Success || len(result.Files) != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestFileOperationDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewAutomation(NewMetrics())
	data, _ := json.Marshal(protocol.FileOperation{Type: "delete_file", Path: path})

	result, err := a.Execute(protocol.CmdFileOperation, data)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Success {
		t.Errorf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file must be gone")
	}
}

func TestFileOperationUnknownType(t *testing.T) {
	a := NewAutomation(NewMetrics())
	data, _ := json.Marshal(protocol.FileOperation{Type: "shred", Path: "/tmp"})

	result, err := a.Execute(protocol.CmdFileOperation, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.Error != fmt.Sprintf("Unknown file operation: %s", "shred") {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestFileOperationFailurePropagates(t *testing.T) {
	a := NewAutomation(NewMetrics())
	data, _ := json.Marshal(protocol.FileOperation{Type: "delete_file", Path: filepath.Join(t.TempDir(), "missing")})

	if _, err := a.Execute(protocol.CmdFileOperation, data); err == nil {
		t.Error("deleting a missing file must surface the provider error")
	}
}
