package protocol

import "encoding/json"

// Command types accepted by POST /mobile/execute-command.
const (
	CmdOpenApp       = "open_app"
	CmdOpenFile      = "open_file"
	CmdSystemInfo    = "system_info"
	CmdKeyboard      = "keyboard"
	CmdFileOperation = "file_operation"
)

// CommandRequest is the envelope for a mobile remote-control command.
// Data is type-specific: a string for open_app/open_file/keyboard, a
// FileOperation object for file_operation, empty for system_info.
type CommandRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FileOperation is the Data payload for a file_operation command.
type FileOperation struct {
	Type string `json:"type"` // "list_directory" or "delete_file"
	Path string `json:"path"`
}

// CommandResult is a provider outcome, returned to the client verbatim.
type CommandResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Files      []string          `json:"files,omitempty"`
	SystemInfo map[string]string `json:"system_info,omitempty"`
}

// MetricsSnapshot is the lightweight realtime view shown by the desktop UI.
type MetricsSnapshot struct {
	CPU string `json:"cpu"`
	RAM string `json:"ram"`
	Net string `json:"net"`
}
