package entities

import "github.com/google/uuid"

const (
	CommandAPIVersion = "v3"
	CommandMethodSet  = "set"
)

// CommandRequest is the EdgeX message bus command envelope.
type CommandRequest struct {
	APIVersion  string                 `json:"apiVersion"`
	RequestID   string                 `json:"requestId"`
	DeviceName  string                 `json:"deviceName"`
	CommandName string                 `json:"commandName"`
	Method      string                 `json:"method"`
	Payload     map[string]interface{} `json:"payload"`
}

// NewSetCommandRequest builds a set request with a fresh request id.
func NewSetCommandRequest(device, command string, payload map[string]interface{}) CommandRequest {
	return CommandRequest{
		APIVersion:  CommandAPIVersion,
		RequestID:   uuid.NewString(),
		DeviceName:  device,
		CommandName: command,
		Method:      CommandMethodSet,
		Payload:     payload,
	}
}

type CommandResponse struct {
	APIVersion string `json:"apiVersion"`
	RequestID  string `json:"requestId"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

func (r CommandResponse) Result() CommandResult {
	return CommandResult{StatusCode: r.StatusCode, Message: r.Message}
}
