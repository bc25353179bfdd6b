package rules

import (
	"context"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
)

// RecordStore reads and writes the device record holding the rule list.
type RecordStore interface {
	GetDevice(ctx context.Context, name string) (entities.DeviceRecord, error)
	UpdateProtocols(ctx context.Context, name string, protocols entities.Protocols) error
}

// CommandDispatcher pushes a named command to a device. A nil error only
// means the command was delivered, the result status tells whether the
// device accepted it.
type CommandDispatcher interface {
	Send(ctx context.Context, device, command string, payload map[string]interface{}) (entities.CommandResult, error)
}
