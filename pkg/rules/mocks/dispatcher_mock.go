package mocks

import (
	"context"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/stretchr/testify/mock"
)

type DispatcherMock struct {
	mock.Mock
}

func (d *DispatcherMock) Send(ctx context.Context, device, command string, payload map[string]interface{}) (entities.CommandResult, error) {
	args := d.Called(device, command, payload)
	return args.Get(0).(entities.CommandResult), args.Error(1)
}
