package mocks

import (
	"context"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/stretchr/testify/mock"
)

type RecordStoreMock struct {
	mock.Mock
}

func (r *RecordStoreMock) GetDevice(ctx context.Context, name string) (entities.DeviceRecord, error) {
	args := r.Called(name)
	return args.Get(0).(entities.DeviceRecord), args.Error(1)
}

func (r *RecordStoreMock) UpdateProtocols(ctx context.Context, name string, protocols entities.Protocols) error {
	args := r.Called(name, protocols)
	return args.Error(0)
}
