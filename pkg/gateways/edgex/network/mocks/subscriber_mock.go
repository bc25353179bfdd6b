package mocks

import (
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/gateways/edgex/network"
	"github.com/stretchr/testify/mock"
)

type SubscriberMock struct {
	mock.Mock
}

func (s *SubscriberMock) SubscribeToCommandResponses(msgChan chan network.InMsg) error {
	args := s.Called(msgChan)
	return args.Error(0)
}
