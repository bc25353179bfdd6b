package mocks

import (
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/stretchr/testify/mock"
)

type PublisherMock struct {
	mock.Mock
}

func (p *PublisherMock) PublishCommandRequest(request entities.CommandRequest, replyTo string) error {
	args := p.Called(request, replyTo)
	return args.Error(0)
}
