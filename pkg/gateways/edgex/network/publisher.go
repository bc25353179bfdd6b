package network

import (
	"strings"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
)

const (
	routingKeyCommandRequest = "edgex.core.command.request"
	defaultExpirationTime    = "10000"
)

type Publisher interface {
	PublishCommandRequest(request entities.CommandRequest, replyTo string) error
}

type msgPublisher struct {
	amqp Messaging
}

func NewMsgPublisher(amqp Messaging) Publisher {
	return &msgPublisher{amqp}
}

// CommandRoutingKey builds edgex.core.command.request.<device>.<command>.set.
func CommandRoutingKey(device, command string) string {
	return strings.Join([]string{routingKeyCommandRequest, device, command, entities.CommandMethodSet}, ".")
}

func (mp *msgPublisher) PublishCommandRequest(request entities.CommandRequest, replyTo string) error {
	options := MessageOptions{
		CorrelationID: request.RequestID,
		ReplyTo:       replyTo,
		Expiration:    defaultExpirationTime,
	}

	key := CommandRoutingKey(request.DeviceName, request.CommandName)
	return mp.amqp.PublishPersistentMessage(ExchangeEdgeX, ExchangeTypeTopic, key, request, &options)
}
