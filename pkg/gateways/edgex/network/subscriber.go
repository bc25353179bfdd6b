package network

type Subscriber interface {
	SubscribeToCommandResponses(msgChan chan InMsg) error
}

type msgSubscriber struct {
	amqp    Messaging
	replyTo string
}

// NewMsgSubscriber consumes replies routed to replyTo on the edgex exchange.
func NewMsgSubscriber(amqp Messaging, replyTo string) Subscriber {
	return &msgSubscriber{amqp, replyTo}
}

func (ms *msgSubscriber) SubscribeToCommandResponses(msgChan chan InMsg) error {
	return ms.amqp.OnMessage(msgChan, ms.replyTo, ExchangeEdgeX, ExchangeTypeTopic, ms.replyTo)
}
