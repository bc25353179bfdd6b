package network

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
)

type AmqpMock struct {
	mock.Mock
}

func (m *AmqpMock) Start() error {
	return nil
}

func (m *AmqpMock) Stop() error { return nil }

func (m *AmqpMock) OnMessage(msgChan chan InMsg, queueName, exchangeName, exchangeType, key string) error {
	args := m.Called(msgChan, queueName, exchangeName, exchangeType, key)
	return args.Error(0)
}

func (m *AmqpMock) PublishPersistentMessage(exchange, exchangeType, key string, data interface{}, options *MessageOptions) error {
	args := m.Called(exchange, exchangeType, key, data, options)
	return args.Error(0)
}

// connectionMock records the calls AMQPHandler makes on the broker.
type connectionMock struct {
	mock.Mock
	deliveries chan amqp.Delivery
	closed     chan *amqp.Error
}

func (c *connectionMock) connect() error {
	return c.Called().Error(0)
}

func (c *connectionMock) createChannel() error {
	return c.Called().Error(0)
}

func (c *connectionMock) queueDeclare(name string, durable, autoDelete bool) error {
	return c.Called(name, durable, autoDelete).Error(0)
}

func (c *connectionMock) exchangeDeclare(name, exchangeType string) error {
	return c.Called(name, exchangeType).Error(0)
}

func (c *connectionMock) queueBind(queueName, key, exchangeName string) error {
	return c.Called(queueName, key, exchangeName).Error(0)
}

func (c *connectionMock) consume(queue string) (<-chan amqp.Delivery, error) {
	args := c.Called(queue)
	return c.deliveries, args.Error(0)
}

func (c *connectionMock) publish(exchange, key string, data interface{}, options *MessageOptions) error {
	return c.Called(exchange, key, data, options).Error(0)
}

func (c *connectionMock) isOpen() bool {
	return c.Called().Bool(0)
}

func (c *connectionMock) close() error {
	return c.Called().Error(0)
}

func (c *connectionMock) notifyClose(channel chan *amqp.Error) chan *amqp.Error {
	if c.closed != nil {
		return c.closed
	}
	return channel
}
