package network

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	ExchangeEdgeX     = "edgex"
	ExchangeTypeTopic = "topic"

	durable          = true
	deleteWhenUnused = false
	exclusive        = false
	noWait           = false
	internal         = false
	noAck            = true
	noLocal          = false
	consumerTag      = ""
)

// Messaging is the subset of the message bus the command dispatcher needs.
type Messaging interface {
	Start() error
	Stop() error
	OnMessage(msgChan chan InMsg, queueName, exchangeName, exchangeType, key string) error
	PublishPersistentMessage(exchange, exchangeType, key string, data interface{}, options *MessageOptions) error
}

type InMsg struct {
	Exchange      string
	RoutingKey    string
	ReplyTo       string
	CorrelationID string
	Body          []byte
}

// MessageOptions represents the message publishing options
type MessageOptions struct {
	CorrelationID string
	ReplyTo       string
	Expiration    string
}

type AMQPHandler struct {
	connection        connection
	log               *logrus.Entry
	maxElapsedTime    time.Duration
	declaredExchanges map[string]struct{}
	exchangeLock      sync.Mutex
	subscriptions     []subscription
	subscriptionLock  sync.Mutex
}

// subscription is replayed after a reconnection.
type subscription struct {
	msgChan      chan InMsg
	queueName    string
	exchangeName string
	exchangeType string
	key          string
}

func NewAMQPHandler(connection connection, log *logrus.Entry, maxElapsedTime time.Duration) *AMQPHandler {
	return &AMQPHandler{
		connection:        connection,
		log:               log,
		maxElapsedTime:    maxElapsedTime,
		declaredExchanges: make(map[string]struct{}),
	}
}

// Start connects with exponential backoff, giving up after maxElapsedTime.
func (a *AMQPHandler) Start() error {
	startBackOff := backoff.NewExponentialBackOff()
	startBackOff.MaxElapsedTime = a.maxElapsedTime
	err := backoff.Retry(a.connect, startBackOff)
	if err != nil {
		return errors.Wrap(err, "connect to message bus")
	}
	go a.notifyWhenClosed()
	return nil
}

func (a *AMQPHandler) Stop() error {
	if !a.connection.isOpen() {
		return nil
	}
	return a.connection.close()
}

func (a *AMQPHandler) OnMessage(msgChan chan InMsg, queueName, exchangeName, exchangeType, key string) error {
	sub := subscription{msgChan, queueName, exchangeName, exchangeType, key}
	if err := a.subscribe(sub); err != nil {
		return err
	}
	a.subscriptionLock.Lock()
	a.subscriptions = append(a.subscriptions, sub)
	a.subscriptionLock.Unlock()
	return nil
}

func (a *AMQPHandler) subscribe(sub subscription) error {
	if err := a.declareExchange(sub.exchangeName, sub.exchangeType); err != nil {
		return errors.Wrap(err, "declare exchange")
	}
	// Reply queues belong to one client and go away with it.
	if err := a.connection.queueDeclare(sub.queueName, !durable, !deleteWhenUnused); err != nil {
		return errors.Wrap(err, "declare queue")
	}
	if err := a.connection.queueBind(sub.queueName, sub.key, sub.exchangeName); err != nil {
		return errors.Wrap(err, "bind queue")
	}

	deliveries, err := a.connection.consume(sub.queueName)
	if err != nil {
		return errors.Wrap(err, "consume queue")
	}

	go convertDeliveryToInMsg(deliveries, sub.msgChan)
	return nil
}

func (a *AMQPHandler) PublishPersistentMessage(exchange, exchangeType, key string, data interface{}, options *MessageOptions) error {
	if err := a.declareExchange(exchange, exchangeType); err != nil {
		return errors.Wrap(err, "declare exchange")
	}
	if err := a.connection.publish(exchange, key, data, options); err != nil {
		return errors.Wrap(err, "publish message")
	}
	return nil
}

// declareExchange skips exchanges this handler already declared.
func (a *AMQPHandler) declareExchange(name, exchangeType string) error {
	a.exchangeLock.Lock()
	defer a.exchangeLock.Unlock()
	if _, ok := a.declaredExchanges[name]; ok {
		return nil
	}
	if err := a.connection.exchangeDeclare(name, exchangeType); err != nil {
		return err
	}
	a.declaredExchanges[name] = struct{}{}
	return nil
}

func (a *AMQPHandler) connect() error {
	if err := a.connection.connect(); err != nil {
		a.log.WithError(err).Warn("message bus not reachable, retrying")
		return err
	}
	return a.connection.createChannel()
}

func (a *AMQPHandler) notifyWhenClosed() {
	errReason := <-a.connection.notifyClose(make(chan *amqp.Error, 1))
	if errReason == nil {
		return
	}
	a.log.WithError(errReason).Error("message bus connection lost")

	reconnectionBackOff := backoff.NewExponentialBackOff()
	reconnectionBackOff.InitialInterval = 5 * time.Second
	reconnectionBackOff.MaxInterval = 5 * time.Minute
	reconnectionBackOff.Multiplier = 1.7
	reconnectionBackOff.MaxElapsedTime = 0

	if err := backoff.Retry(a.connect, reconnectionBackOff); err != nil {
		return
	}
	a.exchangeLock.Lock()
	a.declaredExchanges = make(map[string]struct{})
	a.exchangeLock.Unlock()
	for _, sub := range a.currentSubscriptions() {
		if err := a.subscribe(sub); err != nil {
			a.log.WithError(err).WithField("Queue", sub.queueName).Error("could not restore subscription")
		}
	}
	a.log.Info("reconnected to message bus")
	go a.notifyWhenClosed()
}

func (a *AMQPHandler) currentSubscriptions() []subscription {
	a.subscriptionLock.Lock()
	defer a.subscriptionLock.Unlock()
	subscriptions := make([]subscription, len(a.subscriptions))
	copy(subscriptions, a.subscriptions)
	return subscriptions
}

func convertDeliveryToInMsg(deliveries <-chan amqp.Delivery, outMsg chan InMsg) {
	for d := range deliveries {
		outMsg <- InMsg{d.Exchange, d.RoutingKey, d.ReplyTo, d.CorrelationId, d.Body}
	}
}
