package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	replyQueuePrefix  = "edgex.rules.command.response."
	defaultWait       = 10 * time.Second
	startMaxElapsed   = 30 * time.Second
	responseQueueSize = 16
)

var ErrNoReply = errors.New("no command reply")

// Dispatcher sends commands over the AMQP message bus and waits for the reply
// carrying the same correlation id.
type Dispatcher struct {
	amqp      Messaging
	publisher Publisher
	replyTo   string
	wait      time.Duration
	log       *logrus.Entry
	pending   map[string]chan entities.CommandResult
	pendingMu sync.Mutex
}

// DialDispatcher connects to url and returns a dispatcher ready to send.
func DialDispatcher(url string, wait time.Duration, log *logrus.Entry) (*Dispatcher, error) {
	amqp := NewAMQPHandler(NewAmqpConnection(url), log, startMaxElapsed)
	if err := amqp.Start(); err != nil {
		return nil, err
	}
	replyTo := replyQueuePrefix + uuid.NewString()
	dispatcher, err := NewDispatcher(amqp, NewMsgPublisher(amqp), NewMsgSubscriber(amqp, replyTo), replyTo, wait, log)
	if err != nil {
		_ = amqp.Stop()
		return nil, err
	}
	return dispatcher, nil
}

func NewDispatcher(amqp Messaging, publisher Publisher, subscriber Subscriber, replyTo string, wait time.Duration, log *logrus.Entry) (*Dispatcher, error) {
	if wait <= 0 {
		wait = defaultWait
	}
	d := &Dispatcher{
		amqp:      amqp,
		publisher: publisher,
		replyTo:   replyTo,
		wait:      wait,
		log:       log,
		pending:   make(map[string]chan entities.CommandResult),
	}

	msgChan := make(chan InMsg, responseQueueSize)
	if err := subscriber.SubscribeToCommandResponses(msgChan); err != nil {
		return nil, errors.Wrap(err, "subscribe to command responses")
	}
	go d.route(msgChan)
	return d, nil
}

func (d *Dispatcher) Send(ctx context.Context, device, command string, payload map[string]interface{}) (entities.CommandResult, error) {
	request := entities.NewSetCommandRequest(device, command, payload)

	reply := make(chan entities.CommandResult, 1)
	d.pendingMu.Lock()
	d.pending[request.RequestID] = reply
	d.pendingMu.Unlock()
	defer func() {
		d.pendingMu.Lock()
		delete(d.pending, request.RequestID)
		d.pendingMu.Unlock()
	}()

	if err := d.publisher.PublishCommandRequest(request, d.replyTo); err != nil {
		return entities.CommandResult{}, errors.Wrapf(err, "publish %s", command)
	}

	timer := time.NewTimer(d.wait)
	defer timer.Stop()
	select {
	case result := <-reply:
		return result, nil
	case <-timer.C:
		return entities.CommandResult{}, errors.Wrapf(ErrNoReply, "%s after %s", command, d.wait)
	case <-ctx.Done():
		return entities.CommandResult{}, errors.Wrap(ctx.Err(), command)
	}
}

func (d *Dispatcher) Close() error {
	if d.amqp == nil {
		return nil
	}
	return d.amqp.Stop()
}

func (d *Dispatcher) route(msgChan chan InMsg) {
	for msg := range msgChan {
		var response entities.CommandResponse
		if err := json.Unmarshal(msg.Body, &response); err != nil {
			d.log.WithError(err).Warn("discarding malformed command reply")
			continue
		}
		id := msg.CorrelationID
		if id == "" {
			id = response.RequestID
		}

		d.pendingMu.Lock()
		reply, ok := d.pending[id]
		d.pendingMu.Unlock()
		if !ok {
			d.log.WithField("RequestID", id).Debug("reply for an unknown or expired request")
			continue
		}
		select {
		case reply <- response.Result():
		default:
		}
	}
}
