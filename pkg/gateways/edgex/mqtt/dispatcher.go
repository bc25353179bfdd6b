package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	requestTopicPrefix = "edgex/core/command/request"
	responseTopic      = "edgex/response/core-command/#"
	qosAtLeastOnce     = byte(1)
	connectTimeout     = 10 * time.Second
	defaultWait        = 10 * time.Second
	quiesceMillis      = 250
)

var (
	ErrNoReply          = errors.New("no command reply")
	ErrConnectionFailed = errors.New("mqtt connection failed")
)

// pubSub is the part of pahomqtt.Client the dispatcher uses.
type pubSub interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Subscribe(topic string, qos byte, callback pahomqtt.MessageHandler) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Dispatcher sends commands over the EdgeX MQTT message bus.
type Dispatcher struct {
	client    pubSub
	wait      time.Duration
	log       *logrus.Entry
	pending   map[string]chan entities.CommandResult
	pendingMu sync.Mutex
}

// DialDispatcher connects to the broker described by conf.
func DialDispatcher(conf entities.MQTTConfig, wait time.Duration, log *logrus.Entry) (*Dispatcher, error) {
	clientID := conf.ClientID
	if clientID == "" {
		clientID = "rules-" + uuid.NewString()
	}
	opts := pahomqtt.NewClientOptions().
		AddBroker(conf.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	if conf.Username != "" {
		opts.SetUsername(conf.Username)
		opts.SetPassword(conf.Password)
	}

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.Wrapf(ErrConnectionFailed, "timeout after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, errors.Wrap(ErrConnectionFailed, err.Error())
	}
	return NewDispatcher(client, wait, log)
}

func NewDispatcher(client pubSub, wait time.Duration, log *logrus.Entry) (*Dispatcher, error) {
	if wait <= 0 {
		wait = defaultWait
	}
	d := &Dispatcher{
		client:  client,
		wait:    wait,
		log:     log,
		pending: make(map[string]chan entities.CommandResult),
	}
	token := client.Subscribe(responseTopic, qosAtLeastOnce, d.handleResponse)
	if err := waitToken(token, wait); err != nil {
		return nil, errors.Wrap(err, "subscribe to command responses")
	}
	return d, nil
}

// RequestTopic builds edgex/core/command/request/<device>/<command>/set.
func RequestTopic(device, command string) string {
	return strings.Join([]string{requestTopicPrefix, device, command, entities.CommandMethodSet}, "/")
}

func (d *Dispatcher) Send(ctx context.Context, device, command string, payload map[string]interface{}) (entities.CommandResult, error) {
	request := entities.NewSetCommandRequest(device, command, payload)
	body, err := json.Marshal(request)
	if err != nil {
		return entities.CommandResult{}, errors.Wrap(err, "encode command request")
	}

	reply := make(chan entities.CommandResult, 1)
	d.pendingMu.Lock()
	d.pending[request.RequestID] = reply
	d.pendingMu.Unlock()
	defer func() {
		d.pendingMu.Lock()
		delete(d.pending, request.RequestID)
		d.pendingMu.Unlock()
	}()

	if err := waitToken(d.client.Publish(RequestTopic(device, command), qosAtLeastOnce, false, body), d.wait); err != nil {
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
	d.client.Disconnect(quiesceMillis)
	return nil
}

// handleResponse runs on paho's goroutine; the request id is the last topic
// level, falling back to the body.
func (d *Dispatcher) handleResponse(_ pahomqtt.Client, msg pahomqtt.Message) {
	var response entities.CommandResponse
	if err := json.Unmarshal(msg.Payload(), &response); err != nil {
		d.log.WithError(err).WithField("Topic", msg.Topic()).Warn("discarding malformed command reply")
		return
	}
	id := msg.Topic()[strings.LastIndex(msg.Topic(), "/")+1:]

	d.pendingMu.Lock()
	reply, ok := d.pending[id]
	if !ok {
		reply, ok = d.pending[response.RequestID]
	}
	d.pendingMu.Unlock()
	if !ok {
		return
	}
	select {
	case reply <- response.Result():
	default:
	}
}

func waitToken(token pahomqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return errors.Errorf("mqtt operation timed out after %v", timeout)
	}
	return token.Error()
}
