package rules

import (
	"context"
	"time"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/codec"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrCommandFailed     = errors.New("device command failed")
	ErrPersistenceFailed = errors.New("rule list persistence failed")
)

// Manager keeps the rules of one device in sync with the record store and
// the device itself. It is not safe for concurrent use.
type Manager struct {
	device     string
	rules      entities.RuleSet
	store      RecordStore
	dispatcher CommandDispatcher
	log        *logrus.Entry
	metrics    *metrics.Metrics
}

type Option func(*Manager)

func WithMetrics(m *metrics.Metrics) Option {
	return func(manager *Manager) {
		manager.metrics = m
	}
}

// NewManager loads the device rule list. A failed load is logged and leaves
// the manager with an empty list.
func NewManager(ctx context.Context, device string, store RecordStore, dispatcher CommandDispatcher, log *logrus.Entry, options ...Option) *Manager {
	m := &Manager{
		device:     device,
		rules:      entities.RuleSet{},
		store:      store,
		dispatcher: dispatcher,
		log:        log.WithField("Device", device),
	}
	for _, option := range options {
		option(m)
	}

	if _, err := m.fetch(ctx); err != nil {
		m.log.WithError(err).Warn("could not load rules, starting with an empty list")
	}
	return m
}

func (m *Manager) Device() string {
	return m.device
}

// Rules returns the in-memory list without contacting the record store.
func (m *Manager) Rules() entities.RuleSet {
	return m.rules.Clone()
}

// List re-reads the rule list from the record store.
func (m *Manager) List(ctx context.Context) (entities.RuleSet, error) {
	defer m.metrics.ObserveDuration("list", time.Now())
	rules, err := m.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return rules.Clone(), nil
}

// AddOrReplace sends the encoded rule to the device and, once accepted,
// stores it in place of the rule with the same id.
func (m *Manager) AddOrReplace(ctx context.Context, rule entities.Rule) error {
	defer m.metrics.ObserveDuration("add_or_replace", time.Now())
	frame, err := codec.Encode(rule)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{entities.CommandSetRule: codec.FrameToPayload(frame)}
	if err := m.command(ctx, entities.CommandSetRule, payload); err != nil {
		return err
	}

	m.rules = m.rules.Upsert(rule)
	m.log.WithField("RuleID", rule.ID).Info("rule set on device")
	return m.persist(ctx)
}

func (m *Manager) Delete(ctx context.Context, id int) error {
	defer m.metrics.ObserveDuration("delete", time.Now())
	payload := map[string]interface{}{entities.CommandDeleteRule: id}
	if err := m.command(ctx, entities.CommandDeleteRule, payload); err != nil {
		return err
	}

	m.rules = m.rules.Remove(id)
	m.log.WithField("RuleID", id).Info("rule deleted from device")
	return m.persist(ctx)
}

func (m *Manager) ClearAll(ctx context.Context) error {
	defer m.metrics.ObserveDuration("clear_all", time.Now())
	payload := map[string]interface{}{entities.CommandDeleteAllRules: entities.DeleteAllSentinel}
	if err := m.command(ctx, entities.CommandDeleteAllRules, payload); err != nil {
		return err
	}

	m.rules = entities.RuleSet{}
	m.log.Info("all rules deleted from device")
	return m.persist(ctx)
}

func (m *Manager) fetch(ctx context.Context) (entities.RuleSet, error) {
	record, err := m.store.GetDevice(ctx, m.device)
	if err != nil {
		return nil, errors.Wrap(err, "fetch device record")
	}
	rules, err := entities.RulesFromProtocols(record.Protocols)
	if err != nil {
		return nil, err
	}
	m.rules = rules
	m.metrics.SetLoaded(m.device, len(rules))
	return rules, nil
}

func (m *Manager) command(ctx context.Context, command string, payload map[string]interface{}) error {
	result, err := m.dispatcher.Send(ctx, m.device, command, payload)
	if err == nil && !result.Succeeded() {
		err = errors.Wrapf(ErrCommandFailed, "%s returned status %d %s", command, result.StatusCode, result.Message)
	} else if err != nil {
		err = errors.Wrapf(ErrCommandFailed, "%s: %v", command, err)
	}
	m.metrics.ObserveCommand(command, err)
	if err != nil {
		m.log.WithError(err).Error("device command failed")
	}
	return err
}

// persist re-reads the device record and overwrites its rule list with the
// in-memory one. Rule changes made by others since the last fetch are lost.
func (m *Manager) persist(ctx context.Context) error {
	err := m.writeBack(ctx)
	m.metrics.ObservePersist(err)
	m.metrics.SetLoaded(m.device, len(m.rules))
	if err != nil {
		m.log.WithError(err).Error("rules applied on device but not saved to the record store")
		return errors.Wrapf(ErrPersistenceFailed, "%v", err)
	}
	return nil
}

func (m *Manager) writeBack(ctx context.Context) error {
	record, err := m.store.GetDevice(ctx, m.device)
	if err != nil {
		return errors.Wrap(err, "fetch device record")
	}
	protocols := entities.ProtocolsWithRules(record.Protocols, m.rules)
	return m.store.UpdateProtocols(ctx, m.device, protocols)
}
