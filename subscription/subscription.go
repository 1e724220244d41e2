// Package subscription manages live change-notification subscriptions with
// owned unsubscribe handles. The manager is the SDK's one stateful
// component: it guards the set of active handles behind a mutex so
// subscribing, unsubscribing and CloseAll are safe from concurrent
// goroutines. Delivery order is the transport's receive order; handlers are
// invoked once per observed change with no coalescing.
package subscription

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/types"
)

// AccountUpdate is one observed change to a watched account.
type AccountUpdate struct {
	Address  types.PublicKey
	Lamports uint64
	Data     []byte
}

// LogsUpdate is one batch of program log lines from a watched program.
type LogsUpdate struct {
	ProgramID types.PublicKey
	Signature string
	Logs      []string
}

// Transport delivers change notifications for the manager. The returned
// cancel tears down the underlying stream; the manager guarantees it is
// called at most once per subscription.
type Transport interface {
	AccountSubscribe(ctx context.Context, address types.PublicKey, onUpdate func(AccountUpdate)) (cancel func() error, err error)
	LogsSubscribe(ctx context.Context, programID types.PublicKey, onUpdate func(LogsUpdate)) (cancel func() error, err error)
}

// Manager owns a set of live subscriptions.
type Manager struct {
	transport Transport
	logger    *zap.Logger

	mu     sync.Mutex
	nextID uint64
	active map[uint64]*Subscription
}

// NewManager builds a Manager over transport. A nil logger is replaced with
// a nop logger.
func NewManager(transport Transport, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		transport: transport,
		logger:    logger,
		active:    make(map[uint64]*Subscription),
	}
}

// Subscription is an owned handle to one live subscription. Unsubscribe is
// idempotent: the second and later calls are no-ops.
type Subscription struct {
	id     uint64
	key    string
	m      *Manager
	cancel func() error
	once   sync.Once
}

// Key is the subscription's (address | program id) identity, base58.
func (s *Subscription) Key() string { return s.key }

// Unsubscribe tears the subscription down. Safe to call any number of
// times; only the first call reaches the transport.
func (s *Subscription) Unsubscribe() error {
	var err error
	s.once.Do(func() {
		s.m.mu.Lock()
		delete(s.m.active, s.id)
		s.m.mu.Unlock()
		err = s.cancel()
		s.m.logger.Debug("unsubscribed", zap.String("key", s.key))
	})
	return err
}

func (m *Manager) register(key string, cancel func() error) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sub := &Subscription{id: m.nextID, key: key, m: m, cancel: cancel}
	m.active[sub.id] = sub
	return sub
}

// SubscribeAccount watches the account at address. handler fires once per
// observed change, in transport receive order.
func (m *Manager) SubscribeAccount(ctx context.Context, address types.PublicKey, handler func(AccountUpdate)) (*Subscription, error) {
	cancel, err := m.transport.AccountSubscribe(ctx, address, handler)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("subscribed to account", zap.Stringer("address", address))
	return m.register(address.String(), cancel), nil
}

// SubscribeProgramLogs watches log output of the program at programID.
func (m *Manager) SubscribeProgramLogs(ctx context.Context, programID types.PublicKey, handler func(LogsUpdate)) (*Subscription, error) {
	cancel, err := m.transport.LogsSubscribe(ctx, programID, handler)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("subscribed to program logs", zap.Stringer("program", programID))
	return m.register(programID.String(), cancel), nil
}

// Active reports the number of live subscriptions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// CloseAll tears down every outstanding subscription. The first teardown
// error is returned; teardown continues regardless.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	subs := make([]*Subscription, 0, len(m.active))
	for _, s := range m.active {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	var firstErr error
	for _, s := range subs {
		if err := s.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.logger.Info("closed all subscriptions", zap.Int("count", len(subs)))
	return firstErr
}
