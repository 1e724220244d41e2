package subscription

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/soulboard-labs/soulboard-go/types"
)

// fakeTransport records subscriptions and counts cancellations.
type fakeTransport struct {
	mu           sync.Mutex
	accountFns   []func(AccountUpdate)
	logsFns      []func(LogsUpdate)
	cancelCount  int
	subscribeErr error
}

func (f *fakeTransport) AccountSubscribe(_ context.Context, _ types.PublicKey, onUpdate func(AccountUpdate)) (func() error, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.mu.Lock()
	f.accountFns = append(f.accountFns, onUpdate)
	f.mu.Unlock()
	return func() error {
		f.mu.Lock()
		f.cancelCount++
		f.mu.Unlock()
		return nil
	}, nil
}

func (f *fakeTransport) LogsSubscribe(_ context.Context, _ types.PublicKey, onUpdate func(LogsUpdate)) (func() error, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.mu.Lock()
	f.logsFns = append(f.logsFns, onUpdate)
	f.mu.Unlock()
	return func() error {
		f.mu.Lock()
		f.cancelCount++
		f.mu.Unlock()
		return nil
	}, nil
}

func (f *fakeTransport) cancels() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelCount
}

func addr(b byte) types.PublicKey {
	var pk types.PublicKey
	pk[0] = b
	return pk
}

func TestSubscribeAccountDelivers(t *testing.T) {
	transport := &fakeTransport{}
	m := NewManager(transport, nil)

	var got []AccountUpdate
	sub, err := m.SubscribeAccount(context.Background(), addr(1), func(u AccountUpdate) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Key() != addr(1).String() {
		t.Fatalf("key %q", sub.Key())
	}

	transport.accountFns[0](AccountUpdate{Address: addr(1), Data: []byte("a")})
	transport.accountFns[0](AccountUpdate{Address: addr(1), Data: []byte("b")})
	if len(got) != 2 || string(got[0].Data) != "a" || string(got[1].Data) != "b" {
		t.Fatalf("updates %v", got)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	transport := &fakeTransport{}
	m := NewManager(transport, nil)

	sub, err := m.SubscribeAccount(context.Background(), addr(1), func(AccountUpdate) {})
	if err != nil {
		t.Fatal(err)
	}
	if m.Active() != 1 {
		t.Fatalf("active %d", m.Active())
	}

	for i := 0; i < 3; i++ {
		if err := sub.Unsubscribe(); err != nil {
			t.Fatal(err)
		}
	}
	if transport.cancels() != 1 {
		t.Fatalf("transport cancelled %d times", transport.cancels())
	}
	if m.Active() != 0 {
		t.Fatalf("active %d after unsubscribe", m.Active())
	}
}

func TestActiveTracksSubscriptions(t *testing.T) {
	transport := &fakeTransport{}
	m := NewManager(transport, nil)

	s1, err := m.SubscribeAccount(context.Background(), addr(1), func(AccountUpdate) {})
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.SubscribeProgramLogs(context.Background(), addr(2), func(LogsUpdate) {})
	if err != nil {
		t.Fatal(err)
	}
	if m.Active() != 2 {
		t.Fatalf("active %d", m.Active())
	}
	if err := s1.Unsubscribe(); err != nil {
		t.Fatal(err)
	}
	if m.Active() != 1 {
		t.Fatalf("active %d", m.Active())
	}
}

func TestCloseAll(t *testing.T) {
	transport := &fakeTransport{}
	m := NewManager(transport, nil)

	for i := byte(0); i < 4; i++ {
		if _, err := m.SubscribeAccount(context.Background(), addr(i), func(AccountUpdate) {}); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.CloseAll(); err != nil {
		t.Fatal(err)
	}
	if m.Active() != 0 {
		t.Fatalf("active %d after CloseAll", m.Active())
	}
	if transport.cancels() != 4 {
		t.Fatalf("cancelled %d of 4", transport.cancels())
	}
	// A second CloseAll has nothing left to do.
	if err := m.CloseAll(); err != nil {
		t.Fatal(err)
	}
	if transport.cancels() != 4 {
		t.Fatal("CloseAll cancelled twice")
	}
}

func TestSubscribeErrorPropagates(t *testing.T) {
	transport := &fakeTransport{subscribeErr: errors.New("node unreachable")}
	m := NewManager(transport, nil)
	if _, err := m.SubscribeAccount(context.Background(), addr(1), func(AccountUpdate) {}); err == nil {
		t.Fatal("transport error swallowed")
	}
	if m.Active() != 0 {
		t.Fatalf("failed subscribe registered: active %d", m.Active())
	}
}
