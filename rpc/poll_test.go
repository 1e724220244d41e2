package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/soulboard-labs/soulboard-go/subscription"
)

func TestPollingAccountSubscribe(t *testing.T) {
	mock := NewMock()
	address, owner := key(1), key(9)
	mock.SetAccount(address, owner, []byte("v1"))

	transport := NewPollingTransport(mock, 5*time.Millisecond, nil)
	updates := make(chan subscription.AccountUpdate, 16)
	cancel, err := transport.AccountSubscribe(context.Background(), address, func(u subscription.AccountUpdate) {
		updates <- u
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	mock.SetAccount(address, owner, []byte("v2"))

	select {
	case u := <-updates:
		if string(u.Data) != "v2" {
			t.Fatalf("update data %q", u.Data)
		}
		if !u.Address.Equals(address) {
			t.Fatalf("update address %s", u.Address)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update observed")
	}
}

func TestPollingAccountSubscribeBaselineDoesNotFire(t *testing.T) {
	mock := NewMock()
	address := key(1)
	mock.SetAccount(address, key(9), []byte("stable"))

	transport := NewPollingTransport(mock, 5*time.Millisecond, nil)
	updates := make(chan subscription.AccountUpdate, 16)
	cancel, err := transport.AccountSubscribe(context.Background(), address, func(u subscription.AccountUpdate) {
		updates <- u
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	select {
	case u := <-updates:
		t.Fatalf("unchanged account fired update %q", u.Data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPollingAccountSubscribeCancelStops(t *testing.T) {
	mock := NewMock()
	address, owner := key(1), key(9)
	mock.SetAccount(address, owner, []byte("v1"))

	transport := NewPollingTransport(mock, 5*time.Millisecond, nil)
	updates := make(chan subscription.AccountUpdate, 16)
	cancel, err := transport.AccountSubscribe(context.Background(), address, func(u subscription.AccountUpdate) {
		updates <- u
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := cancel(); err != nil {
		t.Fatal(err)
	}

	mock.SetAccount(address, owner, []byte("v2"))
	select {
	case u := <-updates:
		t.Fatalf("cancelled subscription fired %q", u.Data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPollingLogsSubscribeDeliversInChainOrder(t *testing.T) {
	mock := NewMock()
	programID := key(5)
	// Pre-subscription history must not be replayed.
	mock.AddLogs(programID, "sig-old", []string{"old"})

	transport := NewPollingTransport(mock, 5*time.Millisecond, nil)
	updates := make(chan subscription.LogsUpdate, 16)
	cancel, err := transport.LogsSubscribe(context.Background(), programID, func(u subscription.LogsUpdate) {
		updates <- u
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	mock.AddLogs(programID, "sig-1", []string{"Program log: first"})
	mock.AddLogs(programID, "sig-2", []string{"Program log: second"})

	var got []subscription.LogsUpdate
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case u := <-updates:
			got = append(got, u)
		case <-deadline:
			t.Fatalf("observed %d updates, want 2", len(got))
		}
	}

	if got[0].Signature != "sig-1" || got[1].Signature != "sig-2" {
		t.Fatalf("delivery order %s, %s", got[0].Signature, got[1].Signature)
	}
	if got[0].Logs[0] != "Program log: first" {
		t.Fatalf("logs %v", got[0].Logs)
	}
	for _, u := range got {
		if u.Signature == "sig-old" {
			t.Fatal("pre-subscription history replayed")
		}
	}
}
