package rpc

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/subscription"
	"github.com/soulboard-labs/soulboard-go/types"
)

// SubscriptionClient is the extra node surface the polling transport needs
// beyond Client: listing new signatures touching an address and reading a
// confirmed transaction's logs.
type SubscriptionClient interface {
	Client
	// GetSignaturesForAddress returns signatures touching address, newest
	// first, stopping at until (exclusive) when until is non-empty.
	GetSignaturesForAddress(ctx context.Context, address types.PublicKey, until string) ([]string, error)
	// GetTransactionLogs returns the log lines of a confirmed transaction.
	GetTransactionLogs(ctx context.Context, signature string) ([]string, error)
}

// PollingTransport implements subscription.Transport by polling the node.
// A websocket transport would satisfy the same interface; polling keeps the
// SDK free of a streaming dependency while preserving per-change,
// in-order delivery.
type PollingTransport struct {
	client   SubscriptionClient
	interval time.Duration
	logger   *zap.Logger
}

// NewPollingTransport builds a transport polling every interval. A zero
// interval defaults to 2s.
func NewPollingTransport(client SubscriptionClient, interval time.Duration, logger *zap.Logger) *PollingTransport {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PollingTransport{client: client, interval: interval, logger: logger}
}

// AccountSubscribe polls the account and fires onUpdate whenever its data
// changes. The first poll establishes a baseline without firing.
func (t *PollingTransport) AccountSubscribe(ctx context.Context, address types.PublicKey, onUpdate func(subscription.AccountUpdate)) (func() error, error) {
	ctx, cancel := context.WithCancel(ctx)

	var last []byte
	var seeded bool
	if info, err := t.client.GetAccountInfo(ctx, address); err == nil {
		last = info.Data
		seeded = true
	}

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			info, err := t.client.GetAccountInfo(ctx, address)
			if err != nil {
				continue
			}
			if seeded && bytes.Equal(info.Data, last) {
				continue
			}
			last = info.Data
			seeded = true
			onUpdate(subscription.AccountUpdate{
				Address:  address,
				Lamports: info.Lamports,
				Data:     info.Data,
			})
		}
	}()

	return func() error {
		cancel()
		return nil
	}, nil
}

// LogsSubscribe polls for new signatures touching programID and fetches
// each transaction's logs, delivering them oldest first so handler order
// matches chain order.
func (t *PollingTransport) LogsSubscribe(ctx context.Context, programID types.PublicKey, onUpdate func(subscription.LogsUpdate)) (func() error, error) {
	ctx, cancel := context.WithCancel(ctx)

	var until string
	if sigs, err := t.client.GetSignaturesForAddress(ctx, programID, ""); err == nil && len(sigs) > 0 {
		until = sigs[0]
	}

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			sigs, err := t.client.GetSignaturesForAddress(ctx, programID, until)
			if err != nil || len(sigs) == 0 {
				continue
			}
			until = sigs[0]
			for i := len(sigs) - 1; i >= 0; i-- {
				logs, err := t.client.GetTransactionLogs(ctx, sigs[i])
				if err != nil {
					t.logger.Warn("fetch transaction logs failed",
						zap.String("signature", sigs[i]), zap.Error(err))
					continue
				}
				onUpdate(subscription.LogsUpdate{
					ProgramID: programID,
					Signature: sigs[i],
					Logs:      logs,
				})
			}
		}
	}()

	return func() error {
		cancel()
		return nil
	}, nil
}
