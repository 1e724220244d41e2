package rpc

import (
	"context"

	"github.com/soulboard-labs/soulboard-go/types"
)

// GetSignaturesForAddress implements SubscriptionClient.
func (c *HTTPClient) GetSignaturesForAddress(ctx context.Context, address types.PublicKey, until string) ([]string, error) {
	opts := map[string]any{"limit": 100}
	if until != "" {
		opts["until"] = until
	}
	var result []struct {
		Signature string `json:"signature"`
	}
	if err := c.call(ctx, "getSignaturesForAddress", []any{address.String(), opts}, &result); err != nil {
		return nil, err
	}
	sigs := make([]string, 0, len(result))
	for _, entry := range result {
		sigs = append(sigs, entry.Signature)
	}
	return sigs, nil
}

// GetTransactionLogs implements SubscriptionClient.
func (c *HTTPClient) GetTransactionLogs(ctx context.Context, signature string) ([]string, error) {
	var result struct {
		Meta struct {
			LogMessages []string `json:"logMessages"`
		} `json:"meta"`
	}
	params := []any{signature, map[string]any{"encoding": "json"}}
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}
	return result.Meta.LogMessages, nil
}
