package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// HTTPClient talks JSON-RPC 2.0 to a chain node over HTTP.
type HTTPClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
	nextID   atomic.Uint64
}

// HTTPOption customizes an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithLogger sets the client logger; a nop logger is used otherwise.
func WithLogger(logger *zap.Logger) HTTPOption {
	return func(c *HTTPClient) { c.logger = logger }
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) { c.http = hc }
}

// NewHTTP builds a JSON-RPC client for the node at endpoint. Requests are
// traced via the otelhttp transport.
func NewHTTP(endpoint string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		endpoint: endpoint,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// rpcError is a JSON-RPC error object. The node attaches program logs to
// failed transaction submissions under data.logs.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Logs []string `json:"logs"`
	} `json:"data"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ProgramLogs exposes captured program logs to the error mapper.
func (e *rpcError) ProgramLogs() []string { return e.Data.Logs }

func (c *HTTPClient) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: http %d: %s", method, resp.StatusCode, raw)
	}

	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if parsed.Error != nil {
		return parsed.Error
	}
	c.logger.Debug("rpc call",
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(parsed.Result, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

type accountInfoResult struct {
	Value *struct {
		Data     []string `json:"data"`
		Owner    string   `json:"owner"`
		Lamports uint64   `json:"lamports"`
	} `json:"value"`
}

// GetAccountInfo implements Client. A missing account yields an error whose
// message the error mapper recognizes as not-found.
func (c *HTTPClient) GetAccountInfo(ctx context.Context, address types.PublicKey) (*AccountInfo, error) {
	var result accountInfoResult
	params := []any{address.String(), map[string]any{"encoding": "base64"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, fmt.Errorf("account %s does not exist", address)
	}
	var data []byte
	if len(result.Value.Data) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(result.Value.Data[0])
		if err != nil {
			return nil, fmt.Errorf("getAccountInfo: decode account data: %w", err)
		}
		data = decoded
	}
	owner, err := types.PublicKeyFromBase58(result.Value.Owner)
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo: %w", err)
	}
	return &AccountInfo{Owner: owner, Lamports: result.Value.Lamports, Data: data}, nil
}

// GetBalance implements Client.
func (c *HTTPClient) GetBalance(ctx context.Context, address types.PublicKey) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{address.String()}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// GetLatestBlockhash implements Client.
func (c *HTTPClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", nil, &result); err != nil {
		return "", err
	}
	return result.Value.Blockhash, nil
}

// SendInstructions implements Client: compile, sign with the provided
// keypairs (first signer pays fees) and submit base64-encoded. Exactly one
// attempt; retry policy belongs to the caller.
func (c *HTTPClient) SendInstructions(ctx context.Context, instructions []program.Instruction, signers []*types.Keypair) (Signature, error) {
	if len(signers) == 0 {
		return "", fmt.Errorf("sendInstructions: no signers")
	}
	blockhash, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	msg, numSigners, err := compileMessage(signers[0].PublicKey(), blockhash, instructions)
	if err != nil {
		return "", err
	}
	tx, err := signTransaction(msg, numSigners, signerKeys(msg, numSigners), signers)
	if err != nil {
		return "", err
	}

	var sig string
	params := []any{base64.StdEncoding.EncodeToString(tx), map[string]any{"encoding": "base64"}}
	if err := c.call(ctx, "sendTransaction", params, &sig); err != nil {
		return "", err
	}
	c.logger.Info("transaction submitted",
		zap.String("signature", sig),
		zap.Int("instructions", len(instructions)),
	)
	return Signature(sig), nil
}
