package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// rpcFixture serves canned JSON-RPC responses keyed by method.
func rpcFixture(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		body, ok := responses[req.Method]
		if !ok {
			t.Errorf("unexpected method %s", req.Method)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,%s}`, req.ID, body)
	}))
}

func TestGetAccountInfo(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("payload"))
	owner := program.DefaultProgramID
	srv := rpcFixture(t, map[string]string{
		"getAccountInfo": fmt.Sprintf(`"result":{"value":{"data":["%s","base64"],"owner":"%s","lamports":1500}}`, data, owner),
	})
	defer srv.Close()

	c := NewHTTP(srv.URL)
	info, err := c.GetAccountInfo(context.Background(), key(1))
	if err != nil {
		t.Fatal(err)
	}
	if string(info.Data) != "payload" {
		t.Fatalf("data %q", info.Data)
	}
	if !info.Owner.Equals(owner) {
		t.Fatalf("owner %s", info.Owner)
	}
	if info.Lamports != 1500 {
		t.Fatalf("lamports %d", info.Lamports)
	}
}

func TestGetAccountInfoMissingAccount(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getAccountInfo": `"result":{"value":null}`,
	})
	defer srv.Close()

	c := NewHTTP(srv.URL)
	addr := key(7)
	_, err := c.GetAccountInfo(context.Background(), addr)
	if err == nil {
		t.Fatal("missing account fetched")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("message %q lacks the not-found marker", err)
	}
	mapped := errdefs.MapFetchError("fetch", addr, err)
	if !errdefs.IsAccountNotFound(mapped) {
		t.Fatalf("mapper did not classify %v", err)
	}
}

func TestGetLatestBlockhash(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getLatestBlockhash": fmt.Sprintf(`"result":{"value":{"blockhash":"%s"}}`, testBlockhash),
	})
	defer srv.Close()

	c := NewHTTP(srv.URL)
	got, err := c.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != testBlockhash {
		t.Fatalf("got %q", got)
	}
}

func TestGetBalance(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getBalance": `"result":{"value":42}`,
	})
	defer srv.Close()

	c := NewHTTP(srv.URL)
	got, err := c.GetBalance(context.Background(), key(1))
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %d", got)
	}
}

func TestSendInstructions(t *testing.T) {
	wallet, err := types.NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	srv := rpcFixture(t, map[string]string{
		"getLatestBlockhash": fmt.Sprintf(`"result":{"value":{"blockhash":"%s"}}`, testBlockhash),
		"sendTransaction":    `"result":"5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tp"`,
	})
	defer srv.Close()

	c := NewHTTP(srv.URL)
	ix := program.CreateAdvertiser(key(9), key(2), wallet.PublicKey())
	sig, err := c.SendInstructions(context.Background(), []program.Instruction{ix}, []*types.Keypair{wallet})
	if err != nil {
		t.Fatal(err)
	}
	if sig != "5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tp" {
		t.Fatalf("signature %q", sig)
	}
}

func TestSendInstructionsNoSigners(t *testing.T) {
	c := NewHTTP("http://127.0.0.1:0")
	if _, err := c.SendInstructions(context.Background(), nil, nil); err == nil {
		t.Fatal("no signers accepted")
	}
}

func TestRPCErrorCarriesProgramLogs(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getBalance": `"error":{"code":-32002,"message":"Transaction simulation failed","data":{"logs":["Program log: insufficient budget"]}}`,
	})
	defer srv.Close()

	c := NewHTTP(srv.URL)
	_, err := c.GetBalance(context.Background(), key(1))
	if err == nil {
		t.Fatal("error response swallowed")
	}
	logs := errdefs.ProgramLogs(err)
	if len(logs) != 1 || logs[0] != "Program log: insufficient budget" {
		t.Fatalf("logs %v", logs)
	}
	mapped := errdefs.MapExecutionError("op", err)
	if !errdefs.IsTransactionFailed(mapped) {
		t.Fatalf("got %v", mapped)
	}
}
