package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/client/metrics"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

// HTTPProvider implements Provider over JSON-RPC 2.0 to an external
// signer endpoint. Every read of wallet state goes to the provider; no
// signer state is trusted across calls.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
	log      logging.Logger
	nextID   atomic.Int64
}

// NewHTTPProvider returns a provider bound to the given signer endpoint.
func NewHTTPProvider(endpoint string, log logging.Logger) *HTTPProvider {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPProvider{
		endpoint: endpoint,
		// No overall client timeout: signature prompts legitimately wait
		// for the user. Callers bound waits via ctx.
		client: &http.Client{Transport: transport},
		log:    log.With("component", "wallet-rpc"),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *wireError      `json:"error"`
}

type wireError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *wireError) toRPCError() *RPCError {
	out := &RPCError{Code: e.Code, Message: e.Message}
	if len(e.Data) > 0 {
		var s string
		if json.Unmarshal(e.Data, &s) == nil {
			out.Data = s
		} else {
			out.Data = string(e.Data)
		}
	}
	return out
}

// call performs one JSON-RPC round trip. Transport-level failures are
// wrapped in ErrNotInstalled (the signer is unreachable); provider
// failures come back as *RPCError.
func (p *HTTPProvider) call(ctx context.Context, method string, params any, result any) error {
	if p.endpoint == "" {
		return ErrNotInstalled
	}
	if params == nil {
		params = []any{}
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      p.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create rpc request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		metrics.WalletRPCErrors.WithLabelValues(method).Inc()
		p.log.Warn(ctx, "provider unreachable", "method", method, "error", err)
		return fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read rpc response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("decode rpc response: %w", err)
	}

	if rpcResp.Error != nil {
		rpcErr := rpcResp.Error.toRPCError()
		metrics.WalletRPCErrors.WithLabelValues(method).Inc()
		p.log.Debug(ctx, "provider returned error",
			"method", method, "code", rpcErr.Code, "message", rpcErr.Message)
		return rpcErr
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode rpc result: %w", err)
		}
	}
	return nil
}

func (p *HTTPProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *HTTPProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *HTTPProvider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", err
	}
	return chainID, nil
}

func (p *HTTPProvider) PersonalSign(ctx context.Context, message, account string) (string, error) {
	var signature string
	if err := p.call(ctx, "personal_sign", []any{message, account}, &signature); err != nil {
		return "", err
	}
	return signature, nil
}

func (p *HTTPProvider) SwitchChain(ctx context.Context, chainID string) error {
	return p.call(ctx, "wallet_switchEthereumChain", []any{map[string]string{"chainId": chainID}}, nil)
}

func (p *HTTPProvider) SendTransaction(ctx context.Context, tx TxParams) (string, error) {
	var txHash string
	if err := p.call(ctx, "eth_sendTransaction", []any{tx}, &txHash); err != nil {
		return "", err
	}
	return txHash, nil
}

func (p *HTTPProvider) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	var receipt *Receipt
	if err := p.call(ctx, "eth_getTransactionReceipt", []any{txHash}, &receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (p *HTTPProvider) Call(ctx context.Context, tx TxParams) (string, error) {
	var out string
	if err := p.call(ctx, "eth_call", []any{tx, "latest"}, &out); err != nil {
		return "", err
	}
	return out, nil
}
