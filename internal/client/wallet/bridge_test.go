package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

// fakeProvider is a scriptable signer double.
type fakeProvider struct {
	accounts       []string
	requestErr     error
	accountsErr    error
	chainID        string
	chainErr       error
	signature      string
	signErr        error
	switchErr      error
	txHash         string
	sendErr        error
	receipts       []*Receipt
	receiptErr     error
	callResult     string
	callErr        error
	sentTxs        []TxParams
	signedMessages []string
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return p.accounts, p.requestErr
}

func (p *fakeProvider) Accounts(ctx context.Context) ([]string, error) {
	return p.accounts, p.accountsErr
}

func (p *fakeProvider) ChainID(ctx context.Context) (string, error) {
	return p.chainID, p.chainErr
}

func (p *fakeProvider) PersonalSign(ctx context.Context, message, account string) (string, error) {
	p.signedMessages = append(p.signedMessages, message)
	return p.signature, p.signErr
}

func (p *fakeProvider) SwitchChain(ctx context.Context, chainID string) error {
	return p.switchErr
}

func (p *fakeProvider) SendTransaction(ctx context.Context, tx TxParams) (string, error) {
	p.sentTxs = append(p.sentTxs, tx)
	return p.txHash, p.sendErr
}

func (p *fakeProvider) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	if p.receiptErr != nil {
		return nil, p.receiptErr
	}
	if len(p.receipts) == 0 {
		return nil, nil
	}
	r := p.receipts[0]
	p.receipts = p.receipts[1:]
	return r, nil
}

func (p *fakeProvider) Call(ctx context.Context, tx TxParams) (string, error) {
	return p.callResult, p.callErr
}

func newTestBridge(p *fakeProvider) *Bridge {
	return NewBridge(p, logging.NewDefault(false))
}

func TestBridge_Connect(t *testing.T) {
	p := &fakeProvider{accounts: []string{"0xAbC", "0xDeF"}, chainID: "0x1"}
	b := newTestBridge(p)

	account, err := b.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xAbC", account)
	assert.Equal(t, "0xAbC", b.Account())
	assert.Equal(t, "0x1", b.ChainID())
	assert.True(t, b.Connected())
}

func TestBridge_ConnectRejected(t *testing.T) {
	p := &fakeProvider{requestErr: &RPCError{Code: CodeUserRejected, Message: "User rejected the request"}}
	b := newTestBridge(p)

	_, err := b.Connect(context.Background())
	require.ErrorIs(t, err, ErrRejected)
	assert.False(t, b.Connected())
}

func TestBridge_ConnectPendingPrompt(t *testing.T) {
	p := &fakeProvider{requestErr: &RPCError{Code: CodeRequestPending, Message: "Request already pending"}}
	b := newTestBridge(p)

	_, err := b.Connect(context.Background())
	assert.ErrorIs(t, err, ErrRequestPending)
}

func TestBridge_ConnectNoAccounts(t *testing.T) {
	p := &fakeProvider{accounts: []string{}}
	b := newTestBridge(p)

	_, err := b.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestBridge_SignMessage(t *testing.T) {
	p := &fakeProvider{accounts: []string{"0xAbC"}, signature: "0xsig"}
	b := newTestBridge(p)

	sig, ok := b.SignMessage(context.Background(), "challenge")
	require.True(t, ok)
	assert.Equal(t, "0xsig", sig)
	assert.Equal(t, []string{"challenge"}, p.signedMessages)
}

func TestBridge_SignMessageRejectedReturnsFalse(t *testing.T) {
	p := &fakeProvider{
		accounts: []string{"0xAbC"},
		signErr:  &RPCError{Code: CodeUserRejected, Message: "User rejected the request"},
	}
	b := newTestBridge(p)

	sig, ok := b.SignMessage(context.Background(), "challenge")
	assert.False(t, ok)
	assert.Empty(t, sig)
}

func TestBridge_SignMessageProviderUnavailable(t *testing.T) {
	p := &fakeProvider{requestErr: ErrNotInstalled}
	b := newTestBridge(p)

	_, ok := b.SignMessage(context.Background(), "challenge")
	assert.False(t, ok)
}

func TestBridge_SwitchNetwork(t *testing.T) {
	p := &fakeProvider{}
	b := newTestBridge(p)

	assert.True(t, b.SwitchNetwork(context.Background(), "0x89"))
	assert.Equal(t, "0x89", b.ChainID())

	p.switchErr = &RPCError{Code: CodeUnknownChain, Message: "Unrecognized chain ID"}
	assert.False(t, b.SwitchNetwork(context.Background(), "0xdead"))
	assert.Equal(t, "0x89", b.ChainID())
}

func TestBridge_PollDetectsAccountChange(t *testing.T) {
	p := &fakeProvider{accounts: []string{"0xAbC"}, chainID: "0x1"}
	b := newTestBridge(p)
	_, err := b.Connect(context.Background())
	require.NoError(t, err)

	var changed string
	p.accounts = []string{"0xDeF"}
	b.poll(context.Background(), WatchHandlers{
		OnAccountChanged: func(account string) { changed = account },
	})

	assert.Equal(t, "0xDeF", changed)
	assert.Equal(t, "0xDeF", b.Account())
}

func TestBridge_PollDisconnectsOnEmptyAccounts(t *testing.T) {
	p := &fakeProvider{accounts: []string{"0xAbC"}, chainID: "0x1"}
	b := newTestBridge(p)
	_, err := b.Connect(context.Background())
	require.NoError(t, err)

	disconnected := false
	p.accounts = nil
	b.poll(context.Background(), WatchHandlers{
		OnDisconnect: func() { disconnected = true },
	})

	assert.True(t, disconnected)
	assert.False(t, b.Connected())
}

func TestBridge_PollDetectsChainChange(t *testing.T) {
	p := &fakeProvider{accounts: []string{"0xAbC"}, chainID: "0x1"}
	b := newTestBridge(p)
	_, err := b.Connect(context.Background())
	require.NoError(t, err)

	var newChain string
	p.chainID = "0x89"
	b.poll(context.Background(), WatchHandlers{
		OnChainChanged: func(chainID string) { newChain = chainID },
	})

	assert.Equal(t, "0x89", newChain)
	assert.Equal(t, "0x89", b.ChainID())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", &RPCError{Code: CodeUserRejected}, "Please connect your wallet to continue"},
		{"pending", &RPCError{Code: CodeRequestPending}, "Wallet request already pending. Please check your wallet"},
		{"unknown chain", &RPCError{Code: CodeUnknownChain}, "Network not found in wallet"},
		{"not installed", ErrNotInstalled, "Please install or start a wallet to continue"},
		{"no accounts", ErrNoAccounts, "No accounts found in wallet"},
		{"other", assert.AnError, "Wallet request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
