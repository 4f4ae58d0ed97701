package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/client/api"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/client/wallet"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l noopLogger) With(args ...any) logging.Logger                  { return l }

type fakeSession struct {
	user         *models.User
	accessToken  string
	refreshToken string
	logoutCalls  int
}

func (s *fakeSession) Login(user *models.User, accessToken, refreshToken string) error {
	s.user, s.accessToken, s.refreshToken = user, accessToken, refreshToken
	return nil
}

func (s *fakeSession) Logout() error {
	s.user, s.accessToken, s.refreshToken = nil, "", ""
	s.logoutCalls++
	return nil
}

func (s *fakeSession) SetUser(user *models.User) error {
	s.user = user
	return nil
}

func (s *fakeSession) User() *models.User { return s.user }

type fakeWallet struct {
	account    string
	connectErr error
	signature  string
	signOK     bool

	connectCalls int
	signedWith   string
}

func (w *fakeWallet) Connect(ctx context.Context) (string, error) {
	w.connectCalls++
	if w.connectErr != nil {
		return "", w.connectErr
	}
	return w.account, nil
}

func (w *fakeWallet) SignMessage(ctx context.Context, message string) (string, bool) {
	w.signedWith = message
	return w.signature, w.signOK
}

type fakeAuthAPI struct {
	authResp  *api.AuthResponse
	authErr   error
	nonce     string
	nonceErr  error
	profile   *models.User
	statusMsg string

	nonceFor    string
	walletLogin struct {
		calls     int
		address   string
		signature string
	}
}

func (a *fakeAuthAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return a.authResp, a.authErr
}

func (a *fakeAuthAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	return a.authResp, a.authErr
}

func (a *fakeAuthAPI) Nonce(ctx context.Context, walletAddress string) (string, error) {
	a.nonceFor = walletAddress
	return a.nonce, a.nonceErr
}

func (a *fakeAuthAPI) WalletLogin(ctx context.Context, walletAddress, signature string) (*api.AuthResponse, error) {
	a.walletLogin.calls++
	a.walletLogin.address = walletAddress
	a.walletLogin.signature = signature
	return a.authResp, a.authErr
}

func (a *fakeAuthAPI) ForgotPassword(ctx context.Context, email string) (*api.StatusResponse, error) {
	return &api.StatusResponse{Success: true, Message: a.statusMsg}, a.authErr
}

func (a *fakeAuthAPI) ResetPassword(ctx context.Context, email, token, newPassword string) (*api.StatusResponse, error) {
	return &api.StatusResponse{Success: true, Message: a.statusMsg}, a.authErr
}

func (a *fakeAuthAPI) Profile(ctx context.Context) (*models.User, error) {
	return a.profile, a.authErr
}

type fakeEscrowAPI struct {
	page      *models.EscrowPage
	pages     map[int]*models.EscrowPage
	escrow    *models.Escrow
	proof     *models.Proof
	actionErr error

	listCalls    int
	releaseCalls int
	refundCalls  int
	disputeCalls int
	proofSubmits int
	confirm      struct {
		calls    int
		escrowID int64
		txHash   string
		err      error
	}
}

func (a *fakeEscrowAPI) ListEscrows(ctx context.Context, params api.ListEscrowsParams) (*models.EscrowPage, error) {
	a.listCalls++
	if a.pages != nil {
		if p, ok := a.pages[params.Page]; ok {
			return p, nil
		}
		return &models.EscrowPage{}, nil
	}
	return a.page, nil
}

func (a *fakeEscrowAPI) CreateEscrow(ctx context.Context, req api.CreateEscrowRequest) (*models.Escrow, error) {
	return a.escrow, a.actionErr
}

func (a *fakeEscrowAPI) ReleaseFunds(ctx context.Context, escrowID int64) error {
	a.releaseCalls++
	return a.actionErr
}

func (a *fakeEscrowAPI) RefundBuyer(ctx context.Context, escrowID int64) error {
	a.refundCalls++
	return a.actionErr
}

func (a *fakeEscrowAPI) RaiseDispute(ctx context.Context, escrowID int64, reason string) error {
	a.disputeCalls++
	return a.actionErr
}

func (a *fakeEscrowAPI) SubmitProof(ctx context.Context, escrowID int64, req api.SubmitProofRequest) error {
	a.proofSubmits++
	return a.actionErr
}

func (a *fakeEscrowAPI) Proof(ctx context.Context, escrowID int64) (*models.Proof, error) {
	return a.proof, a.actionErr
}

func (a *fakeEscrowAPI) ConfirmReceipt(ctx context.Context, escrowID int64, transactionHash string) error {
	a.confirm.calls++
	a.confirm.escrowID = escrowID
	a.confirm.txHash = transactionHash
	return a.confirm.err
}

type fakeContract struct {
	receipt *wallet.Receipt
	err     error
	calls   int
}

func (c *fakeContract) ConfirmReceipt(ctx context.Context, from string, escrowID int64) (*wallet.Receipt, error) {
	c.calls++
	return c.receipt, c.err
}

// fakeCache is an in-memory Repository for service tests.
type fakeCache struct {
	pages  map[string]*models.EscrowPage
	proofs map[int64]*models.Proof

	pageInvalidations  int
	proofInvalidations int
	clearCalls         int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		pages:  map[string]*models.EscrowPage{},
		proofs: map[int64]*models.Proof{},
	}
}

func (c *fakeCache) GetPage(ctx context.Context, key string, maxAge time.Duration) (*models.EscrowPage, bool, error) {
	p, ok := c.pages[key]
	return p, ok, nil
}

func (c *fakeCache) PutPage(ctx context.Context, key string, page *models.EscrowPage) error {
	c.pages[key] = page
	return nil
}

func (c *fakeCache) InvalidatePages(ctx context.Context) error {
	c.pages = map[string]*models.EscrowPage{}
	c.pageInvalidations++
	return nil
}

func (c *fakeCache) GetProof(ctx context.Context, escrowID int64, maxAge time.Duration) (*models.Proof, bool, error) {
	p, ok := c.proofs[escrowID]
	return p, ok, nil
}

func (c *fakeCache) PutProof(ctx context.Context, escrowID int64, proof *models.Proof) error {
	c.proofs[escrowID] = proof
	return nil
}

func (c *fakeCache) InvalidateProofs(ctx context.Context, escrowID int64) error {
	delete(c.proofs, escrowID)
	c.proofInvalidations++
	return nil
}

func (c *fakeCache) Clear(ctx context.Context) error {
	c.pages = map[string]*models.EscrowPage{}
	c.proofs = map[int64]*models.Proof{}
	c.clearCalls++
	return nil
}
