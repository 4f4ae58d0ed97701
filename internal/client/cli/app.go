package cli

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/escrowdeck/internal/client/api"
	"github.com/dmitrijs2005/escrowdeck/internal/client/config"
	"github.com/dmitrijs2005/escrowdeck/internal/client/metrics"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/client/repositories/escrowcache"
	"github.com/dmitrijs2005/escrowdeck/internal/client/services"
	"github.com/dmitrijs2005/escrowdeck/internal/client/session"
	"github.com/dmitrijs2005/escrowdeck/internal/client/wallet"
	"github.com/dmitrijs2005/escrowdeck/internal/filex"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

// authService is the command surface of services.AuthService used by the
// CLI.
type authService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	WalletLogin(ctx context.Context) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, token, password, confirm string) (string, error)
	RefreshProfile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

type escrowService interface {
	List(ctx context.Context, params api.ListEscrowsParams, forceRefresh bool) (*models.EscrowPage, error)
	Find(ctx context.Context, escrowID int64) (*models.Escrow, error)
	Create(ctx context.Context, in services.CreateEscrowInput) (*models.Escrow, error)
	Release(ctx context.Context, e *models.Escrow) error
	Refund(ctx context.Context, e *models.Escrow) error
	Dispute(ctx context.Context, e *models.Escrow, reason string) error
	SubmitProof(ctx context.Context, e *models.Escrow, proofURI, description string) error
	Proof(ctx context.Context, escrowID int64) (*models.Proof, error)
	ConfirmReceipt(ctx context.Context, e *models.Escrow) (*services.ConfirmReceiptResult, error)
	ResubmitReceipt(ctx context.Context, escrowID int64, transactionHash string) error
	PermittedActions(e *models.Escrow) models.ActionSet
}

type userService interface {
	All(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, term string) ([]models.User, error)
	Suggestions(ctx context.Context, limit int) ([]models.User, error)
	UpdateProfile(ctx context.Context, in services.UpdateProfileInput) (*models.User, error)
}

type proofUploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}

type sessionState interface {
	User() *models.User
	IsAuthenticated() bool
	IsAdmin() bool
	AccessTokenExpiry() (time.Time, bool)
}

type walletState interface {
	Connect(ctx context.Context) (string, error)
	SwitchNetwork(ctx context.Context, chainID string) bool
	Account() string
	Connected() bool
}

// App wires the services behind the REPL commands.
type App struct {
	config   *config.Config
	auth     authService
	escrows  escrowService
	users    userService
	uploader proofUploader
	session  sessionState
	wallet   walletState
	bridge   *wallet.Bridge
	log      logging.Logger
	reader   *bufio.Reader
}

// NewApp builds the full client: session store, cache database, REST
// gateway, wallet bridge, contract helper and the services on top.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewDefault(c.Verbose)

	stateDir, err := filex.EnsureDir(c.StateDir)
	if err != nil {
		return nil, err
	}

	sess := session.New(filepath.Join(stateDir, "session.json"))
	if err := sess.Initialize(); err != nil {
		return nil, err
	}

	db, err := escrowcache.Open(ctx, filepath.Join(stateDir, "cache.db"))
	if err != nil {
		return nil, err
	}
	cache := escrowcache.NewSqliteRepository(db)

	apiClient := api.New(c.APIBaseURL, sess, log)

	provider := wallet.NewHTTPProvider(c.WalletRPCURL, log)
	bridge := wallet.NewBridge(provider, log)
	contract := wallet.NewEscrowContract(c.ContractAddress, provider, log)

	app := &App{
		config:  c,
		auth:    services.NewAuthService(apiClient, bridge, sess, cache, log),
		escrows: services.NewEscrowService(apiClient, cache, bridge, contract, sess, c.CacheTTL, log),
		users:   services.NewUserService(apiClient, sess, log),
		session: sess,
		wallet:  bridge,
		bridge:  bridge,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}

	if c.S3Bucket != "" {
		store, err := services.NewS3Client(ctx, services.ProofStorageConfig{
			Endpoint:        c.S3Endpoint,
			Region:          c.S3Region,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Bucket:          c.S3Bucket,
			PublicBaseURL:   c.ProofPublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		app.uploader = services.NewProofUploader(store, c.S3Bucket, c.ProofPublicBaseURL, log)
	}

	if c.MetricsAddr != "" {
		go metrics.Serve(ctx, c.MetricsAddr, log)
	}

	return app, nil
}

// Run starts the wallet watcher and the interactive loop.
func (a *App) Run(ctx context.Context) {
	go a.bridge.Watch(ctx, a.config.WalletWatchInterval, wallet.WatchHandlers{
		OnAccountChanged: func(account string) {
			printlnFn("Wallet account changed:", account)
		},
		OnChainChanged: func(chainID string) {
			printlnFn("Wallet network changed:", chainID)
		},
		OnDisconnect: func() {
			printlnFn("Wallet disconnected")
		},
	})

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
