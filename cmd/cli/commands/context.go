package commands

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/stay-packages/internal/config"
	"github.com/jakechorley/stay-packages/pkg/clients/formsclient"
	"github.com/jakechorley/stay-packages/pkg/clients/gmailclient"
	"github.com/jakechorley/stay-packages/pkg/core/services"
	"github.com/jakechorley/stay-packages/pkg/db"
	"github.com/jakechorley/stay-packages/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands.
// Google clients are created on first use so commands that never touch Google never authenticate.
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
	Tracker  *services.GenerationTracker

	mu          sync.Mutex
	token       *oauth2.Token
	oauthCfg    *config.OAuthClientConfig
	formsClient *formsclient.Client
	gmailClient *gmailclient.Client
	inflight    map[string]context.CancelFunc
}

// NewAppContext creates an AppContext around an initialised config, database and logger
func NewAppContext(ctx context.Context, env string, cfg *config.Config, database db.Database, logger *zap.Logger) *AppContext {
	app := &AppContext{}
	app.Init(ctx, env, cfg, database, logger)
	return app
}

// Init fills in an AppContext created before the config and database were available
func (a *AppContext) Init(ctx context.Context, env string, cfg *config.Config, database db.Database, logger *zap.Logger) {
	a.Env = env
	a.Cfg = cfg
	a.Database = database
	a.Logger = logger
	a.Ctx = ctx
	a.Tracker = services.NewGenerationTracker()
	a.inflight = make(map[string]context.CancelFunc)
}

// FormsClient returns the Google Forms client, authenticating if needed
func (a *AppContext) FormsClient() (*formsclient.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.formsClient != nil {
		return a.formsClient, nil
	}
	if err := a.authenticate(); err != nil {
		return nil, err
	}

	client, err := formsclient.NewClient(a.Ctx, a.oauthCfg, a.token)
	if err != nil {
		return nil, fmt.Errorf("failed to create forms client: %w", err)
	}
	a.formsClient = client
	return client, nil
}

// GmailClient returns the Gmail client, authenticating if needed
func (a *AppContext) GmailClient() (*gmailclient.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gmailClient != nil {
		return a.gmailClient, nil
	}
	if err := a.authenticate(); err != nil {
		return nil, err
	}

	client, err := gmailclient.NewClient(a.Ctx, a.oauthCfg, a.token, a.Cfg.Notifications.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	a.gmailClient = client
	return client, nil
}

// Notifier returns the no-match alert sender, or nil when alerts are not configured.
// A Gmail set-up failure disables alerts for the command rather than failing it.
func (a *AppContext) Notifier() services.Notifier {
	if a.Cfg.Notifications.NoMatchEmail == "" {
		return nil
	}
	client, err := a.GmailClient()
	if err != nil {
		a.Logger.Warn("No-match alerts disabled", zap.Error(err))
		return nil
	}
	return client
}

// BeginMatch starts a matching request for a booking, cancelling any request for the same
// booking that is still running. Call done when the request finishes.
func (a *AppContext) BeginMatch(bookingID string) (ctx context.Context, generation int64, done func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cancel, ok := a.inflight[bookingID]; ok {
		a.Logger.Debug("Cancelling superseded match", zap.String("booking_id", bookingID))
		cancel()
	}

	ctx, cancel := context.WithCancel(a.Ctx)
	generation = a.Tracker.Next(bookingID)
	a.inflight[bookingID] = cancel

	return ctx, generation, func() {
		cancel()
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.Tracker.IsCurrent(bookingID, generation) {
			delete(a.inflight, bookingID)
		}
	}
}

// authenticate loads the OAuth client and a token once. Callers hold a.mu.
func (a *AppContext) authenticate() error {
	if a.token != nil {
		return nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(a.Ctx, oauthConfig, a.Env, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to get oauth token: %w", err)
	}

	a.oauthCfg = oauthCfg
	a.token = token
	return nil
}
