package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/clearmed/clearmed-api/config"
	"github.com/clearmed/clearmed-api/internal/adapters/oidc"
	"github.com/clearmed/clearmed-api/internal/adapters/openai"
	redisadapter "github.com/clearmed/clearmed-api/internal/adapters/redis"
	"github.com/clearmed/clearmed-api/internal/adapters/workflow"
	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/data"
	"github.com/clearmed/clearmed-api/internal/service"
)

// Services is the assembled application container.
type Services struct {
	Scans *service.ScanService
	Chat  *service.ChatService
	Auth  *service.AuthService
}

// BuildServices constructs adapters and services from configuration and
// connected backends. OAuth providers that fail discovery are skipped with a
// warning so a provider outage cannot block startup.
func BuildServices(
	ctx context.Context,
	cfg config.AppConfig,
	db *sql.DB,
	redisClient goredis.UniversalClient,
	logger *slog.Logger,
) *Services {
	cache := data.NewRedisCacheRepo(redisClient)
	workflowClient := workflow.NewClient(workflow.Options{Config: cfg.Workflow, Logger: logger})

	resolver := core.NewResultResolver(core.ResultResolverOptions{
		Cache:       cache,
		Workflow:    workflowClient,
		ResultSteps: cfg.Workflow.ResultSteps,
		WebhookTTL:  cfg.Cache.WebhookResultTTL,
	})

	scans := service.NewScanService(service.ScanServiceOptions{
		Workflow: workflowClient,
		Resolver: resolver,
		History:  data.NewScanHistoryRepo(db),
		Config:   cfg.Workflow,
		Logger:   logger,
	})

	chat := service.NewChatService(service.ChatServiceOptions{
		Completions: openai.NewClient(cfg.Chat),
		Assembler:   core.NewContextAssembler(resolver),
		Config:      cfg.Chat,
	})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:      data.NewUserRepo(db),
		Sessions:   redisadapter.NewSessionStore(redisClient),
		Providers:  buildOAuthProviders(ctx, cfg, logger),
		SessionTTL: cfg.Cache.SessionTTL,
	})

	return &Services{Scans: scans, Chat: chat, Auth: auth}
}

func buildOAuthProviders(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) []service.OAuthProvider {
	candidates := []oidc.ProviderConfig{
		{
			Name:         "google",
			Issuer:       oidc.GoogleIssuer,
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.HTTP.BaseURL + "/auth/oauth/google/callback",
		},
		{
			Name:         "apple",
			Issuer:       oidc.AppleIssuer,
			ClientID:     cfg.Auth.Apple.ClientID,
			ClientSecret: cfg.Auth.Apple.ClientSecret,
			RedirectURL:  cfg.HTTP.BaseURL + "/auth/oauth/apple/callback",
		},
	}

	var providers []service.OAuthProvider
	for _, candidate := range candidates {
		if candidate.ClientID == "" || candidate.ClientSecret == "" {
			continue
		}
		provider, err := oidc.NewProvider(ctx, candidate)
		if err != nil {
			logger.Warn("oauth provider setup failed", "provider", candidate.Name, "error", err)
			continue
		}
		providers = append(providers, provider)
	}
	return providers
}
