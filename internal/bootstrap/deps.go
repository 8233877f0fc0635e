// Package bootstrap wires configuration, storage, providers, and services
// into a running API.
package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	gmailapi "google.golang.org/api/gmail/v1"

	"mailmind_server/adapter/out/file"
	"mailmind_server/adapter/out/mongodb"
	"mailmind_server/adapter/out/provider"
	"mailmind_server/config"
	"mailmind_server/core/agent/llm"
	"mailmind_server/core/port/out"
	calendarsvc "mailmind_server/core/service/calendar"
	notificationsvc "mailmind_server/core/service/notification"
	preferencesvc "mailmind_server/core/service/preference"
	"mailmind_server/core/service/triage"
	"mailmind_server/pkg/logger"
	"mailmind_server/pkg/ratelimit"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Store       out.Store
	MongoClient *mongodriver.Client // nil when the file store is active
	Redis       *redis.Client       // nil when unconfigured

	OAuthConfig *oauth2.Config
	Providers   *provider.Factory

	PreferenceService   *preferencesvc.Service
	CalendarService     *calendarsvc.Service
	NotificationService *notificationsvc.Service
	TriageService       *triage.Service

	FetchCooldown *ratelimit.Cooldown
}

// NewDependencies builds the dependency graph. MongoDB is probed first; if it
// is unreachable the JSON file store takes over so the server always starts.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	store, mongoClient, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	redisClient := newRedis(cfg.RedisURL)

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			gmailapi.GmailReadonlyScope,
			calendarapi.CalendarEventsScope,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
	}
	providers := provider.NewFactory(store.Users(), oauthConfig)

	llmClient := llm.NewClientWithConfig(llm.ClientConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})
	agent := llm.NewAgent(llmClient, cfg.ClassifyBodyLimit)

	preferenceService := preferencesvc.NewService(store.Preferences(), agent)
	calendarService := calendarsvc.NewService(store.CalendarEvents(), providers)
	notificationService := notificationsvc.NewService(store.Notifications())
	triageService := triage.NewService(
		store.Emails(),
		providers,
		agent,
		preferenceService,
		calendarService,
		notificationService,
		triage.Config{
			FetchMaxResults:  cfg.FetchMaxResults,
			BodyCharLimit:    cfg.BodyCharLimit,
			ClassifyInterval: time.Duration(cfg.ClassifyIntervalMS) * time.Millisecond,
		},
	)

	deps := &Dependencies{
		Store:               store,
		MongoClient:         mongoClient,
		Redis:               redisClient,
		OAuthConfig:         oauthConfig,
		Providers:           providers,
		PreferenceService:   preferenceService,
		CalendarService:     calendarService,
		NotificationService: notificationService,
		TriageService:       triageService,
		FetchCooldown:       ratelimit.NewCooldown(redisClient, time.Duration(cfg.FetchCooldownSec)*time.Second),
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if mongoClient != nil {
			if err := mongoClient.Disconnect(ctx); err != nil {
				logger.WithError(err).Warn("mongodb disconnect failed")
			}
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.WithError(err).Warn("redis close failed")
			}
		}
	}
	return deps, cleanup, nil
}

func newStore(cfg *config.Config) (out.Store, *mongodriver.Client, error) {
	if cfg.MongoDBURL != "" {
		client, err := mongodb.NewClient(cfg.MongoDBURL, cfg.MongoDBName)
		if err == nil {
			store := mongodb.NewStore(client.Database(cfg.MongoDBName))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := store.EnsureIndexes(ctx); err != nil {
				logger.WithError(err).Warn("index creation failed")
			}
			logger.Info("storage backend: mongodb (%s)", cfg.MongoDBName)
			return store, client, nil
		}
		logger.WithError(err).Warn("mongodb unreachable, falling back to file store")
	}

	store, err := file.NewStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("storage backend: file (%s)", cfg.DataDir)
	return store, nil, nil
}

func newRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.WithError(err).Warn("invalid redis url, cooldowns stay in-process")
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable, cooldowns stay in-process")
		client.Close()
		return nil
	}
	return client
}
