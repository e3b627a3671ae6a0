package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/api"
	"higestdata/internal/auth/credentials"
	"higestdata/internal/auth/handler"
	authprovider "higestdata/internal/auth/provider"
	"higestdata/internal/auth/provider/google"
	"higestdata/internal/auth/resolver"
	"higestdata/internal/config"
	"higestdata/internal/middleware"
	"higestdata/internal/provider"
	"higestdata/internal/session"
	"higestdata/internal/store"
	"higestdata/internal/tasks"
	"higestdata/internal/webhook"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	codec, err := session.NewCodec(cfg.SessionSecret)
	if err != nil {
		return nil, nil, err
	}

	sessions := session.NewManager(codec, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	txStore := store.New(infra.DB)
	credentialService := credentials.NewService(infra.DB)
	identityResolver := resolver.NewDBResolver(infra.DB)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	oauthRegistry := authprovider.NewRegistry(googleProvider)

	paystack, err := provider.NewPaystack(cfg.PaystackSecretKey)
	if err != nil {
		return nil, nil, err
	}
	korapay, err := provider.NewKorapay(cfg.KorapaySecretKey)
	if err != nil {
		return nil, nil, err
	}
	flutterwave, err := provider.NewFlutterwave(cfg.FlutterwaveSecretKey)
	if err != nil {
		return nil, nil, err
	}
	ebills, err := provider.NewEbills(cfg.EbillsBaseURL, cfg.EbillsAPIKey)
	if err != nil {
		return nil, nil, err
	}

	funding := provider.NewRegistry(paystack, korapay, flutterwave)

	runner := tasks.NewRunner(64)
	runner.Start(ctx)

	authHandler := handler.NewHandler(
		oauthRegistry,
		sessions,
		credentialService,
		identityResolver,
		txStore,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessions)

	apiHandler := api.NewHandler(
		txStore,
		funding,
		korapay,
		ebills,
		runner,
		cfg.AppBaseURL+"/wallet",
	)

	schemes := webhook.NewSchemes(
		cfg.PaystackWebhookSecret,
		cfg.KorapayWebhookSecret,
		cfg.FlutterwaveWebhookSecret,
		cfg.EbillsWebhookSecret,
	)
	ledger := webhook.NewRedisLedger(infra.Redis.Client)
	dispatcher := webhook.NewDispatcher(txStore, ledger)
	webhookHandler := webhook.NewHandler(schemes, dispatcher)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// Page access rules run before everything else. API groups carry
	// their own middleware; the gate skips /api/ paths.
	router.Use(middleware.Gate(sessions))

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)
	webhookHandler.RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	registerPages(router)

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	apiHandler.RegisterRoutes(router, authMiddleware)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		runner.Wait()
		return infra.DB.Close()
	}, nil
}
