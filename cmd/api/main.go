package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"perangkum/internal/bootstrap"
	"perangkum/internal/common/pagination"
	"perangkum/internal/config"
	"perangkum/internal/observability/logging"
	"perangkum/internal/observability/tracing"
	authservice "perangkum/internal/service/auth"

	hhttp "perangkum/internal/handler/http"
	hauth "perangkum/internal/handler/http/auth"
	hdocument "perangkum/internal/handler/http/document"
	"perangkum/internal/handler/http/middleware"
	"perangkum/internal/handler/http/requestid"
	hsummary "perangkum/internal/handler/http/summary"

	_ "perangkum/docs" // swagger docs
)

// @title           Perangkum API
// @version         1.0
// @description     Extractive TF-IDF summarization of text, stored documents, web pages and feeds.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by /auth/token, sent as "Bearer {token}".

func main() {
	logger := initLogger()
	config.LoadDotEnv(logger)

	shutdownTracing := tracing.Init("perangkum-api")
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to stop tracer provider", slog.Any("error", err))
		}
	}()

	serverCfg := mustLoad(logger, "server", config.LoadServerConfig)
	storeCfg := mustLoad(logger, "store", config.LoadStoreConfig)
	summarizerCfg := mustLoad(logger, "summarizer", config.LoadSummarizerConfig)
	authCfg := mustLoad(logger, "auth", config.LoadAuthConfig)

	store, err := bootstrap.OpenStore(context.Background(), storeCfg, logger)
	if err != nil {
		logger.Error("failed to open document store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, err := setupServer(ctx, logger, serverCfg, summarizerCfg, authCfg, store)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}
	runServer(ctx, cancel, logger, serverCfg, handler)
}

// initLogger builds the process logger and makes it the slog default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// mustLoad runs a configuration loader and exits on failure.
func mustLoad[T any](logger *slog.Logger, name string, load func() (*T, error)) *T {
	cfg, err := load()
	if err != nil {
		logger.Error("failed to load configuration",
			slog.String("section", name),
			slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// setupServer wires the use cases into routes and wraps them in the
// middleware chain.
func setupServer(
	ctx context.Context,
	logger *slog.Logger,
	serverCfg *config.ServerConfig,
	summarizerCfg *config.SummarizerConfig,
	authCfg *config.AuthConfig,
	store *bootstrap.Store,
) (http.Handler, error) {
	tfidf, err := bootstrap.NewSummarizer(summarizerCfg)
	if err != nil {
		return nil, err
	}
	logger.Info("summarizer configured",
		slog.Int("top_k", summarizerCfg.TopK),
		slog.Int("min_token_length", summarizerCfg.MinTokenLength),
		slog.String("stopwords_locale", summarizerCfg.StopWordsLocale),
		slog.String("stopwords_file", summarizerCfg.StopWordsFile),
		slog.Bool("fallback_on_empty", summarizerCfg.FallbackOnEmpty))

	registry := bootstrap.NewExtractor(serverCfg.MaxUploadSize)
	docSvc := bootstrap.NewDocumentService(store, registry, serverCfg.MaxUploadSize)
	sumSvc := bootstrap.NewSummaryService(store, registry, tfidf, summarizerCfg, logger)

	paginationCfg, err := pagination.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	var writeGuard func(http.Handler) http.Handler
	if authCfg.Enabled() {
		accounts := []hauth.Account{{Username: authCfg.AdminUser, Password: authCfg.AdminPassword, Role: hauth.RoleAdmin}}
		if authCfg.ViewerEnabled() {
			accounts = append(accounts, hauth.Account{Username: authCfg.ViewerUser, Password: authCfg.ViewerPassword, Role: hauth.RoleViewer})
		}
		authSvc := authservice.NewAuthService(hauth.NewStaticProvider(accounts...), authCfg.JWTSecret, authCfg.TokenTTL)
		mux.Handle("POST /auth/token", hhttp.LimitRequestBody(serverCfg.MaxBodySize)(hauth.TokenHandler(authSvc)))
		writeGuard = hauth.Authz(authSvc)
		logger.Info("document write endpoints enabled",
			slog.Bool("viewer_enabled", authCfg.ViewerEnabled()),
			slog.Duration("token_ttl", authCfg.TokenTTL))
	} else {
		logger.Warn("JWT_SECRET not set, document write endpoints disabled")
	}

	hdocument.Register(mux, hdocument.Config{
		Service:       docSvc,
		Summarizer:    sumSvc,
		Pagination:    paginationCfg,
		MaxBodySize:   serverCfg.MaxBodySize,
		MaxUploadSize: serverCfg.MaxUploadSize,
		WriteGuard:    writeGuard,
	})
	hsummary.Register(mux, sumSvc, serverCfg.MaxBodySize)

	health := &hhttp.HealthHandler{DB: store.DB, DocumentsDir: store.DocumentsDir, Version: serverCfg.Version}
	if store.Breaker != nil {
		health.Breakers = append(health.Breakers, store.Breaker)
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: store.DB, DocumentsDir: store.DocumentsDir})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	proxies, err := middleware.ParseTrustedProxies(serverCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	extractor := middleware.NewIPExtractor(proxies, logger)

	rateLimit := func(next http.Handler) http.Handler { return next }
	if serverCfg.RateLimitEnabled() {
		limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: serverCfg.RateLimitRPS,
			Burst:             serverCfg.RateLimitBurst,
		}, extractor, logger)
		go limiter.RunCleanup(ctx, time.Minute)
		rateLimit = limiter.Middleware
		logger.Info("rate limiting enabled",
			slog.Float64("rps", serverCfg.RateLimitRPS),
			slog.Int("burst", serverCfg.RateLimitBurst),
			slog.Int("trusted_proxies", len(proxies)))
	} else {
		logger.Warn("rate limiting disabled")
	}

	if len(serverCfg.CORSAllowedOrigins) > 0 {
		logger.Info("CORS enabled", slog.Any("allowed_origins", serverCfg.CORSAllowedOrigins))
	}

	// Outermost first.
	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(),
		middleware.CORS(middleware.CORSConfig{AllowedOrigins: serverCfg.CORSAllowedOrigins}),
		rateLimit,
		hhttp.Timeout(serverCfg.RequestTimeout),
	), nil
}

// runServer serves until SIGINT or SIGTERM, then shuts down gracefully.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, cfg *config.ServerConfig, handler http.Handler) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	// Stops the rate limiter cleanup and aborts requests that outlived the shutdown.
	cancel()
	logger.Info("server stopped")
}
