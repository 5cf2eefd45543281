package main

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/mohamedwael201193/air-gate-os/internal/airkit"
	"github.com/mohamedwael201193/air-gate-os/internal/audit"
	"github.com/mohamedwael201193/air-gate-os/internal/identity"
	"github.com/mohamedwael201193/air-gate-os/internal/ledger"
	"github.com/mohamedwael201193/air-gate-os/internal/platform/config"
	"github.com/mohamedwael201193/air-gate-os/internal/platform/health"
	"github.com/mohamedwael201193/air-gate-os/internal/platform/httpserver"
	"github.com/mohamedwael201193/air-gate-os/internal/platform/logger"
	"github.com/mohamedwael201193/air-gate-os/internal/registry"
	"github.com/mohamedwael201193/air-gate-os/internal/scenario"
	"github.com/mohamedwael201193/air-gate-os/internal/storage"
	httptransport "github.com/mohamedwael201193/air-gate-os/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing air-gate-os",
		"addr", cfg.Addr,
		"build_env", cfg.BuildEnv,
		"store_path", cfg.StorePath,
	)

	reg, err := registry.New(cfg.IssuerProgramIDs, cfg.VerifierProgramIDs)
	if err != nil {
		log.Error("program registry configuration is invalid", "error", err)
		os.Exit(1)
	}

	var kv storage.Store
	if cfg.StorePath != "" {
		kv = storage.NewFile(cfg.StorePath)
	} else {
		log.Warn("no store path configured, state will not survive restarts")
		kv = storage.NewMemory()
	}

	auditor := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	provider := airkit.NewProvider(cfg)

	sessions := identity.NewService(provider, identity.NewStore(kv, log),
		identity.WithLogger(log),
		identity.WithMetrics(identity.NewMetrics()),
		identity.WithAuditor(auditor),
	)

	credentials := ledger.NewService(provider, reg, ledger.NewStore(kv, log), sessions,
		ledger.WithSubjectHost(subjectHost(cfg.RedirectURL)),
		ledger.WithRedirectURL(cfg.RedirectURL),
		ledger.WithIssuerDID(cfg.IssuerDIDOverride),
		ledger.WithExplorerBaseURL(cfg.ExplorerBaseURL),
		ledger.WithLogger(log),
		ledger.WithMetrics(ledger.NewMetrics()),
		ledger.WithAuditor(auditor),
	)

	scenarios := scenario.NewService(sessions, credentials,
		scenario.WithLogger(log),
		scenario.WithMetrics(scenario.NewMetrics()),
		scenario.WithAuditor(auditor),
	)

	healthHandler := health.New(string(cfg.BuildEnv))
	healthHandler.RegisterCheck("store", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := credentials.ListCredentials(ctx)
		return err
	})

	var devToken *httptransport.DevTokenHandler
	if cfg.DevTokenEnabled() {
		log.Info("dev partner-token endpoint enabled")
		devToken = httptransport.NewDevTokenHandler(cfg.DevTokenSigningKey, cfg.DevPartnerSecretHash, cfg.PartnerID)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Handler:  httptransport.NewHandler(sessions, credentials, scenarios, log),
		Health:   healthHandler,
		DevToken: devToken,
		Logger:   log,
		Timeout:  cfg.RequestTimeout,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// subjectHost picks the host segment for synthesized did:web subject URIs
// from the configured redirect URL.
func subjectHost(redirectURL string) string {
	if redirectURL == "" {
		return ""
	}
	u, err := url.Parse(redirectURL)
	if err != nil {
		return ""
	}
	return u.Host
}
