// Package server hosts the docrelay HTTP API: PDF processing with streamed
// progress, translation, Drive listing, and Google Doc creation.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/docrelay/docrelay/internal/api"
	"github.com/docrelay/docrelay/internal/config"
	"github.com/docrelay/docrelay/internal/prompts"
	"github.com/docrelay/docrelay/internal/providers"
	"github.com/docrelay/docrelay/internal/server/endpoints"
	"github.com/docrelay/docrelay/internal/svcctx"
)

// Server is the main docrelay HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	promptSet  *prompts.Store
	logger     *slog.Logger

	// services holds core services for request-context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	appCfg := cfg.ConfigManager.Get()

	promptSet, err := prompts.NewStore(appCfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	if err := registerProviders(registry, appCfg, promptSet); err != nil {
		return nil, err
	}

	// Re-register providers when the config file changes.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		if err := registerProviders(registry, c, promptSet); err != nil {
			cfg.Logger.Error("provider reload failed", "error", err)
			return
		}
		cfg.Logger.Info("provider registry reloaded from config")
	})

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		promptSet: promptSet,
		logger:    cfg.Logger,
	}

	s.services = &svcctx.Services{
		Registry:  registry,
		ConfigMgr: cfg.ConfigManager,
		Prompts:   promptSet,
		Logger:    cfg.Logger,
	}

	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.withServices(mux),
		ReadTimeout: 5 * time.Minute, // large multipart uploads
		// No WriteTimeout: processing streams stay open for the duration
		// of OCR, which scales with page count.
		IdleTimeout: 120 * time.Second,
	}

	return s, nil
}

// registerProviders builds providers from config and registers them.
func registerProviders(registry *providers.Registry, cfg *config.Config, promptSet *prompts.Store) error {
	if cfg.Provider.Gemini.APIKey != "" {
		g, err := providers.NewGeminiClient(context.Background(), providers.GeminiConfig{
			APIKey:  cfg.Provider.Gemini.APIKey,
			Model:   cfg.Provider.Gemini.Model,
			Prompts: promptSet,
		})
		if err != nil {
			return err
		}
		registry.Register(g)
	}
	if cfg.Provider.OpenAI.APIKey != "" {
		o, err := providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:  cfg.Provider.OpenAI.APIKey,
			Model:   cfg.Provider.OpenAI.Model,
			Prompts: promptSet,
		})
		if err != nil {
			return err
		}
		registry.Register(o)
	}
	if cfg.Provider.Active != "" {
		if err := registry.SetActive(cfg.Provider.Active); err != nil {
			return err
		}
	}
	if registry.Active() == nil {
		return errors.New("no AI provider configured")
	}
	return nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures an AI provider is available.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.registry.Active() == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"detail":"no AI provider configured"}`))
			return
		}
		next(w, r)
	}
}
