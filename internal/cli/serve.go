package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kilupskalvis/gitsim/internal/config"
	"github.com/kilupskalvis/gitsim/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the playground server",
	Long: `Run the playground HTTP server.

Each client creates its own session and sends command lines over REST or a
WebSocket. Sessions live in memory and are discarded after the configured
idle timeout. Prometheus metrics are served on /metrics.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()
	logger := c.Logger

	if serveListen != "" {
		c.Config.Server.Listen = serveListen
	}

	managerCfg, err := managerConfig(c.Config)
	if err != nil {
		exitError("%v", err)
	}
	sm := server.NewSessionManager(managerCfg, logger)
	defer sm.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	serverCfg := server.DefaultServerConfig()
	serverCfg.RequestsPerMinute = c.Config.Server.CommandsPerMinute

	h, handlerCleanup := server.Handler(sm, serverCfg, reg, logger)
	defer handlerCleanup()

	srv := &http.Server{
		Addr:         c.Config.Server.Listen,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return context.Background() },
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting gitsim server", "listen", srv.Addr, "config", c.Config.Path())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped", "sessions", sm.Len())
}

// managerConfig builds session manager limits and layout from the config
func managerConfig(cfg *config.Config) (server.ManagerConfig, error) {
	timeout, err := cfg.SessionTimeout()
	if err != nil {
		return server.ManagerConfig{}, err
	}

	mc := server.DefaultManagerConfig()
	mc.Timeout = timeout
	mc.MaxSessions = cfg.Server.MaxSessions
	mc.Params = cfg.LayoutParams()
	mc.Origin = cfg.Origin()
	return mc, nil
}
