package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/learnpath/internal/server"
	"github.com/spetersoncode/learnpath/session"
)

func serveCmd() *cobra.Command {
	var (
		addr            string
		interactiveAuth bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, interactiveAuth)
			if err != nil {
				return err
			}
			defer a.Close()
			if addr == "" {
				addr = a.cfg.Addr()
			}

			lockTTL := session.LockTTL(a.cfg.RunTimeout)
			var sessions session.Store = session.NewMemoryStore(lockTTL)
			if a.cfg.RedisAddr != "" {
				rs, err := session.DialRedis(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, 0, session.WithLockTTL(lockTTL))
				if err != nil {
					return err
				}
				defer rs.Close()
				sessions = rs
				a.logger.Info("using redis sessions", "addr", a.cfg.RedisAddr)
			}

			srv := &http.Server{
				Addr: addr,
				Handler: server.New(a.runner, sessions,
					server.WithLogger(a.logger),
					server.WithMetrics(a.metrics),
				),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 0, // SSE needs no write timeout
				IdleTimeout:  120 * time.Second,
			}

			go func() {
				<-ctx.Done()
				a.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("shutdown error", "error", err)
				}
			}()

			a.logger.Info("server starting", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$LEARNPATH_PORT)")
	cmd.Flags().BoolVar(&interactiveAuth, "interactive-auth", false,
		"authorize YouTube in a browser when no credential is stored; otherwise runs fail with an auth error (see 'learnpath auth login')")
	return cmd
}
