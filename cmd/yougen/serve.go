package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/httpapi"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		listen   string
		noAssist bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return withApp(opts, func(a *app) error {
				addr := a.cfg.Listen
				if listen != "" {
					addr = listen
				}

				deps := &httpapi.Deps{
					Store:   a.store,
					Library: a.library,
					Chat:    a.chat,
					Notes:   a.notes,
					Logger:  a.logger,
				}
				if noAssist {
					deps.Chat = nil
				}

				server := &http.Server{
					Handler:           httpapi.NewRouter(deps),
					ReadHeaderTimeout: 5 * time.Second,
					ReadTimeout:       15 * time.Second,
					WriteTimeout:      a.cfg.APITimeout() + 15*time.Second,
					IdleTimeout:       60 * time.Second,
				}

				listener, err := net.Listen("tcp", addr)
				if err != nil {
					return fmt.Errorf("api listen: %w", err)
				}

				errCh := make(chan error, 1)
				go func() {
					if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
					close(errCh)
				}()
				a.logger.Info("api server listening", "address", listener.Addr().String(), "medium", a.cfg.Medium)

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
				defer stop()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("api shutdown: %w", err)
				}
				a.logger.Info("api server stopped")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&noAssist, "no-assistant", false, "Disable POST /api/chats/ask")
	return cmd
}
