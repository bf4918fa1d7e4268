package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/menu-admin/router"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.UsingDevSecret() {
		utils.ErrorLogger.Warn("SESSION_SECRET is not set; using the development secret")
	}

	uploader := services.NewCloudinaryUploader(a.cfg.Upload.URL, a.cfg.Upload.Preset, a.cfg.Upload.MaxBytes, a.cfg.Backend.Timeout)
	store := services.NewSessionStore(a.client, uploader)

	janitor := services.NewSessionJanitor(store, a.cfg.Session.IdleTimeout)
	janitor.Start()
	defer janitor.Stop()

	r, err := router.SetupRouter(a.cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.WithFields(logrus.Fields{
			"port":    a.cfg.Port,
			"backend": a.cfg.Backend.BaseURL,
		}).Info("menu console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			utils.ErrorLogger.WithError(err).Error("server stopped")
		}
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("graceful shutdown failed")
		return err
	}
	return nil
}
