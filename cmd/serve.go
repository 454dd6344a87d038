package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/kendall-kelly/restaurant-assistant-api/metrics"
	"github.com/kendall-kelly/restaurant-assistant-api/routes"
	"github.com/kendall-kelly/restaurant-assistant-api/services"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}

		if err := config.Migrate(db); err != nil {
			return err
		}
		log.Info("Database migration completed successfully")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		deps := routes.Deps{
			Config:   cfg,
			Log:      log,
			Store:    store.New(db),
			Metrics:  metrics.New(reg),
			Gatherer: reg,
		}

		if cfg.SMSEnabled() {
			deps.SMS = services.NewTwilioSMSService(cfg)
			log.Info("Outbound SMS enabled")
		} else {
			log.Warn("Twilio credentials not set; outbound SMS disabled")
		}

		if cfg.StorageEnabled() {
			s3Service, err := services.NewS3Service(ctx, cfg)
			if err != nil {
				return err
			}
			deps.Storage = s3Service
			log.WithField("bucket", cfg.AWSS3Bucket).Info("Transcript archiving enabled")
		}

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		router, err := routes.SetupRouter(deps)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Server is running on http://localhost:%s", cfg.Port)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
}
