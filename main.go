package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"go-food-ordering/app"
	"go-food-ordering/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cliApp := &cli.App{
		Name:  "food-ordering",
		Usage: "food ordering API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "dotenv file loaded before reading the environment",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "reset",
				Usage:  "delete the persisted cart, orders and session",
				Action: reset,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.WithError(err).Fatal("exiting")
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return cfg, err
	}
	cfg.ConfigureLogging()
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: application.Router(),
	}
	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":    cfg.Port,
			"storage": cfg.StorageDriver,
		}).Info("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err = <-serverErr:
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Warn("server shutdown")
	}
	if closeErr := application.Close(shutdownCtx); closeErr != nil {
		log.WithError(closeErr).Warn("closing storage")
	}
	return err
}

func reset(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	application, err := app.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	if err := application.Reset(c.Context); err != nil {
		return err
	}
	log.WithField("storage", cfg.StorageDriver).Info("persisted state removed")
	return nil
}
