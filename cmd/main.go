package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ray-remotestate/foodwaste/config"
	"github.com/ray-remotestate/foodwaste/database"
	"github.com/ray-remotestate/foodwaste/database/seed"
	"github.com/ray-remotestate/foodwaste/handlers"
	"github.com/ray-remotestate/foodwaste/server"
	"github.com/ray-remotestate/foodwaste/services"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/store/memory"
	"github.com/ray-remotestate/foodwaste/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	setupLogger(cfg.Log)

	st, err := openStore(cfg.Database)
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}

	if cfg.Seed.Enabled {
		if _, err := seed.Run(context.Background(), st, cfg.Seed.Password, time.Now()); err != nil {
			logrus.WithError(err).Error("failed to seed demo data")
		}
	}

	students := services.NewStudentService(st, nil)
	auth := services.NewAuthService(st, students, utils.TokenConfig{
		SecretKey:  cfg.Auth.SecretKey,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})

	srv := server.SetupRoutes(server.Handlers{
		Auth:         handlers.NewAuthHandler(auth, cfg.Auth.RefreshTokenTTL),
		Packages:     handlers.NewPackageHandler(services.NewPackageService(st, nil)),
		Reservations: handlers.NewReservationHandler(services.NewReservationService(st, nil)),
		Students:     handlers.NewStudentHandler(students),
	}, cfg.Auth.SecretKey, cfg.Server.AllowedOrigins)

	go func() {
		logrus.Infof("server listening on %s (store: %s)", cfg.Server.Addr(), cfg.Database.Store)
		if err := srv.Run(cfg.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("failed to run server with error: %v", err)
		}
	}()

	<-done

	logrus.Info("shutting down...")
	if err := srv.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to gracefully shutdown server")
	}
	if err := st.Close(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}

	logrus.Info("system is shut ..zzz")
}

func openStore(cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.Store == config.StoreMemory {
		logrus.Info("using in-memory store")
		return memory.New(), nil
	}

	db, err := database.ConnectAndMigrate(context.Background(), cfg.URL, cfg.MigrationsPath)
	if err != nil {
		return nil, err
	}
	logrus.Println("migration is successful")
	return database.NewStore(db), nil
}

func setupLogger(cfg config.LogConfig) {
	if cfg.Format == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
