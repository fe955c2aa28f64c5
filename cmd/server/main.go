package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/trekha/identity-service/internal/api"
	"github.com/trekha/identity-service/internal/infrastructure/config"
	mongostore "github.com/trekha/identity-service/internal/infrastructure/db/mongo"
	redisstore "github.com/trekha/identity-service/internal/infrastructure/db/redis"
	"github.com/trekha/identity-service/internal/infrastructure/notify"
	"github.com/trekha/identity-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	emailSender := notify.NewSMTPEmailSender(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	}, log)
	smsSender := notify.NewHTTPSMSSender(notify.SMSConfig{
		EndpointURL: cfg.SMS.EndpointURL,
		APIKey:      cfg.SMS.APIKey,
		From:        cfg.SMS.From,
	}, log)

	dispatcher := notify.NewDispatcher(0, emailSender, smsSender, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(client, db, rdb, cfg, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("identity service stopped")
}
