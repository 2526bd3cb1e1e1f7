package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	"github.com/Astemirdum/bookstore-service/pkg/circuit_breaker"
	"github.com/Astemirdum/bookstore-service/pkg/kafka"
	"github.com/Astemirdum/bookstore-service/pkg/logger"
	"github.com/Astemirdum/bookstore-service/pkg/postgres"
	"github.com/Astemirdum/bookstore-service/store/config"
	"github.com/Astemirdum/bookstore-service/store/internal/handler"
	"github.com/Astemirdum/bookstore-service/store/internal/repository"
	"github.com/Astemirdum/bookstore-service/store/internal/server"
	"github.com/Astemirdum/bookstore-service/store/internal/service"
	"github.com/Astemirdum/bookstore-service/store/migrations"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "store")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var publisher service.Publisher = service.NopPublisher{}
	closeProducer := func() error { return nil }
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		closeProducer = producer.Close
		publisher = service.NewEventPublisher(
			kafka.NewEnqueuer(producer),
			cfg.Kafka.Topic,
			circuit_breaker.New(20, 30*time.Second, 0.5, 3),
		)
	}

	tokens := auth.NewTokens(cfg.Auth)
	svc := service.NewService(repo, tokens, publisher, log)

	h := handler.New(svc, tokens, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = closeProducer(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
