package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"devconnect/internal/config"
	mongoClient "devconnect/internal/platform/mongo"
	rabbitmqClient "devconnect/internal/platform/rabbitmq"
	"devconnect/internal/repository"
	"devconnect/internal/worker"
)

type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	MongoClient *mongo.Client
	Mongo       *mongo.Database
	MQConn      *amqp.Connection
	EventWorker *worker.AccountEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	client, err := mongoClient.New(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.DB)
	if err := mongoClient.EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	eventRepo := repository.NewEventRepository(db)
	eventWorker := worker.NewAccountEventWorker(mqConn, eventRepo, cfg.RabbitMQ.AccountEventQueue, logger)
	if err := eventWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start account event worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		MongoClient: client,
		Mongo:       db,
		MQConn:      mqConn,
		EventWorker: eventWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MongoClient != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.MongoClient.Disconnect(disconnectCtx); err != nil {
			closeErr = err
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
