package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"nextbase/internal/app"
	"nextbase/internal/config"
	"nextbase/internal/filestore"
	"nextbase/internal/model"
	mysqlClient "nextbase/internal/platform/mysql"
	rabbitmqClient "nextbase/internal/platform/rabbitmq"
	redisClient "nextbase/internal/platform/redis"
	"nextbase/internal/repository"
	"nextbase/internal/worker"
)

// App owns every long-lived resource of the server process.
type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	// Redis and MQConn are nil when disabled in config.
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Publisher   app.EventPublisher
	AuditWorker *worker.AuditWorker
	Store       *filestore.Store

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	a := &App{
		Config:    cfg,
		Store:     filestore.New(cfg.Upload.Dir),
		StartedAt: time.Now(),
	}

	a.MySQL, err = mysqlClient.New(ctx, mysqlClient.Options{
		DSN:          cfg.MySQLDSN(),
		MaxOpenConns: cfg.MySQL.MaxOpenConns,
		MaxIdleConns: cfg.MySQL.MaxIdleConns,
		Verbose:      !cfg.IsProduction(),
	})
	if err != nil {
		return nil, err
	}
	if err := mysqlClient.Migrate(a.MySQL, model.Tables()...); err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		a.Redis, err = redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if cfg.RabbitMQ.Enabled {
		a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Publisher = rabbitmqClient.NewEventPublisher(a.MQConn, cfg.RabbitMQ.EventQueue)

		auditService := app.NewAuditService(repository.NewAuditRepository(a.MySQL))
		a.AuditWorker = worker.NewAuditWorker(a.MQConn, auditService, cfg.RabbitMQ.EventQueue)
		if err := a.AuditWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start audit worker failed: %w", err)
		}
	}

	return a, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		if err := mysqlClient.Close(a.MySQL); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
