package app

import (
	"context"
	"errors"
	"healthwatch/config"
	middle "healthwatch/internals/middleware"
	"healthwatch/internals/modules/address"
	"healthwatch/internals/modules/alert"
	"healthwatch/internals/modules/probe"
	"healthwatch/internals/modules/scheduler"
	"healthwatch/internals/modules/user"
	"healthwatch/internals/security"
	"healthwatch/pkg/cache"
	"healthwatch/pkg/httpclient"
	"healthwatch/pkg/rabbitmq"
	"healthwatch/pkg/redisstore"
	"healthwatch/pkg/utils"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Container struct {
	Cfg         *config.Config
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	AMQPConn    *amqp091.Connection
	Publisher   *rabbitmq.Publisher
	Consumer    *rabbitmq.Consumer
	Scheduler   *scheduler.Scheduler
	Logger      *zerolog.Logger

	userHandler    *user.Handler
	addressHandler *address.Handler
	alertHandler   *alert.Handler
	authMW         *middle.AuthMiddleware
}

func NewContainer(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {

	redisClient, err := redisstore.New(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	amqpConn, err := rabbitmq.NewConnection(ctx, &cfg.RabbitMQ, logger)
	if err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	if err := rabbitmq.SetupTopology(amqpConn, &cfg.RabbitMQ); err != nil {
		_ = amqpConn.Close()
		_ = redisClient.Close()
		return nil, err
	}

	publisher, err := rabbitmq.NewPublisher(amqpConn, cfg.RabbitMQ.ExchangeName, cfg.RabbitMQ.RoutingKey, cfg.RabbitMQ.ConfirmTimeout)
	if err != nil {
		_ = amqpConn.Close()
		_ = redisClient.Close()
		return nil, err
	}
	consumer, err := rabbitmq.NewConsumer(amqpConn, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.WorkerCount, logger)
	if err != nil {
		_ = publisher.Close()
		_ = amqpConn.Close()
		_ = redisClient.Close()
		return nil, err
	}
	logger.Info().Str("exchange", cfg.RabbitMQ.ExchangeName).Msg("rabbitmq topology ready")

	clk := clock.New()
	validate := utils.NewValidator()
	tokenSvc := security.NewTokenService(&cfg.Auth)
	addressCache := cache.New(redisClient, logger)

	userRepo := user.NewRepository(db, logger)
	addressRepo := address.NewRepository(db, logger)

	addressSvc := address.NewService(addressRepo, addressCache, userRepo, validate, clk, logger)
	userSvc := user.NewService(userRepo, tokenSvc, addressSvc, validate, logger)

	prober := probe.NewProber(httpclient.NewHttpClient(), logger)
	sink := alert.NewPublisher(publisher, logger)
	sch := scheduler.NewScheduler(addressRepo, prober, sink, clk, cfg.Scheduler.Delay, logger)

	return &Container{
		Cfg:            cfg,
		DB:             db,
		RedisClient:    redisClient,
		AMQPConn:       amqpConn,
		Publisher:      publisher,
		Consumer:       consumer,
		Scheduler:      sch,
		Logger:         logger,
		userHandler:    user.NewHandler(userSvc),
		addressHandler: address.NewHandler(addressSvc, validate),
		alertHandler:   alert.NewHandler(userSvc, logger),
		authMW:         middle.NewAuthMiddleware(tokenSvc),
	}, nil
}

// Shutdown stops background work first, then releases infra in reverse
// order of creation. The db pool is left to the caller that opened it.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	c.Scheduler.Stop()

	if err := c.Consumer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.Publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.AMQPConn.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RedisClient.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
