package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
	"github.com/99minutos/account-service/internal/core/service"
	"github.com/99minutos/account-service/internal/infrastructure/db/memory"
	"github.com/99minutos/account-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/account-service/internal/infrastructure/db/redis"
	"github.com/99minutos/account-service/internal/infrastructure/events/kafka"
	"github.com/99minutos/account-service/internal/infrastructure/queue"
	"github.com/99minutos/account-service/internal/pkg/config"
	"github.com/99minutos/account-service/pkg/logger"
)

// application holds the wired service and the resources to release on exit.
type application struct {
	accounts *service.AccountService
	mongoDB  *gomongo.Database
	redis    *goredis.Client
	closers  []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*application, error) {
	app := &application{}
	if err := app.wire(ctx, cfg, log); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *application) wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.UsesMongo() {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		app.mongoDB = db
		app.closers = append(app.closers, func() {
			if err := mongo.Disconnect(client); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		})
	}

	if cfg.UsesRedis() {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		app.redis = rdb
		app.closers = append(app.closers, func() { _ = rdb.Close() })
	}

	repos, err := buildRepositories(ctx, cfg, app.mongoDB)
	if err != nil {
		return err
	}

	mode, err := service.ParseStoreMode(cfg.Store.Mode, repos)
	if err != nil {
		return err
	}

	var session ports.SessionStore = memory.NewSessionStore()
	if app.redis != nil {
		session = redis.NewSessionStore(app.redis, cfg.Session.Scope)
	}

	events, err := buildEvents(cfg, app, log)
	if err != nil {
		return err
	}

	app.accounts = service.NewAccountService(repos, mode, session, events, logger.WithComponent(log, "account-service"))
	return nil
}

func buildRepositories(ctx context.Context, cfg *config.Config, db *gomongo.Database) (service.Repositories, error) {
	var repos service.Repositories

	switch cfg.Store.Backend {
	case "mongo":
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return repos, err
		}
		repos.Admins = mongo.NewAdminRepository(db)
		repos.Developers = mongo.NewDeveloperRepository(db)
		repos.Customers = mongo.NewCustomerRepository(db)
		repos.Carts = mongo.NewShoppingCartRepository(db)
		if cfg.Store.Generic {
			repos.Users = mongo.NewUserRepository(db)
		}
	case "memory":
		repos.Admins = memory.NewRepository[*domain.Admin]()
		repos.Developers = memory.NewRepository[*domain.Developer]()
		repos.Customers = memory.NewRepository[*domain.Customer]()
		repos.Carts = memory.NewRepository[*domain.ShoppingCart]()
		if cfg.Store.Generic {
			repos.Users = memory.NewRepository[domain.Account]()
		}
	default:
		return repos, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
	return repos, nil
}

// buildEvents returns nil when no sink is configured.
func buildEvents(cfg *config.Config, app *application, log zerolog.Logger) (ports.EventPublisher, error) {
	var sink ports.EventSink
	switch cfg.Events.Sink {
	case "none":
		return nil, nil
	case "mongo":
		sink = mongo.NewAuditRepository(app.mongoDB)
	case "kafka":
		publisher := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Logger:  log,
		})
		app.closers = append(app.closers, func() {
			if err := publisher.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka writer close")
			}
		})
		sink = publisher
	default:
		return nil, fmt.Errorf("unsupported events sink %q", cfg.Events.Sink)
	}

	dispatcher := queue.NewDispatcher(cfg.Events.Workers, sink, logger.WithComponent(log, "event-dispatcher"))
	dispatcher.Start(context.Background())
	app.closers = append(app.closers, dispatcher.Stop)
	return dispatcher, nil
}
