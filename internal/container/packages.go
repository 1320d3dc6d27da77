package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shorturl-preview/internal/analytics"
	analyticsstore "github.com/serroba/shorturl-preview/internal/analytics/store"
	"github.com/serroba/shorturl-preview/internal/handlers"
	"github.com/serroba/shorturl-preview/internal/health"
	"github.com/serroba/shorturl-preview/internal/messaging"
	"github.com/serroba/shorturl-preview/internal/middleware"
	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/serroba/shorturl-preview/internal/ratelimit"
	"github.com/serroba/shorturl-preview/internal/shortener"
	"github.com/serroba/shorturl-preview/internal/store"
	"go.uber.org/zap"
)

const requestIDLength = 21

// Storage is implemented by every backend: short URL records and their
// previews live together.
type Storage interface {
	shortener.Repository
	preview.Repository
}

// RedisClient closes the shared connection when the injector shuts down.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// LoggerPackage provides *zap.Logger.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides *RedisClient.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides a migrated *store.PostgresStore.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*store.PostgresStore, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		return pg, nil
	})
}

// RepositoryPackage provides Storage, *shortener.Registry and *shortener.Resolver
// for the configured backend.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (Storage, error) {
		opts := do.MustInvoke[*Options](i)
		if err := opts.validate(); err != nil {
			return nil, err
		}

		switch opts.Storage {
		case StoragePostgres:
			pg, err := do.Invoke[*store.PostgresStore](i)
			if err != nil {
				return nil, err
			}

			return pg, nil
		case StorageRedis:
			return store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client), nil
		default:
			return store.NewMemoryStore(), nil
		}
	})

	do.Provide(i, func(_ *do.Injector) (*shortener.Obfuscator, error) {
		return shortener.NewObfuscator(shortener.DefaultConfig()), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Registry, error) {
		return shortener.NewRegistry(
			do.MustInvoke[Storage](i),
			do.MustInvoke[*shortener.Obfuscator](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		opts := do.MustInvoke[*Options](i)

		var cache shortener.Cache
		if opts.EnableCache && opts.UsesRedis() {
			cache = store.NewRedisURLCache(do.MustInvoke[*RedisClient](i).Client)
		}

		return shortener.NewResolver(
			do.MustInvoke[Storage](i),
			do.MustInvoke[*shortener.Obfuscator](i),
			cache,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RateLimitPackage provides ratelimit.Store and *ratelimit.PolicyLimiter.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		if !do.MustInvoke[*Options](i).UsesRedis() {
			return store.NewRateLimitMemoryStore(), nil
		}

		rl, err := store.NewRateLimitRedisStore(do.MustInvoke[*RedisClient](i).Client)
		if err != nil {
			return nil, err
		}

		return rl, nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.DefaultPolicy()), nil
	})
}

// PreviewPackage provides *preview.Service.
func PreviewPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*preview.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		fetcher := preview.NewHTTPFetcher(
			&http.Client{},
			time.Duration(opts.PreviewTimeout)*time.Second,
			opts.PreviewUserAgent,
		)

		var svcOpts []preview.Option

		if opts.PreviewHostLimit > 0 {
			limiter := ratelimit.NewSlidingWindowLimiter(
				do.MustInvoke[ratelimit.Store](i),
				int64(opts.PreviewHostLimit),
				time.Minute,
			)
			svcOpts = append(svcOpts, preview.WithHostLimiter(limiter))
		}

		return preview.NewService(fetcher, do.MustInvoke[Storage](i), logger.Named("preview"), svcOpts...), nil
	})
}

// PublisherGroupPackage provides *messaging.PublisherGroup and
// *analytics.Publishers. Events go to Redis streams, or to an in-process
// channel nobody reads when running on memory storage.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		wmLogger := messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i).Named("watermill"))

		var (
			publisher message.Publisher
			err       error
		)

		if opts.UsesRedis() {
			publisher, err = redisstream.NewPublisher(redisstream.PublisherConfig{
				Client: do.MustInvoke[*RedisClient](i).Client,
			}, wmLogger)
			if err != nil {
				return nil, fmt.Errorf("create redis stream publisher: %w", err)
			}
		} else {
			publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (*analytics.Publishers, error) {
		return analytics.NewPublishers(do.MustInvoke[*messaging.PublisherGroup](i).Publisher()), nil
	})
}

// ConsumerGroupPackage provides the *messaging.ConsumerGroup that feeds
// analytics events from Redis streams into the analytics store.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*RedisClient](i).Client,
			ConsumerGroup: opts.ConsumerGroup,
		}, messaging.NewZapLogger(logger.Named("watermill")))
		if err != nil {
			return nil, fmt.Errorf("create redis stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewConsumers(subscriber, analyticsstore.NewNoop(logger), logger)...)

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with every route and
// middleware registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		newRequestID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Short URL Preview", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api, newRequestID),
			middleware.PolicyRateLimiter(
				api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				ratelimit.NewOperationScopeResolver(),
				logger,
			),
		)

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Registry](i),
			do.MustInvoke[*shortener.Resolver](i),
			do.MustInvoke[*preview.Service](i),
			opts.PublicBaseURL(),
			do.MustInvoke[*analytics.Publishers](i),
			logger,
		)
		handlers.RegisterRoutes(api, urlHandler)

		checks := health.NewHandler()
		if opts.UsesRedis() {
			checks.Register("redis", health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client))
		}

		if opts.Storage == StoragePostgres {
			checks.Register("postgres", do.MustInvoke[*store.PostgresStore](i))
		}

		health.RegisterRoutes(api, checks)

		return api, nil
	})
}
