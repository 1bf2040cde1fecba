package app

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/catalog"
	"go-food-ordering/config"
	"go-food-ordering/controllers"
	"go-food-ordering/database"
	"go-food-ordering/helpers"
	"go-food-ordering/identity"
	"go-food-ordering/middleware"
	"go-food-ordering/routes"
	"go-food-ordering/storage"
	"go-food-ordering/store"
)

const (
	StorageCollection = "storage"
	AccessTokenTTL    = 24 * time.Hour
)

// App holds the stores and the HTTP surface built on top of them.
type App struct {
	cfg      config.Config
	persist  *storage.WriteBehind
	provider *identity.LocalProvider
	hub      *controllers.NotificationHub
	menu     *catalog.Catalog

	Cart     *store.CartStore
	Orders   *store.OrderStore
	Auth     *store.AuthStore
	Checkout *store.Checkout

	closers []func(context.Context) error
	logger  *log.Entry
}

// New opens the storage backend selected by cfg.StorageDriver and builds the app on it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	var (
		backend storage.Storage
		users   identity.UserRepository
		closers []func(context.Context) error
	)

	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, err := database.DBinstance(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		closers = append(closers, client.Disconnect)
		backend = storage.NewMongoStorage(database.OpenCollection(client, cfg.MongoDatabase, StorageCollection))
		users = identity.NewMongoUserRepository(database.OpenCollection(client, cfg.MongoDatabase, identity.UserCollection))
	case config.DriverRedis:
		client, err := database.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func(context.Context) error { return client.Close() })
		backend = storage.NewRedisStorage(client, storage.DefaultRedisPrefix)
	case config.DriverMySQL:
		db, err := database.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func(context.Context) error { return db.Close() })
		if err := database.MigrateMySQL(db); err != nil {
			db.Close()
			return nil, err
		}
		backend = storage.NewMySQLStorage(db)
	case config.DriverMemory, "":
		backend = storage.NewMemoryStorage()
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if users == nil {
		users = identity.NewStorageUserRepository(backend)
	}

	a, err := NewWithStorage(ctx, cfg, backend, users)
	if err != nil {
		for _, closeFn := range closers {
			closeFn(ctx)
		}
		return nil, err
	}
	a.closers = closers
	return a, nil
}

// NewWithStorage wires the stores over an already opened backend, restores
// their persisted state and asks the identity provider for the current session.
func NewWithStorage(ctx context.Context, cfg config.Config, backend storage.Storage, users identity.UserRepository, opts ...storage.Option) (*App, error) {
	menu, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	persist := storage.NewWriteBehind(backend, opts...)
	hub := controllers.NewNotificationHub()
	provider := identity.NewLocalProvider(users, backend, helpers.NewTokenIssuer(cfg.SecretKey, AccessTokenTTL))

	cart := store.NewCartStore(persist)
	orders := store.NewOrderStore(persist, store.WithDispatcher(hub))
	auth := store.NewAuthStore(provider, persist)

	a := &App{
		cfg:      cfg,
		persist:  persist,
		provider: provider,
		hub:      hub,
		menu:     menu,
		Cart:     cart,
		Orders:   orders,
		Auth:     auth,
		Checkout: store.NewCheckout(cart, orders, auth, store.Fees{Delivery: cfg.DeliveryFee, Service: cfg.ServiceFee}),
		logger:   log.WithField("component", "app"),
	}

	for _, load := range []func(context.Context) error{cart.Load, orders.Load, auth.Load} {
		if err := load(ctx); err != nil {
			persist.Close()
			return nil, err
		}
	}
	if err := auth.Initialize(ctx); err != nil {
		a.logger.WithError(err).Warn("could not restore identity session")
	}
	return a, nil
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log.WithField("component", "http")))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CorsAllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authenticated := middleware.Authentication(a.provider)
	routes.FoodRoutes(router, a.menu)
	routes.CartRoutes(router, a.Cart, a.menu)
	routes.UserRoutes(router, a.Auth, a.hub, authenticated)
	routes.CheckoutRoutes(router, a.Checkout, a.Auth, authenticated)
	routes.OrderRoutes(router, a.Orders, a.cfg.EnforceStatusTransitions)
	return router
}

// Flush waits for every queued state write.
func (a *App) Flush(ctx context.Context) error {
	return a.persist.Flush(ctx)
}

// Reset clears every persisted namespace, including the identity session.
// Registered users are kept.
func (a *App) Reset(ctx context.Context) error {
	if err := a.provider.SignOut(ctx); err != nil {
		return errors.Wrap(err, "delete identity session")
	}
	for _, reset := range []func(context.Context) error{a.Cart.Reset, a.Orders.Reset, a.Auth.Reset} {
		if err := reset(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close drains pending writes and releases the backend.
func (a *App) Close(ctx context.Context) error {
	a.Auth.Close()
	a.hub.Close()
	if err := a.persist.Flush(ctx); err != nil {
		a.logger.WithError(err).Warn("state writes still pending at shutdown")
	}
	a.persist.Close()

	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
