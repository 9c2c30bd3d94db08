package container

import (
	"context"
	"fmt"
	"time"

	"leafside-client/internal/config"
	cartRepo "leafside-client/internal/domains/cart/repository"
	cartService "leafside-client/internal/domains/cart/service"
	catalogService "leafside-client/internal/domains/catalog/service"
	identityService "leafside-client/internal/domains/identity/service"
	orderService "leafside-client/internal/domains/order/service"
	"leafside-client/internal/storage"
	"leafside-client/pkg/apiclient"
	"leafside-client/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the client application and is the
// root of the dependency graph. All members are singletons living for
// the process lifetime.
type Container struct {
	Config  *config.Config
	Storage storage.Store
	API     *apiclient.Client

	Identity *identityService.IdentityService
	Catalog  catalogService.ServiceInterface
	Cart     cartService.ServiceInterface
	Orders   orderService.ServiceInterface

	cleanups []func()
}

// NewContainer wires the whole client: config -> storage -> API client
// -> services -> cart store, hydrates the persisted session, binds
// identity transitions to cart reloads, and installs the initial cart
// snapshot.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	c := &Container{Config: cfg}

	// ========================================
	// 1. LOCAL STORAGE
	// ========================================
	// File-backed by default; Redis when an address is configured.
	if cfg.Redis.Addr != "" {
		redisStore := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Storage.Namespace)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := redisStore.Connect(pingCtx); err != nil {
			return nil, fmt.Errorf("connect redis storage: %w", err)
		}

		c.Storage = redisStore
		c.cleanups = append(c.cleanups, func() {
			if err := redisStore.Close(); err != nil {
				logger.Error("closing redis storage failed", err)
			}
		})
	} else {
		fileStore, err := storage.NewFileStore(cfg.Storage.Dir, cfg.Storage.Namespace)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		c.Storage = fileStore
	}

	// ========================================
	// 2. API CLIENT + IDENTITY
	// ========================================
	// The API client pulls the bearer token from the identity service;
	// the identity service makes its calls through the same client. The
	// TokenFunc indirection breaks the construction cycle.
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	c.API = apiclient.New(cfg.API.BaseURL, timeout, apiclient.TokenFunc(func() string {
		if c.Identity == nil {
			return ""
		}
		return c.Identity.Token()
	}))

	c.Identity = identityService.NewIdentityService(c.API, c.Storage)

	// ========================================
	// 3. DOMAIN SERVICES
	// ========================================
	c.Catalog = catalogService.NewCatalogService(c.API)
	c.Orders = orderService.NewOrderService(c.API)
	c.Cart = cartService.NewCartStore(
		cartRepo.NewRemoteCart(c.API),
		cartRepo.NewLocalCart(c.Storage),
		c.Catalog,
		c.Identity,
	)

	// ========================================
	// 4. SESSION HYDRATION + TRANSITION BINDING
	// ========================================
	// Hydrate before binding so startup does not double-load the cart;
	// afterwards every sign-in/sign-out swaps the authoritative backend
	// and reloads. The anonymous cart is never merged upward.
	if err := c.Identity.Hydrate(ctx); err != nil {
		return nil, fmt.Errorf("hydrate session: %w", err)
	}

	c.Identity.Watch(func(string) {
		if err := c.Cart.Load(context.Background()); err != nil {
			logger.Error("cart reload after identity change failed", err)
		}
	})

	if err := c.Cart.Load(ctx); err != nil {
		// Stale or empty cart at startup is not fatal.
		logger.Warn("initial cart load failed", map[string]interface{}{"error": err.Error()})
	}

	return c, nil
}

// Cleanup releases held resources. Safe to call once on shutdown.
func (c *Container) Cleanup() {
	for _, fn := range c.cleanups {
		fn()
	}
}
