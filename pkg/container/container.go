package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"storefront-backend/internal/config"
	"storefront-backend/internal/infrastructure/cache"
	infraDB "storefront-backend/internal/infrastructure/database"
	"storefront-backend/internal/infrastructure/media"
	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/internal/infrastructure/search"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/internal/shared/counter"
	"storefront-backend/pkg/database"
	"storefront-backend/pkg/jwt"
	"storefront-backend/pkg/logger"

	"storefront-backend/internal/domains/category"
	categoryHandler "storefront-backend/internal/domains/category/handler"
	categoryRepo "storefront-backend/internal/domains/category/repository"
	categoryService "storefront-backend/internal/domains/category/service"
	"storefront-backend/internal/domains/pageregistry"
	pageRegistryService "storefront-backend/internal/domains/pageregistry/service"
	"storefront-backend/internal/domains/product"
	productHandler "storefront-backend/internal/domains/product/handler"
	productRepo "storefront-backend/internal/domains/product/repository"
	productService "storefront-backend/internal/domains/product/service"
)

// Container is the root of the dependency graph. Construction order is
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config      *config.Config
	DB          *infraDB.PostgresDB
	Redis       *redis.Client
	JWTManager  *jwt.Manager
	QueueClient *asynq.Client
	Storage     *storage.MinIOStorage
	Search      search.Service
	TxManager   database.TxManager

	CategoryRepo category.Repository
	ProductRepo  product.Repository

	PageRegistryService pageregistry.Service
	CounterService      counter.Service
	MediaService        media.Service
	CategoryService     category.Service
	ProductService      product.Service

	CategoryHandler *categoryHandler.CategoryHandler
	ProductHandler  *productHandler.ProductHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infraDB.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}
	c.Storage = minioStorage

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)
	c.QueueClient = queue.NewClient(cfg.Redis)
	c.Search = search.NewRedisSearch(redisClient)
	c.TxManager = database.NewTxManager(db.Pool)

	c.CategoryRepo = categoryRepo.NewPostgresCategoryRepository(db.Pool)
	c.ProductRepo = productRepo.NewPostgresProductRepository(db.Pool)

	c.PageRegistryService = pageRegistryService.NewPageRegistryService(db.Pool)
	c.CounterService = counter.NewService()
	c.MediaService = media.NewMediaService(minioStorage, storage.NewImageProcessor())
	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.CategoryService = categoryService.NewCategoryService(
		c.CategoryRepo,
		c.ProductService,
		c.PageRegistryService,
		c.CounterService,
		c.MediaService,
		c.Search,
		c.TxManager,
		db.Pool,
		c.QueueClient,
		cfg.Job.ReindexBatchSize,
	)

	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) Cleanup() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Error("failed to close queue client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
