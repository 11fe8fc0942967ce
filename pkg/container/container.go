package container

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	categoryHandler "library-backend/internal/domains/category/handler"
	categoryRepo "library-backend/internal/domains/category/repository"
	categoryService "library-backend/internal/domains/category/service"
	loanHandler "library-backend/internal/domains/loan/handler"
	loanRepo "library-backend/internal/domains/loan/repository"
	loanService "library-backend/internal/domains/loan/service"
	statsHandler "library-backend/internal/domains/stats/handler"
	statsRepo "library-backend/internal/domains/stats/repository"
	statsService "library-backend/internal/domains/stats/service"
	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo     userRepo.RepositoryInterface
	CategoryRepo categoryRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface
	LoanRepo     loanRepo.RepositoryInterface
	StatsRepo    statsRepo.RepositoryInterface

	UserService     userService.ServiceInterface
	CategoryService categoryService.ServiceInterface
	BookService     bookService.ServiceInterface
	LoanService     loanService.ServiceInterface
	StatsService    statsService.ServiceInterface

	UserHandler     *userHandler.UserHandler
	CategoryHandler *categoryHandler.CategoryHandler
	BookHandler     *bookHandler.BookHandler
	LoanHandler     *loanHandler.LoanHandler
	StatsHandler    *statsHandler.StatsHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	c.Cache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(db.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(db.Pool)
	c.LoanRepo = loanRepo.NewPostgresRepository(db.Pool)
	c.StatsRepo = statsRepo.NewPostgresRepository(db.Pool)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, cfg.JWT)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.CategoryService, c.Cache, cfg.Cache)
	c.LoanService = loanService.NewLoanService(c.LoanRepo, c.UserRepo, c.BookRepo, c.Cache, cfg.Loan)
	c.StatsService = statsService.NewStatsService(c.StatsRepo, c.Cache, cfg.Cache, cfg.Loan)

	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.LoanHandler = loanHandler.NewLoanHandler(c.LoanService)
	c.StatsHandler = statsHandler.NewStatsHandler(c.StatsService)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

// Cleanup releases infrastructure connections in reverse order.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}
}
