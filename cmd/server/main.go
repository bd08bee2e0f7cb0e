package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codepad/internal/common/cache"
	"codepad/internal/common/db"
	"codepad/internal/runner/dispatch"
	"codepad/internal/runner/recipe"
	"codepad/internal/server/controller"
	"codepad/internal/server/middleware"
	"codepad/internal/server/service"
	"codepad/internal/snippet"
	"codepad/pkg/utils/logger"
)

const defaultConfigPath = "configs/server.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// The shared working directory is created once here; the dispatcher
	// assumes it exists.
	if err := os.MkdirAll(appCfg.Runner.WorkRoot, 0755); err != nil {
		logger.Error(context.Background(), "create work root failed", zap.Error(err))
		return
	}

	registry := recipe.NewRegistry()
	dispatcher, err := dispatch.New(dispatch.Config{
		WorkDir:          appCfg.Runner.WorkRoot,
		Timeout:          appCfg.Runner.Timeout,
		OutputLimitBytes: appCfg.Runner.OutputLimitBytes,
	}, registry)
	if err != nil {
		logger.Error(context.Background(), "init dispatcher failed", zap.Error(err))
		return
	}

	var redisCache *cache.RedisCache
	if appCfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedisCacheWithConfig(&appCfg.Redis)
		if err != nil {
			logger.Error(context.Background(), "init redis failed", zap.Error(err))
			return
		}
		defer func() {
			_ = redisCache.Close()
		}()
	}

	var snippetService *snippet.Service
	if appCfg.Database.DSN != "" {
		mysqlDB, err := db.NewMySQLWithConfig(&appCfg.Database)
		if err != nil {
			logger.Error(context.Background(), "init database failed", zap.Error(err))
			return
		}
		defer func() {
			_ = mysqlDB.Close()
		}()

		var repo snippet.Repository = snippet.NewMySQLRepository(mysqlDB)
		if redisCache != nil {
			repo = snippet.NewCachedRepository(repo, redisCache, appCfg.Snippets.CacheTTL)
		}
		snippetService = snippet.NewService(repo, registry, appCfg.Runner.MaxCodeBytes)
	}

	var rateService *service.RateLimitService
	if appCfg.RateLimit.Enabled && redisCache != nil {
		rateService = service.NewRateLimitService(redisCache, appCfg.RateLimit.Window, appCfg.Redis.ReadTimeout)
	}

	httpServer := buildHTTPServer(appCfg, dispatcher, registry, snippetService, rateService)
	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "playground http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}

func buildHTTPServer(
	appCfg *AppConfig,
	dispatcher *dispatch.Dispatcher,
	registry *recipe.Registry,
	snippetService *snippet.Service,
	rateService *service.RateLimitService,
) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.CORSMiddleware(appCfg.CORS))
	router.Use(requestLogger())

	runController := controller.NewRunController(dispatcher, registry, appCfg.Runner.MaxCodeBytes)
	snippetController := controller.NewSnippetController(snippetService)

	api := router.Group("/api/v1")
	api.POST("/run",
		middleware.RateLimitMiddleware(rateService, "run", appCfg.RateLimit.RunsPerWindow),
		runController.Run,
	)
	api.GET("/languages", runController.Languages)
	api.GET("/templates/:language", runController.Template)
	api.POST("/snippets", snippetController.Save)
	api.GET("/snippets/:id", snippetController.Get)

	router.Static("/static", appCfg.Static.Dir)
	router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(appCfg.Static.Dir, "index.html"))
	})

	return &http.Server{
		Addr:         appCfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
		IdleTimeout:  appCfg.Server.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
