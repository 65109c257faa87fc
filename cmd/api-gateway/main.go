package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-timetable/api/swagger"
	internalhandler "github.com/noah-isme/campus-timetable/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-timetable/internal/middleware"
	"github.com/noah-isme/campus-timetable/internal/repository"
	"github.com/noah-isme/campus-timetable/internal/service"
	"github.com/noah-isme/campus-timetable/pkg/cache"
	"github.com/noah-isme/campus-timetable/pkg/config"
	"github.com/noah-isme/campus-timetable/pkg/database"
	"github.com/noah-isme/campus-timetable/pkg/export"
	"github.com/noah-isme/campus-timetable/pkg/jobs"
	"github.com/noah-isme/campus-timetable/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-timetable/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-timetable/pkg/middleware/requestid"
	"github.com/noah-isme/campus-timetable/pkg/storage"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Generates weekly academic timetables from a CSP-style student
// @description placement phase, a greedy faculty assignment phase, and an
// @description independent validator.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/status", metricsHandler.Status)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	var cacheRepo service.CacheRepository
	var cacheCloser interface{ Close() error }
	if cfg.Cache.Enabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("generate result cache disabled", "error", err)
		} else {
			cacheCloser = client
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	if cacheCloser != nil {
		defer cacheCloser.Close()
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	// Pipeline: StudentScheduler -> FacultyOptimiser -> Validator, orchestrated by Manager.
	scheduler := service.NewStudentScheduler(cfg.Scheduler.MaxWorkers, logr)
	optimiser := service.NewFacultyOptimiser(logr)
	validator := service.NewValidator()
	manager := service.NewManager(scheduler, optimiser, validator, metricsSvc, cacheSvc, logr)

	scheduleRepo := repository.NewSemesterScheduleRepository(db)
	slotRepo := repository.NewSemesterScheduleSlotRepository(db)
	store := service.NewTimetableStoreService(db, scheduleRepo, slotRepo, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)
	exportSvc := service.NewExportService(fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Export.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	cleanupQueue := jobs.NewQueue("export-cleanup", func(ctx context.Context, _ jobs.Job) error {
		deleted, err := exportSvc.Cleanup(cfg.Export.CleanupInterval)
		if err != nil {
			return err
		}
		if len(deleted) > 0 {
			logr.Sugar().Infow("cleaned up expired exports", "count", len(deleted))
		}
		return nil
	}, jobs.QueueConfig{Workers: 1, Logger: logr})

	queueCtx, cancelQueue := context.WithCancel(context.Background())
	cleanupQueue.Start(queueCtx)
	stopCleanupTicker := startCleanupTicker(queueCtx, cleanupQueue, cfg.Export.CleanupInterval)
	defer func() {
		stopCleanupTicker()
		cancelQueue()
		cleanupQueue.Stop()
	}()

	timetableHandler := internalhandler.NewTimetableHandler(manager, store)
	exportHandler := internalhandler.NewExportHandler(exportSvc)

	api := r.Group(cfg.APIPrefix)
	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(cfg.JWT.Secret))

	timetableGroup := secured.Group("/timetable")
	timetableGroup.POST("/generate", timetableHandler.Generate)
	timetableGroup.POST("/generate/batch", timetableHandler.GenerateBatch)
	timetableGroup.POST("/save", timetableHandler.Save)
	timetableGroup.GET("/:id", timetableHandler.Get)
	timetableGroup.GET("/by-request-key/:requestKey", timetableHandler.ListVersions)
	timetableGroup.POST("/:id/publish", timetableHandler.Publish)
	timetableGroup.POST("/:id/archive", timetableHandler.Archive)
	timetableGroup.DELETE("/:id", timetableHandler.Delete)

	secured.POST("/export", exportHandler.Generate)

	// Download links are pre-signed; the bearer token is optional here so
	// shared links keep working while authenticated callers still get
	// their claims attached to the request context.
	api.GET("/export/:token", internalmiddleware.OptionalJWT(cfg.JWT.Secret), exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// startCleanupTicker periodically enqueues an export-cleanup job and returns
// a function that stops the ticker.
func startCleanupTicker(ctx context.Context, queue *jobs.Queue, interval time.Duration) func() {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				_ = queue.Enqueue(jobs.Job{ID: "export-cleanup", Type: "cleanup"})
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
