package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wanderlust_backend/internal/catalog"
	"wanderlust_backend/internal/config"
	"wanderlust_backend/internal/controller"
	"wanderlust_backend/internal/event"
	"wanderlust_backend/internal/repository"
	"wanderlust_backend/internal/selection"
	"wanderlust_backend/internal/service"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/cache"
	"wanderlust_backend/pkg/database"
	"wanderlust_backend/pkg/faults"
	"wanderlust_backend/pkg/logger"
	"wanderlust_backend/pkg/monitoring"
	"wanderlust_backend/pkg/ratelimit"
	"wanderlust_backend/pkg/security"
	"wanderlust_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Events          event.Publisher
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	profile      *repository.ProfileRepository
	question     *repository.QuestionRepository
	progress     *repository.ProgressRepository
	attempt      *repository.AttemptRepository
	gamification *repository.GamificationRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	user         *service.UserService
	question     *service.QuestionService
	feeder       *service.FeederService
	gamification *service.GamificationService
	quiz         *service.QuizService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	question     *controller.QuestionController
	quiz         *controller.QuizController
	gamification *controller.GamificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded configuration and notifies subscribers.
// Connection-level settings still need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		profile:      repository.NewProfileRepository(db),
		question:     repository.NewQuestionRepository(db),
		progress:     repository.NewProgressRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		gamification: repository.NewGamificationRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, events event.Publisher) *services {
	s := &services{}

	limiter := ratelimit.NewLimiter(map[string]ratelimit.Quota{
		util.ActionStartQuiz:    {Requests: cfg.Quiz.StartPerMinute, Window: time.Minute},
		util.ActionQuestionFeed: {Requests: cfg.Quiz.FeedPerMinute, Window: time.Minute},
		util.ActionShareResult:  {Requests: cfg.Quiz.SharePerHour, Window: time.Hour},
	})
	feedCache := cache.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	store := catalog.NewStore(logger.Log)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.profile, repos.progress, repos.attempt, logger.Log)

	s.question = service.NewQuestionService(repos.question, store, s.storage, logger.Log)
	if err := s.question.Hydrate(); err != nil {
		logger.Log.Fatal("hydrate question catalog", zap.Error(err))
	}

	s.feeder = service.NewFeederService(
		store,
		repos.profile,
		repos.progress,
		selection.NewSelector(nil),
		feedCache,
		limiter,
		logger.Log,
	)
	s.gamification = service.NewGamificationService(
		repos.gamification,
		repos.attempt,
		repos.progress,
		repos.user,
		events,
		limiter,
		logger.Log,
	)
	s.quiz = service.NewQuizService(
		s.feeder,
		s.question,
		repos.profile,
		repos.progress,
		repos.attempt,
		s.gamification,
		limiter,
		events,
		logger.Log,
		nil,
	)

	return s
}

// faultRules maps domain errors onto HTTP classes. First match wins; the
// handler appends its own catch-all.
func faultRules() []faults.Rule {
	return []faults.Rule{
		{
			Class:   "not_found",
			Matches: faults.MatchAny(util.ErrQuestionNotFound, util.ErrSessionNotFound, util.ErrUserNotFound, gorm.ErrRecordNotFound),
			Status:  http.StatusNotFound,
			Message: "resource not found",
		},
		{
			Class:     "throttled",
			Matches:   faults.MatchAny(util.ErrRateLimited),
			Status:    http.StatusTooManyRequests,
			Message:   "too many requests, slow down",
			Retryable: true,
		},
		{
			Class:   "forbidden",
			Matches: faults.MatchAny(util.ErrPermissionDenied, util.ErrSkipNotAllowed, util.ErrChallengeLocked),
			Status:  http.StatusForbidden,
			Message: "not allowed",
		},
		{
			Class:   "conflict",
			Matches: faults.MatchAny(util.ErrSessionFinished, util.ErrNotAccepting),
			Status:  http.StatusConflict,
			Message: "session is not accepting answers",
		},
		{
			Class:   "empty",
			Matches: faults.MatchAny(util.ErrNoQuestions),
			Status:  http.StatusNotFound,
			Message: "no questions match the request",
		},
		{
			Class:     "storage",
			Matches:   faults.MatchSubstring("minio", "connection refused"),
			Status:    http.StatusBadGateway,
			Message:   "storage backend unavailable",
			Retryable: true,
		},
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	faultHandler := faults.NewHandler(logger.Log, 128, faultRules()...)
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, faultHandler),
		question:     controller.NewQuestionController(s.question, s.feeder, faultHandler),
		quiz:         controller.NewQuizController(s.quiz, faultHandler),
		gamification: controller.NewGamificationController(s.gamification, faultHandler),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func initEvents(cfg *config.Config) event.Publisher {
	if cfg.Events.AMQPURL == "" {
		return event.NewLogPublisher(logger.Log)
	}
	exchange := cfg.Events.Exchange
	if exchange == "" {
		exchange = "wanderlust.events"
	}
	pub, err := event.NewAMQPPublisher(cfg.Events.AMQPURL, exchange, logger.Log)
	if err != nil {
		logger.Log.Error("amqp unavailable, falling back to log publisher", zap.Error(err))
		return event.NewLogPublisher(logger.Log)
	}
	return pub
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	events := initEvents(cfg)

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Events: events,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, events)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("wanderlust-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.Events != nil {
		a.Events.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
