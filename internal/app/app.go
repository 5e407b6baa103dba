package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/priyanshtech/TaskManager/internal/auth"
	"github.com/priyanshtech/TaskManager/internal/calendar"
	"github.com/priyanshtech/TaskManager/internal/config"
	"github.com/priyanshtech/TaskManager/internal/handlers"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/metrics"
	"github.com/priyanshtech/TaskManager/internal/middleware"
	"github.com/priyanshtech/TaskManager/internal/migrations"
	"github.com/priyanshtech/TaskManager/internal/repository/task/inmemory"
	"github.com/priyanshtech/TaskManager/internal/repository/task/postgres"
	"github.com/priyanshtech/TaskManager/internal/repository/task/sqlite"
	"github.com/priyanshtech/TaskManager/internal/service"
	"github.com/priyanshtech/TaskManager/internal/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository
	service    *service.TaskService
	metrics    *metrics.Metrics
	limiter    middleware.Limiter
	worker     *worker.HealthWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает все зависимости. При ошибке уже открытые ресурсы закрываются.
func (a *App) Init(ctx context.Context) (err error) {
	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("конфигурация: %w", err)
	}

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	defer func() {
		if err != nil {
			a.runShutdowns()
		}
	}()

	cal, err := calendar.Load(a.config.Calendar.Timezone)
	if err != nil {
		return fmt.Errorf("часовой пояс календаря: %w", err)
	}

	a.metrics = metrics.New()

	if err := a.initRepository(ctx); err != nil {
		return err
	}

	a.service = service.NewTaskService(a.repository,
		service.WithCalendar(cal),
		service.WithRecorder(a.metrics),
	)

	a.initLimiter(ctx)

	interval := a.config.Worker.HealthInterval
	a.worker = worker.NewHealthWorker(a.service, a.metrics, &interval)

	a.initRouter()

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("timezone", cal.Location().String()),
		zap.String("rate_limit", a.config.RateLimit.Backend))
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if a.config.Database.AutoMigrate {
			if err := migrations.Up(a.config.Database.URL); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:        a.config.Database.MaxConnections,
			MinConns:        a.config.Database.MinConnections,
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, storage.Close)

	case config.RepositorySQLite:
		storage, err := sqlite.New(a.config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("подключение к SQLite: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, storage.Close)

	default:
		a.repository = inmemory.NewTaskStorage()
	}
	return nil
}

// initLimiter: недоступный Redis не мешает старту, лимитер пропускает запросы при ошибках.
func (a *App) initLimiter(ctx context.Context) {
	rpm := a.config.RateLimit.RequestsPerMinute
	if a.config.RateLimit.Backend != config.RateLimitRedis {
		a.limiter = middleware.NewMemoryLimiter(rpm, time.Minute)
		return
	}

	client := redis.NewClient(&redis.Options{Addr: a.config.RateLimit.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis недоступен, лимит запросов не применяется до восстановления",
			zap.String("addr", a.config.RateLimit.RedisAddr), zap.Error(err))
	}
	a.limiter = middleware.NewRedisLimiter(client, "taskmanager:ratelimit:", rpm, time.Minute)
	a.shutdowns = append(a.shutdowns, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Ошибка закрытия клиента Redis", zap.Error(err))
		}
	})
}

func (a *App) initRouter() {
	taskHandler := handlers.NewTaskHandler(a.service)
	gate := auth.NewGate(auth.Config{
		Secret:     a.config.Auth.Secret,
		Issuer:     a.config.Auth.Issuer,
		CookieName: a.config.Auth.CookieName,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(a.metrics))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", taskHandler.HealthCheck)
	r.Handle("/metrics", a.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(a.limiter))
		r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
		r.Use(middleware.Auth(gate))
		r.Mount("/tasks", taskHandler.Routes())
	})

	a.router = r
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер и ресурсы.
func (a *App) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		stopWorker()
		a.runShutdowns()
		if ok && err != nil {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("HTTP: Остановка сервера")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("HTTP: Ошибка остановки сервера", err)
	}

	a.runShutdowns()
	return err
}

// runShutdowns вызывает функции остановки в обратном порядке регистрации.
func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
