package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/adapter/cache"
	"github.com/simaogato/vehicleplan-backend/internal/adapter/cbr"
	"github.com/simaogato/vehicleplan-backend/internal/adapter/notify"
	"github.com/simaogato/vehicleplan-backend/internal/adapter/repository/fixture"
	"github.com/simaogato/vehicleplan-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/vehicleplan-backend/internal/config"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/observability"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/auth"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/baseline"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/depreciation"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/projection"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/promotion"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/seeder"
)

// App holds the wired services shared by the server and the CLI
type App struct {
	Config     *config.Config
	Log        *logrus.Logger
	Metrics    *observability.Metrics
	Projection *projection.ProjectionService
	Auth       *auth.AuthService
	Seeder     *seeder.CredentialSeeder
	Watcher    *promotion.Watcher // Nil when no schedule or models are configured

	closers []func() error
}

// NewLogger creates the JSON logger; an unknown level means INFO
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

type repositories struct {
	vehicles     domain.VehicleRepository
	transactions domain.TransactionRepository
	goals        domain.GoalRepository
	credentials  domain.CredentialRepository
}

// New wires repositories, adapters and use cases from the configuration
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Log:     log,
		Metrics: observability.NewMetrics(),
	}

	repos, err := a.openRepositories(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	vehicles := cache.NewVehicleRepository(repos.vehicles, a.openCache(ctx), cfg.CacheTTL, log)

	baselines := baseline.NewService(repos.transactions, log, a.Metrics, cfg.CollaboratorTimeout)
	rates := depreciation.NewService(vehicles, log, a.Metrics, cfg.CollaboratorTimeout)

	svc := projection.NewProjectionService(vehicles, repos.goals, baselines, rates, log)
	svc.Params.AnnualInterestRate = cfg.AnnualInterestRate
	svc.Params.MaxHorizonMonths = cfg.MaxHorizonMonths
	svc.DefaultManufacturer = cfg.DefaultManufacturer
	svc.PromotionModelYear = cfg.PromotionModelYear
	svc.Timeout = cfg.CollaboratorTimeout
	svc.Metrics = a.Metrics
	if cfg.InterestRateSource == config.InterestRateCBR {
		svc.InterestRates = cbr.NewClient(cfg.CBRURL, cfg.BankMargin, log)
	}
	a.Projection = svc

	a.Auth = auth.NewAuthService(repos.credentials, cfg.JWTSecret, log)
	a.Seeder = seeder.NewCredentialSeeder(repos.credentials)

	if cfg.PromotionSchedule != "" && len(cfg.PromotionModels) > 0 {
		a.Watcher = promotion.NewWatcher(svc, a.notifier(), cfg.PromotionModels, log)
		a.Watcher.Schedule = cfg.PromotionSchedule
	}

	return a, nil
}

func (a *App) openRepositories(ctx context.Context) (*repositories, error) {
	switch a.Config.DataSource {
	case config.DataSourcePostgres:
		db, err := postgres.NewDB(a.Config.DBConn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}

		return &repositories{
			vehicles:     postgres.NewVehicleRepository(db),
			transactions: postgres.NewTransactionRepository(db),
			goals:        postgres.NewGoalRepository(db),
			credentials:  postgres.NewCredentialRepository(db),
		}, nil

	default:
		store, err := fixture.Load(a.Config.FixturePath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			vehicles:     store,
			transactions: store,
			goals:        store,
			credentials:  store,
		}, nil
	}
}

// openCache connects to Redis when configured; an unreachable Redis degrades to an in-process cache
func (a *App) openCache(ctx context.Context) domain.Cache {
	if a.Config.RedisAddr == "" {
		return cache.NewMemoryCache()
	}

	rc, err := cache.NewRedisCache(ctx, a.Config.RedisAddr)
	if err != nil {
		a.Log.WithField("addr", a.Config.RedisAddr).WithError(err).Warn("Redis unavailable, using in-process cache")
		return cache.NewMemoryCache()
	}
	a.closers = append(a.closers, rc.Close)
	return rc
}

func (a *App) notifier() domain.Notifier {
	if !a.Config.NotificationsEnabled() {
		return notify.LogNotifier{Logger: a.Log}
	}
	return notify.NewEmailNotifier(notify.SMTPConfig{
		Host:     a.Config.SMTPHost,
		Port:     a.Config.SMTPPort,
		Username: a.Config.SMTPUsername,
		Password: a.Config.SMTPPassword,
		From:     a.Config.SenderEmail,
	}, []string{a.Config.NotifyEmail}, a.Log)
}

// SeedDefaultUser creates the configured default login if it is missing
func (a *App) SeedDefaultUser(ctx context.Context) error {
	if a.Config.DefaultUser == "" {
		return nil
	}
	return a.Seeder.Seed(ctx, seeder.DefaultUser{
		Username: a.Config.DefaultUser,
		Password: a.Config.DefaultPassword,
	})
}

// Close stops the watcher and releases connections
func (a *App) Close() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
