package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/poker-club/config"
	"github.com/Dosada05/poker-club/db"
	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/services"
	"github.com/Dosada05/poker-club/storage"
)

// cliActor - оператор, запускающий локальную команду с доступом к каталогу данных.
var cliActor = models.Actor{Username: "cli", IsAdmin: true}

type app struct {
	store    repositories.Store
	dbConn   *sql.DB
	users    repositories.UserRepository
	history  services.HistoryService
	ledger   services.LedgerService
	registry services.TournamentService
	ranking  services.RankingService
	auth     services.AuthService
	accounts services.UserService
	backup   services.BackupService
	logger   *slog.Logger
}

// newApp собирает репозитории и сервисы. notifier может быть nil для команд
// без живой ленты.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, notifier services.LedgerNotifier) (*app, error) {
	a := &app{logger: logger}

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		conn, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBTimeout, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		a.dbConn = conn
		a.store = repositories.NewPostgresStore(conn, logger)
	default:
		fs, err := repositories.NewFileStore(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		a.store = fs
	}
	logger.Info("storage initialized", slog.String("driver", cfg.StorageDriver))

	a.users = repositories.NewJSONUserRepository(cfg.UsersFile)

	defaults := services.Defaults{
		StackSize: cfg.Club.DefaultStackSize,
		Earnings:  models.Earnings(cfg.Club.DefaultEarnings),
	}
	a.history = services.NewHistoryService(a.store)
	a.ledger = services.NewLedgerService(a.store, a.history, notifier, logger)
	a.registry = services.NewTournamentService(a.store, a.ledger, defaults, logger)
	a.ranking = services.NewRankingService(a.store, logger)
	a.auth = services.NewAuthService(a.users, logger)
	a.accounts = services.NewUserService(a.users, logger)

	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	if r2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		a.backup = services.NewBackupService(a.store, uploader, logger)
		logger.Info("object storage initialized", slog.String("bucket", cfg.R2BucketName))
	}
	return a, nil
}

func (a *app) Close() {
	if a.backup != nil {
		if err := a.backup.Stop(); err != nil {
			a.logger.Error("failed to stop backup scheduler", slog.Any("error", err))
		}
	}
	if a.dbConn != nil {
		if err := a.dbConn.Close(); err != nil {
			a.logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			a.logger.Info("database connection closed")
		}
	}
}
