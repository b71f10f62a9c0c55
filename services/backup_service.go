package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/spreadsheet"
	"github.com/Dosada05/poker-club/storage"
	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"
)

const (
	snapshotPrefix      = "snapshots"
	snapshotStampLayout = "20060102_150405"
	maxParallelUploads  = 4
)

// SnapshotResult перечисляет объекты, записанные одним снимком.
type SnapshotResult struct {
	Stamp string   `json:"stamp"`
	Keys  []string `json:"keys"`
}

type BackupService interface {
	// Snapshot выгружает реестр, все ведомости и общий рейтинг под одним
	// префиксом с отметкой времени. Частичная выгрузка удаляется.
	Snapshot(ctx context.Context) (*SnapshotResult, error)
	// Start запускает Snapshot по cron-выражению до вызова Stop.
	Start(cronExpr string) error
	Stop() error
}

type snapshotFile struct {
	key  string
	data []byte
}

type backupService struct {
	store     repositories.Store
	uploader  storage.FileUploader
	now       func() time.Time
	logger    *slog.Logger
	scheduler gocron.Scheduler
	mu        sync.Mutex
}

func NewBackupService(store repositories.Store, uploader storage.FileUploader, logger *slog.Logger) BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &backupService{
		store:    store,
		uploader: uploader,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "backup")),
	}
}

func (s *backupService) Snapshot(ctx context.Context) (*SnapshotResult, error) {
	stamp := s.now().UTC().Format(snapshotStampLayout)
	files, err := s.collect(ctx, path.Join(snapshotPrefix, stamp))
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		uploaded = make([]string, 0, len(files))
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for _, f := range files {
		g.Go(func() error {
			if _, err := s.uploader.Upload(gCtx, f.key, storage.ContentTypeFor(f.key), bytes.NewReader(f.data)); err != nil {
				snapshotUploads.WithLabelValues("error").Inc()
				return err
			}
			snapshotUploads.WithLabelValues("ok").Inc()
			mu.Lock()
			uploaded = append(uploaded, f.key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.rollback(ctx, uploaded)
		operationFailures.WithLabelValues("snapshot").Inc()
		return nil, fmt.Errorf("%w: upload snapshot %s: %w", ErrPersistence, stamp, err)
	}

	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = f.key
	}
	s.logger.InfoContext(ctx, "snapshot uploaded", slog.String("stamp", stamp), slog.Int("files", len(keys)))
	return &SnapshotResult{Stamp: stamp, Keys: keys}, nil
}

// collect читает согласованный срез хранилища и кодирует его.
func (s *backupService) collect(ctx context.Context, prefix string) ([]snapshotFile, error) {
	var files []snapshotFile
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		files = files[:0]
		tournaments, err := tx.Tournaments().List(ctx)
		if err != nil {
			return mapRepositoryError(err, "list tournaments")
		}
		if tournaments == nil {
			tournaments = []*models.Tournament{}
		}
		registry, err := json.MarshalIndent(tournaments, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode registry: %w", err)
		}
		files = append(files, snapshotFile{path.Join(prefix, "tournaments.json"), registry})

		for _, t := range tournaments {
			ledger, err := tx.Ledgers().Get(ctx, t.Name)
			if errors.Is(err, repositories.ErrLedgerNotFound) {
				continue
			}
			if err != nil {
				return mapRepositoryError(err, "load ledger")
			}
			data, err := spreadsheet.EncodeLedger(ledger)
			if err != nil {
				return fmt.Errorf("failed to encode ledger %q: %w", t.Name, err)
			}
			key := path.Join(prefix, "ledgers", repositories.LedgerFileName(t.Name))
			files = append(files, snapshotFile{key, data})
		}

		ranking, err := tx.Rankings().Get(ctx)
		if err != nil {
			return mapRepositoryError(err, "load general ranking")
		}
		data, err := spreadsheet.EncodeRanking(ranking)
		if err != nil {
			return fmt.Errorf("failed to encode general ranking: %w", err)
		}
		files = append(files, snapshotFile{path.Join(prefix, "general_ranking.xlsx"), data})
		return nil
	})
	if err != nil {
		operationFailures.WithLabelValues("snapshot").Inc()
		return nil, err
	}
	return files, nil
}

func (s *backupService) rollback(ctx context.Context, keys []string) {
	// Удаляем уже загруженные файлы, даже если ctx отменён.
	cleanupCtx := context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.uploader.Delete(cleanupCtx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to remove partial snapshot object", slog.String("key", key), slog.Any("error", err))
		}
	}
}

func (s *backupService) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		return errors.New("backup scheduler already started")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			if _, err := s.Snapshot(context.Background()); err != nil {
				s.logger.Error("scheduled snapshot failed", slog.Any("error", err))
			}
		}),
		gocron.WithName("snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("invalid backup schedule %q: %w", cronExpr, err)
	}

	sched.Start()
	s.scheduler = sched
	s.logger.Info("backup scheduler started", slog.String("cron", cronExpr))
	return nil
}

func (s *backupService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}
