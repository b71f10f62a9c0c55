package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/spreadsheet"
)

const (
	registryFileName = "tournaments.json"
	rankingFileName  = "general_ranking.xlsx"
	ledgerDirName    = "ledgers"
	backupDirName    = "backups"
	backupTimeLayout = "20060102_150405"
)

// FileStore хранит реестр в JSON, а ведомости и рейтинг в .xlsx в одном
// каталоге. Atomic копит изменения в памяти и фиксирует их записью
// временных файлов с последующим переименованием.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	now    func() time.Time
	logger *slog.Logger
}

// NewFileStore при необходимости создаёт структуру каталогов внутри dir.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, d := range []string{dir, filepath.Join(dir, ledgerDirName), filepath.Join(dir, backupDirName)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", d, err)
		}
	}
	return &FileStore{dir: dir, now: time.Now, logger: logger}, nil
}

// Dir возвращает каталог данных.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Tournaments() TournamentRepository { return fileTournaments{run: s.run} }
func (s *FileStore) Ledgers() LedgerRepository         { return fileLedgers{run: s.run} }
func (s *FileStore) Rankings() RankingRepository       { return fileRankings{run: s.run} }

func (s *FileStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.run(ctx, func(tx *fileTx) error { return fn(tx) })
}

// run выполняет fn в новой транзакции и фиксирует её при успехе.
func (s *FileStore) run(ctx context.Context, fn func(tx *fileTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &fileTx{store: s, ledgers: make(map[string]*models.Ledger), dirtyLedgers: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

func (s *FileStore) registryPath() string { return filepath.Join(s.dir, registryFileName) }
func (s *FileStore) rankingPath() string  { return filepath.Join(s.dir, rankingFileName) }
func (s *FileStore) ledgerPath(name string) string {
	return filepath.Join(s.dir, ledgerDirName, LedgerFileName(name))
}

// fileTx - слой в памяти поверх файлов FileStore.
type fileTx struct {
	store *FileStore

	registry      []*models.Tournament
	registryReady bool
	registryDirty bool

	ledgers      map[string]*models.Ledger
	dirtyLedgers map[string]bool

	ranking      *models.RankingTable
	rankingDirty bool
}

func (tx *fileTx) Tournaments() TournamentRepository { return fileTournaments{run: tx.run} }
func (tx *fileTx) Ledgers() LedgerRepository         { return fileLedgers{run: tx.run} }
func (tx *fileTx) Rankings() RankingRepository       { return fileRankings{run: tx.run} }

func (tx *fileTx) Atomic(_ context.Context, fn func(tx Store) error) error { return fn(tx) }

func (tx *fileTx) run(_ context.Context, fn func(tx *fileTx) error) error { return fn(tx) }

func (tx *fileTx) loadRegistry() ([]*models.Tournament, error) {
	if tx.registryReady {
		return tx.registry, nil
	}
	data, err := os.ReadFile(tx.store.registryPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		tx.registry = make([]*models.Tournament, 0)
	case err != nil:
		return nil, fmt.Errorf("failed to read tournament registry: %w", err)
	default:
		if err := json.Unmarshal(data, &tx.registry); err != nil {
			return nil, fmt.Errorf("failed to decode tournament registry: %w", err)
		}
	}
	tx.registryReady = true
	return tx.registry, nil
}

func (tx *fileTx) findTournament(name string) (*models.Tournament, error) {
	registry, err := tx.loadRegistry()
	if err != nil {
		return nil, err
	}
	for _, t := range registry {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, ErrTournamentNotFound
}

// loadLedger возвращает ведомость из транзакции или читает её с диска.
func (tx *fileTx) loadLedger(name string) (*models.Ledger, error) {
	if l, ok := tx.ledgers[name]; ok {
		if l == nil {
			return nil, ErrLedgerNotFound
		}
		return l, nil
	}
	data, err := os.ReadFile(tx.store.ledgerPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		tx.ledgers[name] = nil
		return nil, ErrLedgerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger for tournament %q: %w", name, err)
	}
	l, err := spreadsheet.DecodeLedger(name, data)
	if err != nil {
		return nil, err
	}
	tx.ledgers[name] = l
	return l, nil
}

func (tx *fileTx) loadRanking() (*models.RankingTable, error) {
	if tx.ranking != nil {
		return tx.ranking, nil
	}
	data, err := os.ReadFile(tx.store.rankingPath())
	if errors.Is(err, fs.ErrNotExist) {
		tx.ranking = &models.RankingTable{Rows: make([]models.RankingRow, 0)}
		return tx.ranking, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read general ranking: %w", err)
	}
	ranking, err := spreadsheet.DecodeRanking(data)
	if err != nil {
		return nil, err
	}
	tx.ranking = ranking
	return ranking, nil
}

type pendingWrite struct {
	path string
	data []byte
	tmp  string
}

// commit кодирует изменённые объекты, пишет все временные файлы и только
// потом переименовывает их. Пока не записаны все временные файлы, на диске
// ничего не меняется.
func (tx *fileTx) commit() error {
	var writes []*pendingWrite

	if tx.registryDirty {
		data, err := json.MarshalIndent(tx.registry, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode tournament registry: %w", err)
		}
		writes = append(writes, &pendingWrite{path: tx.store.registryPath(), data: data})
	}
	for name := range tx.dirtyLedgers {
		data, err := spreadsheet.EncodeLedger(tx.ledgers[name])
		if err != nil {
			return fmt.Errorf("failed to encode ledger for tournament %q: %w", name, err)
		}
		writes = append(writes, &pendingWrite{path: tx.store.ledgerPath(name), data: data})
	}
	if tx.rankingDirty {
		data, err := spreadsheet.EncodeRanking(tx.ranking)
		if err != nil {
			return fmt.Errorf("failed to encode general ranking: %w", err)
		}
		writes = append(writes, &pendingWrite{path: tx.store.rankingPath(), data: data})
	}
	if len(writes) == 0 {
		return nil
	}

	cleanup := func() {
		for _, w := range writes {
			if w.tmp != "" {
				_ = os.Remove(w.tmp)
			}
		}
	}
	for _, w := range writes {
		tmp, err := writeTemp(w.path, w.data)
		if err != nil {
			cleanup()
			return err
		}
		w.tmp = tmp
	}

	stamp := tx.store.now().Format(backupTimeLayout)
	for i, w := range writes {
		tx.store.backup(w.path, stamp)
		if err := os.Rename(w.tmp, w.path); err != nil {
			cleanup()
			return fmt.Errorf("failed to replace %s (%d of %d files already applied): %w", w.path, i, len(writes), err)
		}
		w.tmp = ""
	}
	return nil
}

func writeTemp(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("failed to sync temp file for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	return name, nil
}

// backup копирует текущую версию path в каталог backups.
func (s *FileStore) backup(path, stamp string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to read file for backup", slog.String("path", path), slog.Any("error", err))
		return
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	target := filepath.Join(s.dir, backupDirName, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Warn("failed to write backup", slog.String("path", target), slog.Any("error", err))
	}
}

type fileTournaments struct {
	run func(ctx context.Context, fn func(tx *fileTx) error) error
}

func (r fileTournaments) Create(ctx context.Context, t *models.Tournament) error {
	return r.run(ctx, func(tx *fileTx) error {
		registry, err := tx.loadRegistry()
		if err != nil {
			return err
		}
		for _, existing := range registry {
			if existing.Name == t.Name {
				return ErrTournamentNameConflict
			}
		}
		tx.registry = append(registry, t.Clone())
		tx.registryDirty = true
		return nil
	})
}

func (r fileTournaments) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	var out *models.Tournament
	err := r.run(ctx, func(tx *fileTx) error {
		t, err := tx.findTournament(name)
		if err != nil {
			return err
		}
		out = t.Clone()
		return nil
	})
	return out, err
}

func (r fileTournaments) List(ctx context.Context) ([]*models.Tournament, error) {
	var out []*models.Tournament
	err := r.run(ctx, func(tx *fileTx) error {
		registry, err := tx.loadRegistry()
		if err != nil {
			return err
		}
		out = make([]*models.Tournament, len(registry))
		for i, t := range registry {
			out[i] = t.Clone()
		}
		return nil
	})
	return out, err
}

func (r fileTournaments) AppendHistory(ctx context.Context, name string, entry models.AuditEntry) error {
	return r.run(ctx, func(tx *fileTx) error {
		t, err := tx.findTournament(name)
		if err != nil {
			return err
		}
		t.History = append(t.History, entry)
		tx.registryDirty = true
		return nil
	})
}

type fileLedgers struct {
	run func(ctx context.Context, fn func(tx *fileTx) error) error
}

func (r fileLedgers) Create(ctx context.Context, ledger *models.Ledger) error {
	return r.run(ctx, func(tx *fileTx) error {
		_, err := tx.loadLedger(ledger.TournamentName)
		if err == nil {
			return ErrLedgerExists
		}
		if !errors.Is(err, ErrLedgerNotFound) {
			return err
		}
		tx.ledgers[ledger.TournamentName] = ledger.Clone()
		tx.dirtyLedgers[ledger.TournamentName] = true
		return nil
	})
}

func (r fileLedgers) Get(ctx context.Context, tournamentName string) (*models.Ledger, error) {
	var out *models.Ledger
	err := r.run(ctx, func(tx *fileTx) error {
		l, err := tx.loadLedger(tournamentName)
		if err != nil {
			return err
		}
		out = l.Clone()
		return nil
	})
	return out, err
}

func (r fileLedgers) Save(ctx context.Context, ledger *models.Ledger) error {
	return r.run(ctx, func(tx *fileTx) error {
		current, err := tx.loadLedger(ledger.TournamentName)
		if err != nil {
			return err
		}
		if len(current.Slots) != len(ledger.Slots) {
			return ErrLedgerSizeMismatch
		}
		tx.ledgers[ledger.TournamentName] = ledger.Clone()
		tx.dirtyLedgers[ledger.TournamentName] = true
		return nil
	})
}

type fileRankings struct {
	run func(ctx context.Context, fn func(tx *fileTx) error) error
}

func (r fileRankings) Replace(ctx context.Context, table *models.RankingTable) error {
	return r.run(ctx, func(tx *fileTx) error {
		rows := append([]models.RankingRow(nil), table.Rows...)
		tx.ranking = &models.RankingTable{Rows: rows}
		tx.rankingDirty = true
		return nil
	})
}

func (r fileRankings) Get(ctx context.Context) (*models.RankingTable, error) {
	var out *models.RankingTable
	err := r.run(ctx, func(tx *fileTx) error {
		ranking, err := tx.loadRanking()
		if err != nil {
			return err
		}
		out = &models.RankingTable{Rows: append(make([]models.RankingRow, 0, len(ranking.Rows)), ranking.Rows...)}
		return nil
	})
	return out, err
}
