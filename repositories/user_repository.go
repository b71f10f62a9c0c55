package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Dosada05/poker-club/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserUsernameConflict = errors.New("username is already in use")
)

// UserRepository - хранилище учётных записей для входа и администрирования.
type UserRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, username string) error
}

type userRecord struct {
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
	Suspended bool   `json:"suspended"`
}

type jsonUserRepository struct {
	path string
	mu   sync.Mutex
}

// NewJSONUserRepository хранит учётные записи в users.json, ключ - имя пользователя.
func NewJSONUserRepository(path string) UserRepository {
	return &jsonUserRepository{path: path}
}

func (r *jsonUserRepository) load() (map[string]userRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]userRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	users := make(map[string]userRecord)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users file: %w", err)
	}
	return users, nil
}

func (r *jsonUserRepository) save(users map[string]userRecord) error {
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create users directory: %w", err)
	}
	tmp, err := writeTemp(r.path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}

func (r *jsonUserRepository) Create(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	if _, exists := users[a.Username]; exists {
		return ErrUserUsernameConflict
	}
	users[a.Username] = userRecord{Password: a.PasswordHash, IsAdmin: a.IsAdmin, Suspended: a.Suspended}
	return r.save(users)
}

func (r *jsonUserRepository) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	rec, ok := users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return toAccount(username, rec), nil
}

func (r *jsonUserRepository) List(_ context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Account, 0, len(users))
	for name, rec := range users {
		out = append(out, toAccount(name, rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *jsonUserRepository) Update(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := users[a.Username]; !ok {
		return ErrUserNotFound
	}
	users[a.Username] = userRecord{Password: a.PasswordHash, IsAdmin: a.IsAdmin, Suspended: a.Suspended}
	return r.save(users)
}

func (r *jsonUserRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := users[username]; !ok {
		return ErrUserNotFound
	}
	delete(users, username)
	return r.save(users)
}

func toAccount(username string, rec userRecord) *models.Account {
	return &models.Account{
		Username:     username,
		PasswordHash: rec.Password,
		IsAdmin:      rec.IsAdmin,
		Suspended:    rec.Suspended,
	}
}
