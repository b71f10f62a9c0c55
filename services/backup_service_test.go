package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/poker-club/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
	deleted []string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: make(map[string][]byte)}
}

func (u *memoryUploader) Upload(_ context.Context, key, _ string, body io.Reader) (*storage.UploadResult, error) {
	if u.failOn != "" && strings.HasSuffix(key, u.failOn) {
		return nil, errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (u *memoryUploader) keys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, 0, len(u.objects))
	for k := range u.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestBackupService_Snapshot(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Friday", []string{"A", "B", "C"}, []string{"B"})
	env.eliminate(t, "Friday", "B", "A", "20:00")

	uploader := newMemoryUploader()
	svc := NewBackupService(env.store, uploader, discardLogger())
	svc.(*backupService).now = func() time.Time { return time.Date(2026, 3, 6, 23, 0, 0, 0, time.UTC) }

	result, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20260306_230000", result.Stamp)
	require.Len(t, result.Keys, 3)
	assert.Equal(t, "snapshots/20260306_230000/tournaments.json", result.Keys[0])
	assert.True(t, strings.HasPrefix(result.Keys[1], "snapshots/20260306_230000/ledgers/friday-"))
	assert.Equal(t, "snapshots/20260306_230000/general_ranking.xlsx", result.Keys[2])

	assert.Len(t, uploader.keys(), 3)
	assert.Contains(t, string(uploader.objects[result.Keys[0]]), `"Friday"`)
}

func TestBackupService_RemovesPartialSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Friday", []string{"A", "B"}, nil)

	uploader := newMemoryUploader()
	uploader.failOn = "general_ranking.xlsx"
	svc := NewBackupService(env.store, uploader, discardLogger())

	_, err := svc.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, uploader.keys())
}

func TestBackupService_StartRejectsBadSchedule(t *testing.T) {
	env := newTestEnv(t)
	svc := NewBackupService(env.store, newMemoryUploader(), discardLogger())

	require.Error(t, svc.Start("not a cron"))
	require.NoError(t, svc.Start("0 4 * * *"))
	require.Error(t, svc.Start("0 4 * * *"))
	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop())
}
