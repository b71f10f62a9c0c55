package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
)

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

// mapRepositoryError переводит ошибки репозиториев в ошибки сервисов,
// остальное оборачивает в ErrPersistence.
func mapRepositoryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrDuplicateName
	case errors.Is(err, repositories.ErrLedgerExists):
		return ErrLedgerAlreadyExists
	case errors.Is(err, repositories.ErrLedgerNotFound):
		return ErrLedgerNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserUsernameConflict):
		return ErrUserUsernameConflict
	}
	if isServiceError(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

var serviceErrors = []error{
	ErrTournamentNotFound, ErrTournamentNameRequired, ErrDuplicateName, ErrParticipantCount,
	ErrDuplicateParticipant, ErrParticipantNameEmpty, ErrParticipantNameInvalid, ErrInvalidBounty, ErrInvalidStackSize, ErrInvalidEarnings,
	ErrUnknownPlayer, ErrAlreadyEliminated, ErrLedgerFull, ErrLedgerAlreadyExists, ErrLedgerNotFound,
	ErrInvalidEliminator, ErrInvalidEliminationTime, ErrMissingColumn, ErrInvalidRankingValue,
	ErrForbiddenOperation, ErrPersistence,
}

func isServiceError(err error) bool {
	for _, target := range serviceErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// keyedMutex выдаёт мьютекс на ключ и забывает его, когда он больше не занят.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func strPtr(s string) *string { return &s }

func intPtrOf(i int) *int { return &i }
