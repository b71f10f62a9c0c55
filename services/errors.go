package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Реестр турниров
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrDuplicateName          = errors.New("tournament name already exists")
	ErrParticipantCount       = errors.New("participant count does not match number of players")
	ErrDuplicateParticipant   = errors.New("duplicate participant name")
	ErrParticipantNameEmpty   = errors.New("participant name must not be empty")
	ErrParticipantNameInvalid = errors.New("participant name contains characters or a length the ledger cannot store")
	ErrInvalidBounty          = errors.New("bounty player is not a participant")
	ErrInvalidStackSize       = errors.New("stack size must be positive")
	ErrInvalidEarnings        = errors.New("invalid earnings table")

	// Журнал выбываний
	ErrUnknownPlayer          = errors.New("player is not a participant of the tournament")
	ErrAlreadyEliminated      = errors.New("player has already been eliminated")
	ErrLedgerFull             = errors.New("ledger has no unfilled slot")
	ErrLedgerAlreadyExists    = errors.New("ledger already exists for this tournament")
	ErrLedgerNotFound         = errors.New("ledger not found")
	ErrInvalidEliminator      = errors.New("eliminator must be another player still in the tournament")
	ErrInvalidEliminationTime = errors.New("elimination time must use HH:MM")

	// Общий рейтинг
	ErrMissingColumn       = errors.New("ranking table is missing a required column")
	ErrInvalidRankingValue = errors.New("ranking table has a non-numeric value in a numeric column")

	// Учётные записи
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountSuspended     = errors.New("this account has been suspended")
	ErrUsernameRequired     = errors.New("username and password are required")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserUsernameConflict = errors.New("username already exists")
	ErrSelfModification     = errors.New("administrators cannot modify their own account")

	// Доступ
	ErrForbiddenOperation = errors.New("operation requires administrator privileges")

	// Ввод-вывод хранилища
	ErrPersistence = errors.New("persistence failure")
)
