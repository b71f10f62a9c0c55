package models

import "time"

// MaxPaidPositions is the number of paid places in the earnings table.
const MaxPaidPositions = 6

// AuditAction is the kind of event recorded in a tournament's history.
type AuditAction string

const (
	ActionCreated        AuditAction = "Created"
	ActionElimination    AuditAction = "Elimination"
	ActionBountyClaimed  AuditAction = "BountyClaimed"
	ActionWinnerDeclared AuditAction = "WinnerDeclared"
)

// AuditEntry is one immutable line of a tournament's history.
type AuditEntry struct {
	ID        string      `json:"id" db:"id"`
	Timestamp time.Time   `json:"timestamp" db:"occurred_at"`
	Action    AuditAction `json:"action" db:"action"`
	Details   string      `json:"details" db:"details"`
}

// Earnings maps a finishing position (1..MaxPaidPositions) to the amount paid.
type Earnings map[int]float64

// For returns the amount paid for a finishing position, zero when unpaid.
func (e Earnings) For(position int) float64 {
	if e == nil {
		return 0
	}
	return e[position]
}

// Total is the prize pool covered by the earnings table.
func (e Earnings) Total() float64 {
	var total float64
	for _, amount := range e {
		total += amount
	}
	return total
}

// Tournament is one club tournament.
type Tournament struct {
	Name         string       `json:"name" db:"name"`
	NumPlayers   int          `json:"num_players" db:"num_players"`
	Participants []string     `json:"participants" db:"participants"`
	Bounties     []string     `json:"bounties" db:"bounties"`
	StackSize    int          `json:"stack_size" db:"stack_size"`
	Earnings     Earnings     `json:"earnings" db:"earnings"`
	Comment      *string      `json:"comment,omitempty" db:"comment"`
	DateCreated  time.Time    `json:"date_created" db:"date_created"`
	History      []AuditEntry `json:"history" db:"-"`
}

// IsParticipant reports whether player is registered in the tournament.
func (t *Tournament) IsParticipant(player string) bool {
	for _, p := range t.Participants {
		if p == player {
			return true
		}
	}
	return false
}

// HasBounty reports whether eliminating player awards a bounty.
func (t *Tournament) HasBounty(player string) bool {
	for _, b := range t.Bounties {
		if b == player {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate cached records.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	c := *t
	c.Participants = append([]string(nil), t.Participants...)
	c.Bounties = append([]string(nil), t.Bounties...)
	c.History = append([]AuditEntry(nil), t.History...)
	if t.Earnings != nil {
		c.Earnings = make(Earnings, len(t.Earnings))
		for k, v := range t.Earnings {
			c.Earnings[k] = v
		}
	}
	if t.Comment != nil {
		comment := *t.Comment
		c.Comment = &comment
	}
	return &c
}
