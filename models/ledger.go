package models

// EliminationTimeLayout is the "HH:MM" layout of Slot.EliminationTime.
const EliminationTimeLayout = "15:04"

// Slot is one pre-ranked position of the elimination ledger.
type Slot struct {
	Rank            int     `json:"rank" db:"rank"`
	Player          *string `json:"player,omitempty" db:"player"`
	EliminationTime *string `json:"elimination_time,omitempty" db:"elimination_time"`
	EliminatedBy    *string `json:"eliminated_by,omitempty" db:"eliminated_by"`
	BountyPoints    *int    `json:"bounty_points,omitempty" db:"bounty_points"`
}

// Filled reports whether the slot has been consumed.
func (s Slot) Filled() bool {
	return s.Player != nil && *s.Player != ""
}

// IsWinner reports whether the slot records the last player standing
// rather than an elimination.
func (s Slot) IsWinner() bool {
	return s.Filled() && s.EliminatedBy == nil
}

// Ledger is the fixed-size elimination sequence of one tournament.
type Ledger struct {
	TournamentName string `json:"tournament_name"`
	Slots          []Slot `json:"slots"`
}

// NewLedger builds an empty ledger with ranks numPlayers..1 in storage order.
func NewLedger(tournamentName string, numPlayers int) *Ledger {
	slots := make([]Slot, numPlayers)
	for i := range slots {
		slots[i] = Slot{Rank: numPlayers - i}
	}
	return &Ledger{TournamentName: tournamentName, Slots: slots}
}

// FirstUnfilled returns the storage index of the first free slot, or -1.
func (l *Ledger) FirstUnfilled() int {
	for i, s := range l.Slots {
		if !s.Filled() {
			return i
		}
	}
	return -1
}

// SlotOf returns the slot holding player, if any.
func (l *Ledger) SlotOf(player string) (Slot, bool) {
	for _, s := range l.Slots {
		if s.Filled() && *s.Player == player {
			return s, true
		}
	}
	return Slot{}, false
}

// Eliminated returns the set of players knocked out so far.
func (l *Ledger) Eliminated() map[string]bool {
	out := make(map[string]bool)
	if l == nil {
		return out
	}
	for _, s := range l.Slots {
		if s.Filled() && !s.IsWinner() {
			out[*s.Player] = true
		}
	}
	return out
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	c := &Ledger{TournamentName: l.TournamentName, Slots: make([]Slot, len(l.Slots))}
	for i, s := range l.Slots {
		c.Slots[i] = Slot{
			Rank:            s.Rank,
			Player:          cloneString(s.Player),
			EliminationTime: cloneString(s.EliminationTime),
			EliminatedBy:    cloneString(s.EliminatedBy),
		}
		if s.BountyPoints != nil {
			bp := *s.BountyPoints
			c.Slots[i].BountyPoints = &bp
		}
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
