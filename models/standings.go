package models

// PlayerStanding aggregates one player's results in a tournament.
type PlayerStanding struct {
	Player       string  `json:"player"`
	Rank         *int    `json:"rank,omitempty"`
	Kills        int     `json:"kills"`
	BountyPoints int     `json:"bounty_points"`
	Earnings     float64 `json:"earnings"`
	StillPlaying bool    `json:"still_playing"`
}

// Standings is the read model shown while a tournament is running.
type Standings struct {
	Tournament string           `json:"tournament"`
	PrizePool  float64          `json:"prize_pool"`
	Remaining  []string         `json:"remaining"`
	Players    []PlayerStanding `json:"players"`
	Finished   bool             `json:"finished"`
}
