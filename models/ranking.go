package models

// Canonical general-ranking column headers.
const (
	ColClassement    = "Classement"
	ColJoueurs       = "Joueurs"
	ColPtsClassement = "Pts Classement"
	ColBonusKills    = "Bonus Kills"
	ColTotalPts      = "Total des Pts"
	ColMoyenne       = "Moyenne"
	ColNbKills       = "Nb de Kill"
)

// RankingColumns lists the general-ranking columns in their stored order.
var RankingColumns = []string{
	ColClassement,
	ColJoueurs,
	ColPtsClassement,
	ColBonusKills,
	ColTotalPts,
	ColMoyenne,
	ColNbKills,
}

// Table is a loosely typed grid read from an external spreadsheet.
// The first row of the source is carried in Header.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// RankingRow is one normalized line of the club's general ranking.
type RankingRow struct {
	Classement    string  `json:"classement" db:"classement"`
	Joueurs       string  `json:"joueurs" db:"joueurs"`
	PtsClassement float64 `json:"pts_classement" db:"pts_classement"`
	BonusKills    float64 `json:"bonus_kills" db:"bonus_kills"`
	TotalPts      float64 `json:"total_pts" db:"total_pts"`
	Moyenne       float64 `json:"moyenne" db:"moyenne"`
	NbKills       float64 `json:"nb_kills" db:"nb_kills"`
}

// RankingTable is the general ranking; each import replaces it wholesale.
type RankingTable struct {
	Rows []RankingRow `json:"rows"`
}
