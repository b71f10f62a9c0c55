package repositories

import (
	"fmt"
	"hash/fnv"

	"github.com/gosimple/slug"
)

const defaultLedgerPrefix = "tournament"

// LedgerFileName строит имя файла ведомости по имени турнира. Хеш-суффикс
// различает имена с одинаковым slug.
func LedgerFileName(tournamentName string) string {
	base := slug.Make(tournamentName)
	if base == "" {
		base = defaultLedgerPrefix
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(tournamentName))
	return fmt.Sprintf("%s-%08x.xlsx", base, h.Sum32())
}
