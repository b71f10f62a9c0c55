package spreadsheet

import (
	"strings"
	"testing"

	"github.com/Dosada05/poker-club/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_SkipsBlankRowsAndPadsShortOnes(t *testing.T) {
	data, err := Encode("Sheet", []string{" Joueurs ", "Moyenne", "Notes"}, [][]any{
		{"Alice", 3.5, "top"},
		{"", "", ""},
		{"Bob"},
	})
	require.NoError(t, err)

	table, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Joueurs", "Moyenne", "Notes"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Alice", "3.5", "top"}, table.Rows[0])
	assert.Equal(t, []string{"Bob", "", ""}, table.Rows[1])

	assert.Equal(t, 1, Column(table, "moyenne"))
	assert.Equal(t, -1, Column(table, "Classement"))
}

func TestColumn_IgnoresRunsOfWhitespace(t *testing.T) {
	table := models.Table{Header: []string{"Classement", "Pts  Classement", "Total\tdes Pts"}}

	assert.Equal(t, 1, Column(table, "Pts Classement"))
	assert.Equal(t, 2, Column(table, "total des pts"))
	assert.Equal(t, -1, Column(table, "PtsClassement"))
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not a workbook"))
	require.Error(t, err)
}

func TestDecodeLedger_LegacyWorkbookWithoutBountyColumn(t *testing.T) {
	data, err := Encode(LedgerSheet, []string{ColRank, ColPlayer, ColEliminationTime, ColEliminatedBy}, [][]any{
		{3, "B", "20:00", "A"},
		{2, "", "", ""},
		{1, "", "", ""},
	})
	require.NoError(t, err)

	ledger, err := DecodeLedger("Friday", data)
	require.NoError(t, err)
	require.Len(t, ledger.Slots, 3)
	assert.Equal(t, "Friday", ledger.TournamentName)
	assert.Equal(t, "B", *ledger.Slots[0].Player)
	assert.Nil(t, ledger.Slots[0].BountyPoints)
	assert.Equal(t, []int{3, 2, 1}, []int{ledger.Slots[0].Rank, ledger.Slots[1].Rank, ledger.Slots[2].Rank})
	assert.False(t, ledger.Slots[1].Filled())
}

func TestDecodeLedger_RequiresRankAndPlayer(t *testing.T) {
	data, err := Encode(LedgerSheet, []string{ColPlayer, ColEliminatedBy}, [][]any{{"B", "A"}})
	require.NoError(t, err)

	_, err = DecodeLedger("Friday", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColRank)
}

func TestEncodeLedger_WritesCanonicalColumns(t *testing.T) {
	ledger := models.NewLedger("Friday", 2)
	data, err := EncodeLedger(ledger)
	require.NoError(t, err)

	table, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, LedgerColumns, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2", table.Rows[0][0])
	assert.Equal(t, "1", table.Rows[1][0])
}

func TestDecodeRanking_RejectsNarrowSheet(t *testing.T) {
	data, err := Encode(RankingSheet, []string{"Classement", "Joueurs"}, [][]any{{"1", "Alice"}})
	require.NoError(t, err)

	_, err = DecodeRanking(data)
	require.Error(t, err)
}

func TestStorableText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain", "Alice", true},
		{"accents and quotes", "Zoë «Ace» O'Neil", true},
		{"inner spaces", "Jean  Paul", true},
		{"longest cell", strings.Repeat("é", MaxCellChars), true},
		{"too long", strings.Repeat("x", MaxCellChars+1), false},
		{"control", "Bob\x01", false},
		{"tab", "Bob\tSmith", false},
		{"newline", "Bob\nSmith", false},
		{"non-character", "Bob\uFFFE", false},
		{"invalid utf-8", "B\xffb", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StorableText(tt.in))
		})
	}
}

func TestLedgerRoundTrip_KeepsStorableNames(t *testing.T) {
	long := strings.Repeat("é", MaxCellChars)
	str := func(v string) *string { return &v }
	num := func(v int) *int { return &v }

	ledger := models.NewLedger("Friday", 3)
	ledger.Slots[0] = models.Slot{Rank: 3, Player: str(long), EliminationTime: str("20:00"), EliminatedBy: str("Jean  Paul"), BountyPoints: num(1)}
	ledger.Slots[1] = models.Slot{Rank: 2, Player: str("Jean  Paul"), EliminationTime: str("21:10"), EliminatedBy: str("Zoë «Ace» O'Neil"), BountyPoints: num(0)}

	data, err := EncodeLedger(ledger)
	require.NoError(t, err)
	decoded, err := DecodeLedger("Friday", data)
	require.NoError(t, err)
	assert.Equal(t, ledger, decoded)
}
