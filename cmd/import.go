package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/spreadsheet"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func importRankingCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-ranking FILE",
		Short: "Replace the general ranking with an .xlsx table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			globalFlags.quiet = true
			logger := commonRun(os.Stderr)
			a, err := newApp(cmd.Context(), configFrom(cmd), logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			table, err := spreadsheet.ReadTable(f)
			if err != nil {
				return err
			}

			var ranking *models.RankingTable
			if dryRun {
				ranking, err = a.ranking.PreviewRanking(cmd.Context(), table)
			} else {
				ranking, err = a.ranking.ImportRanking(cmd.Context(), cliActor, table)
			}
			if err != nil {
				return err
			}

			if err := renderRanking(ranking); err != nil {
				return err
			}
			if dryRun {
				pterm.Info.Printfln("Dry run: %d rows checked, nothing stored", len(ranking.Rows))
			} else {
				pterm.Success.Printfln("General ranking replaced with %d rows", len(ranking.Rows))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "normalize and print the table without storing it")
	return cmd
}

func renderRanking(r *models.RankingTable) error {
	data := pterm.TableData{models.RankingColumns}
	for _, row := range r.Rows {
		data = append(data, []string{
			row.Classement,
			row.Joueurs,
			formatNumber(row.PtsClassement),
			formatNumber(row.BonusKills),
			formatNumber(row.TotalPts),
			strconv.FormatFloat(row.Moyenne, 'f', 2, 64),
			formatNumber(row.NbKills),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
