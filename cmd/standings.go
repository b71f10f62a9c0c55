package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/Dosada05/poker-club/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func standingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "standings NAME",
		Short: "Print the ledger and standings of a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			globalFlags.quiet = true
			logger := commonRun(os.Stderr)
			a, err := newApp(cmd.Context(), configFrom(cmd), logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ledger, err := a.ledger.GetLedger(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			standings, err := a.ledger.GetStandings(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			pterm.DefaultSection.Println(standings.Tournament)
			if err := renderLedger(ledger); err != nil {
				return err
			}
			if err := renderStandings(standings); err != nil {
				return err
			}

			if standings.Finished {
				pterm.Success.Printfln("Finished. Prize pool %s", formatNumber(standings.PrizePool))
			} else {
				pterm.Info.Printfln("Still playing: %s. Prize pool %s", strings.Join(standings.Remaining, ", "), formatNumber(standings.PrizePool))
			}
			return nil
		},
	}
}

func renderLedger(l *models.Ledger) error {
	data := pterm.TableData{{"Rank", "Player", "Time", "Eliminated by", "Bounty"}}
	for _, s := range l.Slots {
		data = append(data, []string{strconv.Itoa(s.Rank), orDash(s.Player), orDash(s.EliminationTime), orDash(s.EliminatedBy), bountyText(s.BountyPoints)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderStandings(s *models.Standings) error {
	data := pterm.TableData{{"Player", "Rank", "Kills", "Bounty pts", "Earnings"}}
	for _, p := range s.Players {
		rank := "playing"
		if p.Rank != nil {
			rank = strconv.Itoa(*p.Rank)
		}
		data = append(data, []string{p.Player, rank, strconv.Itoa(p.Kills), strconv.Itoa(p.BountyPoints), formatNumber(p.Earnings)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func bountyText(b *int) string {
	if b == nil {
		return "-"
	}
	return strconv.Itoa(*b)
}
