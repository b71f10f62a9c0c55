package main

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func snapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Upload the registry, ledgers and ranking to object storage now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := commonRun(os.Stderr)
			a, err := newApp(cmd.Context(), configFrom(cmd), logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.backup == nil {
				return errors.New("object storage is not configured: set R2_BUCKET_NAME and credentials")
			}
			result, err := a.backup.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			items := make([]pterm.BulletListItem, 0, len(result.Keys))
			for _, k := range result.Keys {
				items = append(items, pterm.BulletListItem{Level: 0, Text: k})
			}
			pterm.Success.Printfln("Snapshot %s uploaded", result.Stamp)
			return pterm.DefaultBulletList.WithItems(items).Render()
		},
	}
}
