package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPhotosCommand(ctx *commandContext) *cobra.Command {
	var catalogFlag string

	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List the photos in a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogFlag == "" {
				return errors.New("--catalog is required")
			}
			store, err := ctx.openCatalog(catalogFlag)
			if err != nil {
				return err
			}
			defer store.Close()

			photos, err := store.ListPhotos(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(photos))
			for _, photo := range photos {
				size := "-"
				if photo.FullPath != "" {
					if info, err := os.Stat(photo.FullPath); err == nil {
						size = humanize.Bytes(uint64(info.Size()))
					}
				}
				existing, err := store.Tags(cmd.Context(), photo.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					strconv.FormatInt(photo.ID, 10),
					photo.FileName,
					photo.Format,
					size,
					strconv.Itoa(len(existing)),
				})
			}

			headers := []string{"ID", "File", "Format", "Size", "Tags"}
			if interactiveTerminal() {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 0, 3, 4))
			} else {
				for _, row := range rows {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d photos\n", len(photos))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogFlag, "catalog", "", "Path to a Lightroom .lrcat catalog")
	return cmd
}
