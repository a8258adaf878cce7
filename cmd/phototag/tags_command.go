package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"phototag/internal/logging"
	"phototag/internal/sidecar"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	var catalogFlag string

	cmd := &cobra.Command{
		Use:   "tags <photo-id>",
		Short: "Show a photo's tags in the catalog and its sidecar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogFlag == "" {
				return errors.New("--catalog is required")
			}
			photoID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid photo id %q", args[0])
			}

			store, err := ctx.openCatalog(catalogFlag)
			if err != nil {
				return err
			}
			defer store.Close()

			catalogTags, err := store.Tags(cmd.Context(), photoID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog: %s\n", formatTagList(catalogTags))

			path, err := store.PhotoPath(cmd.Context(), photoID)
			if err != nil {
				return err
			}
			sidecarTags, err := sidecar.NewStore(logging.NewNop()).ReadTags(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sidecar: %s\n", formatTagList(sidecarTags))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogFlag, "catalog", "", "Path to a Lightroom .lrcat catalog")
	return cmd
}

func formatTagList(tags []string) string {
	if len(tags) == 0 {
		return "(none)"
	}
	return strings.Join(tags, ", ")
}
