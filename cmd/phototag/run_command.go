package main

import (
	"errors"

	"github.com/spf13/cobra"

	"phototag/internal/batch"
	"phototag/internal/config"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var catalogFlag string
	var folderFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a tagging run over a catalog or a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := sourceFromFlags(catalogFlag, folderFlag)
			if err != nil {
				return err
			}
			return executeRun(ctx, cmd, source, false)
		},
	}

	cmd.Flags().StringVar(&catalogFlag, "catalog", "", "Path to a Lightroom .lrcat catalog")
	cmd.Flags().StringVar(&folderFlag, "folder", "", "Path to a folder of photos")
	return cmd
}

func sourceFromFlags(catalogFlag, folderFlag string) (batch.Source, error) {
	switch {
	case catalogFlag != "" && folderFlag != "":
		return batch.Source{}, errors.New("--catalog and --folder are mutually exclusive")
	case catalogFlag != "":
		path, err := config.ExpandPath(catalogFlag)
		if err != nil {
			return batch.Source{}, err
		}
		return batch.Source{Kind: batch.SourceCatalog, Path: path}, nil
	case folderFlag != "":
		path, err := config.ExpandPath(folderFlag)
		if err != nil {
			return batch.Source{}, err
		}
		return batch.Source{Kind: batch.SourceFolder, Path: path}, nil
	default:
		return batch.Source{}, errors.New("one of --catalog or --folder is required")
	}
}
