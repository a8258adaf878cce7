package main

import (
	"github.com/spf13/cobra"

	"phototag/internal/batch"
)

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused tagging run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := batch.Load(cfg.StateFile())
			if err != nil {
				return err
			}
			return executeRun(ctx, cmd, st.Source, true)
		},
	}
}
