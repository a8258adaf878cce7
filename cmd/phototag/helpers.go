package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"phototag/internal/batch"
	"phototag/internal/preview"
	"phototag/internal/reachability"
	"phototag/internal/sidecar"
)

// executeRun assembles the pipeline and drives one run or resume to its
// terminal state.
func executeRun(ctx *commandContext, cmd *cobra.Command, source batch.Source, resume bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	generator, err := ctx.newGenerator()
	if err != nil {
		return err
	}
	if err := generator.HealthCheck(cmd.Context()); err != nil {
		return fmt.Errorf("ollama not reachable at %s: %w", cfg.Ollama.BaseURL, err)
	}

	deps := batch.Deps{
		Config:       cfg,
		Sidecars:     sidecar.NewStore(logger),
		Generator:    generator,
		Reachability: reachability.NewCache(logger),
		Logger:       logger,
	}
	if source.Kind == batch.SourceCatalog {
		store, err := ctx.openCatalog(source.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		deps.Catalog = store
		deps.Previews = preview.NewResolver(store, logger)
	}

	var bar *progressbar.ProgressBar
	if interactiveTerminal() {
		deps.Progress = func(p batch.Progress) {
			if bar == nil {
				bar = progressbar.Default(int64(p.Total), "Tagging")
			}
			_ = bar.Set(p.Current)
		}
	}

	coord := batch.NewCoordinator(deps)
	stopSignals := installSignalHandler(coord, cmd.ErrOrStderr())
	defer stopSignals()

	var summary *batch.Summary
	if resume {
		summary, err = coord.Resume(cmd.Context())
	} else {
		summary, err = coord.Run(cmd.Context(), source)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

// installSignalHandler maps the first interrupt to a pause and any further
// one to a stop. Returns a function restoring default signal handling.
func installSignalHandler(coord *batch.Coordinator, out io.Writer) func() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		paused := false
		for range sigCh {
			if !paused {
				paused = true
				coord.RequestPause()
				fmt.Fprintln(out, "pausing after the current photo (interrupt again to stop)")
				continue
			}
			coord.RequestStop()
			fmt.Fprintln(out, "stopping after the current photo")
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

func printSummary(out io.Writer, summary *batch.Summary) {
	fmt.Fprintf(out, "%s: %d/%d photos\n", summary.Status, summary.Processed, summary.Total)
	c := summary.Counters
	fmt.Fprintf(out, "  analyzed %d, tagged %d, skipped %d, failed %d\n",
		c.Analyzed, c.Tagged, c.Skipped, c.Failed)
	fmt.Fprintf(out, "  catalog writes %d, sidecar writes %d, sidecars skipped %d\n",
		c.CatalogWrites, c.SidecarWrites, c.SidecarSkipped)
	if summary.Status == batch.StatusPaused {
		fmt.Fprintln(out, "resume with: phototag resume")
	}
}

func interactiveTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
