package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"observation-processor/internal/destination"
	"observation-processor/internal/model"
	"observation-processor/internal/processing"
	"observation-processor/internal/providers"
	"observation-processor/internal/taxa"
	"observation-processor/internal/vocabulary"
)

var processCmd = &cobra.Command{
	Use:   "process [provider...]",
	Short: "Process verbatim observations for the configured providers",
	Long: `Process runs one processing cycle: for each selected provider (all configured
providers when none are given) its processed observations are deleted and
rebuilt from the verbatim store. The position cache is persisted once at the
end of the cycle. Run results are printed as JSON.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Bool("dry-run", false, "process without writing to the destination store")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	serveMetrics(ctx)

	engine, err := a.createEngine(ctx)
	if err != nil {
		return err
	}
	taxonByID, err := taxa.Load(ctx, a.db)
	if err != nil {
		return err
	}
	resolver, err := vocabulary.NewResolver(ctx, vocabulary.NewPGSource(a.db))
	if err != nil {
		return err
	}
	var repo destination.Repository = destination.NewPGRepository(a.db, cfg.Processing.BatchSize)
	if dryRun {
		repo = destination.NewMemRepository(cfg.Processing.BatchSize)
	}

	reg := processing.NewRegistry()
	deps := processing.Deps{Destination: repo, Enricher: engine, Resolver: resolver}
	if err := providers.Register(reg, a.db, cfg.Processing.Providers, deps, processing.ConfigFrom(cfg.Processing)); err != nil {
		return err
	}

	runs, err := (&processing.Cycle{Registry: reg, Cache: engine}).Run(ctx, args, taxonByID)
	if runs != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(runs); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		return err
	}
	failed := 0
	for _, ri := range runs {
		if ri.Status != model.RunStatusSuccess {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d provider runs did not succeed", failed, len(runs))
	}
	return nil
}
