package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Richardmlacerda/qase-poc-rml/internal/client/qase"
	"github.com/Richardmlacerda/qase-poc-rml/internal/config"
	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
	"github.com/Richardmlacerda/qase-poc-rml/internal/ratelimit"
	"github.com/Richardmlacerda/qase-poc-rml/internal/repository"
	"github.com/Richardmlacerda/qase-poc-rml/internal/service"
)

var (
	flagProjectA string
	flagRunA     int64
	flagProjectB string
	flagRunB     int64
)

var rootCmd = &cobra.Command{
	Use:          "qase-copy-results",
	Short:        "Copy automated results from one Qase project's run into another",
	SilenceUsage: true,
	RunE:         runCopy,
}

func init() {
	rootCmd.Flags().StringVar(&flagProjectA, "project-a", "", "destination project code (source of truth)")
	rootCmd.Flags().Int64Var(&flagRunA, "run-a", 0, "destination run id within project A")
	rootCmd.Flags().StringVar(&flagProjectB, "project-b", "", "source project code")
	rootCmd.Flags().Int64Var(&flagRunB, "run-b", 0, "source run id within project B to copy from")

	rootCmd.MarkFlagRequired("project-a")
	rootCmd.MarkFlagRequired("run-a")
	rootCmd.MarkFlagRequired("project-b")
	rootCmd.MarkFlagRequired("run-b")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCopy(cmd *cobra.Command, args []string) error {
	// .env is optional; real deployments set QASE_API_TOKEN directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := repository.InitDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	qaseClient := qase.NewQaseClient(
		cfg.ApiBase,
		cfg.ApiToken,
		cfg.RequestTimeout,
		ratelimit.NewGate(cfg.PageDelay),
	)

	migrationService := service.NewMigrationService(
		qaseClient,
		cfg.MappingFieldId,
		repository.NewRunRepository(db),
		repository.NewResultCopyRepository(db),
		ratelimit.NewGate(cfg.WriteDelay),
	)

	summary, err := migrationService.CopyResults(flagProjectA, flagRunA, flagProjectB, flagRunB)
	if err != nil {
		return err
	}

	if err := writeSummary(cfg.SummaryPath, summary); err != nil {
		log.Printf("could not write summary file: %v", err)
	}

	fmt.Println("=== DONE ===")
	fmt.Printf("✅ copied: %d  ⏭️ skipped: %d  ❌ errors: %d\n", summary.Copied, summary.Skipped, summary.Errors)

	return nil
}

func writeSummary(path string, summary models.MigrationSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
