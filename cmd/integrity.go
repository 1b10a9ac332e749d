package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"bulkdozer/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the workbook and its backends",
	Long: `Checks that the workbook database schema, the entity tables, the id map
and the export folders of the storage bucket are in place.
Run with --fix to repair what can be repaired.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), "")
	},
}

// workbookCmd represents the integrity workbook command
var workbookCmd = &cobra.Command{
	Use:   "workbook",
	Short: "Check and fix the entity tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrity.WorkbookCheck)
	},
}

// storeCmd represents the integrity store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Check the id map stored in the Store table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrity.StoreCheck)
	},
}

// databaseCmd represents the integrity database command
var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check and migrate the workbook database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrity.DatabaseCheck)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the export folders of the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrity.StructureCheck)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(workbookCmd, storeCmd, databaseCmd, structureCmd)

	integrityCmd.PersistentFlags().BoolVar(&fixFlag, "fix", false, "Repair what can be repaired")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the detailed report as JSON")
}

// runIntegrityChecks runs the check named only, or every check when only is empty.
func runIntegrityChecks(ctx context.Context, only string) error {
	startTime := time.Now()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()
	logg := a.logger

	if fixFlag {
		if err := a.ensureBucket(ctx); err != nil {
			logg.Warn("Storage bucket unavailable", zap.Error(err))
		}
	}
	svc := integrity.NewService(a.integrityDeps())

	if only != "" {
		res, err := svc.RunCheck(ctx, only, fixFlag)
		if err != nil {
			return err
		}
		logResult(logg, only, res)
		if res.Status == "error" {
			return fmt.Errorf("%s check failed: %s", only, res.Error)
		}
		return nil
	}

	logg.Info("Running integrity checks...", zap.Bool("fix", fixFlag))
	report := svc.Run(ctx, fixFlag)
	logResult(logg, integrity.DatabaseCheck, report.Database)
	logResult(logg, integrity.WorkbookCheck, report.Workbook)
	logResult(logg, integrity.StoreCheck, report.Store)
	logResult(logg, integrity.StructureCheck, report.Structure)

	if jsonFlag {
		filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	logg.Info("Integrity checks completed",
		zap.Bool("matched", report.Matched),
		zap.Duration("execution_time", time.Since(startTime)),
	)
	if !report.Matched && !fixFlag {
		logg.Info("Run with --fix to repair.")
	}
	return nil
}

func logResult(l *zap.Logger, name string, res integrity.Result) {
	fields := []zap.Field{zap.String("check", name), zap.String("status", res.Status)}
	if len(res.Fixed) > 0 {
		fields = append(fields, zap.Strings("fixed", res.Fixed))
	}
	switch res.Status {
	case "ok", "fixed":
		l.Info("Check passed", fields...)
	case "skipped":
		l.Info("Check skipped", append(fields, zap.String("reason", res.Error))...)
	case "error":
		l.Error("Check error", append(fields, zap.String("error", res.Error))...)
	default:
		data, _ := json.Marshal(res.Report)
		l.Warn("Check failed", append(fields, zap.ByteString("report", data))...)
	}
}
