package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// idmapCmd is the parent command for id map maintenance.
var idmapCmd = &cobra.Command{
	Use:   "idmap",
	Short: "Inspect and maintain the temporary id map",
	Long: `The id map links the temporary ids ("ext...") of workbook rows to the ids
Campaign Manager issued for them. It is kept in row 1 of the Store table.`,
}

var idmapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the id map as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		data, err := a.bulkService().LoadIDMap(ctx)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var idmapClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the id map",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		if !confirmAction("clear the id map") {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		if err := a.bulkService().ClearIDMap(ctx); err != nil {
			return err
		}
		a.logger.Info("Id map cleared")
		return nil
	},
}

var idmapBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload the id map to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ensureBucket(ctx); err != nil {
			return err
		}
		name, err := a.bulkService().BackupIDMap(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("Id map backed up", zap.String("bucket", a.cfg.Storage.Bucket), zap.String("object", name))
		return nil
	},
}

var idmapRestoreCmd = &cobra.Command{
	Use:   "restore [object]",
	Short: "Replace the id map with a backup (latest when no object is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		var object string
		if len(args) == 1 {
			object = args[0]
		}
		name, err := a.bulkService().RestoreIDMap(ctx, object)
		if err != nil {
			return err
		}
		a.logger.Info("Id map restored", zap.String("object", name))
		return nil
	},
}

func init() {
	idmapClearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")
	idmapCmd.AddCommand(idmapShowCmd, idmapClearCmd, idmapBackupCmd, idmapRestoreCmd)

	RootCmd.AddCommand(idmapCmd)
}
