package cmd

import (
	"bulkdozer/feature/bulk"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [campaign ids...]",
	Short: "Load campaigns from Campaign Manager into the workbook",
	Long: `Loads the campaigns listed in the Campaign table, plus any ids given as
arguments, and every entity below them in load order.

Entities set to PUSH or NONE in Entity Configs are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		a.logger.Info("Starting load", zap.Strings("campaign_ids", args))
		report, err := a.bulkService().Load(ctx, bulk.LoadRequest{CampaignIDs: args})
		if report != nil {
			printReport(a.logger, "Load report", report)
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(loadCmd)
}

// printReport logs one line per entity of a run.
func printReport(l *zap.Logger, title string, report *bulk.Report) {
	l.Info(title, zap.Int64("generation", report.Generation), zap.Int("log_rows", report.LogRows))
	for _, er := range report.Entities {
		if er.Skipped {
			l.Info("Skipped", zap.String("entity", er.Entity))
			continue
		}
		fields := []zap.Field{
			zap.String("entity", er.Entity),
			zap.Int("items", er.Items),
		}
		if er.Failed > 0 {
			fields = append(fields, zap.Int("failed", er.Failed))
		}
		if er.Error != "" {
			l.Warn("Entity failed", append(fields, zap.String("error", er.Error))...)
			continue
		}
		l.Info("Entity", fields...)
	}
}
