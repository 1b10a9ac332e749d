package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"bulkdozer/feature/bulk"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunPush bool
	yesConfirm bool
)

// pushCmd represents the push command
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push workbook rows to Campaign Manager",
	Long: `Pushes every entity table in push order, inserting rows with temporary
ids and updating the rest. Results are written to the Log table.

Examples:
  # Show what would be pushed
  push --dry-run

  # Push without the confirmation prompt
  push --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		svc := a.bulkService()

		plan, err := svc.Push(ctx, bulk.PushRequest{DryRun: true})
		if err != nil {
			return fmt.Errorf("failed to plan push: %w", err)
		}
		printReport(a.logger, "Push plan", plan)

		if dryRunPush {
			a.logger.Info("Dry-run mode: No changes were made.")
			return nil
		}
		if !confirmAction("push changes to Campaign Manager") {
			a.logger.Warn("Push cancelled by user. No changes were made.")
			return nil
		}

		report, err := svc.Push(ctx, bulk.PushRequest{})
		if report != nil {
			printReport(a.logger, "Push report", report)
		}
		if err != nil {
			return err
		}
		a.logger.Info("Push completed", zap.Int64("generation", report.Generation))
		return nil
	},
}

func init() {
	pushCmd.Flags().BoolVar(&dryRunPush, "dry-run", false, "Only report the rows that would be pushed")
	pushCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the push (non-interactive)")

	RootCmd.AddCommand(pushCmd)
}

// confirmAction prompts the user for confirmation or uses the --yes flag.
func confirmAction(what string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to %s: ", what)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
