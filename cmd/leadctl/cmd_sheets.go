package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-funnel/internal/infra/integration/sheets"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Inspect and prepare the Google Sheets relay",
	Long: `Talk to the configured spreadsheet directly.

Available subcommands:
  verify - Check that the service account can read the spreadsheet
  setup  - Write the header row if the sheet has none`,
}

var sheetsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check spreadsheet access",
	RunE:  runSheetsVerify,
}

var sheetsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the header row when missing",
	RunE:  runSheetsSetup,
}

func runSheetsVerify(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient()
	if err != nil {
		return err
	}

	if !client.VerifySheetAccess(commandContext(cmd)) {
		return fmt.Errorf("cannot access spreadsheet %s", client.SpreadsheetID())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ spreadsheet %s is accessible\n", client.SpreadsheetID())
	return nil
}

func runSheetsSetup(cmd *cobra.Command, args []string) error {
	client, err := sheetsClient()
	if err != nil {
		return err
	}

	if err := client.SetupSheetHeaders(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ headers ready on %s\n", client.SpreadsheetID())
	return nil
}

func sheetsClient() (*sheets.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.SheetsEnabled() {
		return nil, errors.New("GOOGLE_SERVICE_ACCOUNT_KEY and SPREADSHEET_ID must be set")
	}

	creds, err := sheets.NewServiceAccountCredentials([]byte(cfg.GoogleServiceAccountKey))
	if err != nil {
		return nil, err
	}
	return sheets.NewClient(sheets.Config{
		SpreadsheetID: cfg.SpreadsheetID,
		SheetName:     cfg.SheetName,
		Timezone:      cfg.SheetsTimezone,
		MaxAttempts:   cfg.SheetsMaxAttempts,
		Backoff:       cfg.SheetsBackoff,
	}, creds, log)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
