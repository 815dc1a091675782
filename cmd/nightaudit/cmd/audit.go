package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rj-nightaudit-service/cmd/nightaudit/config"
	"rj-nightaudit-service/internal/audit"
	"rj-nightaudit-service/internal/backend"
	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/personnel"
	"rj-nightaudit-service/internal/reporter"
	"rj-nightaudit-service/pkg/logger"
)

// Flags for the audit command
var (
	snapshotFile  string
	outputFormat  string
	outputFile    string
	tolerance     float64
	personnelFile string
	backendURL    string
	noColor       bool
	showProgress  bool
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a full audit cycle on a day snapshot",
	Long: `Audit loads a day snapshot, recomputes the GEAC, Transelect and
Recap sheets and reports every balance line.

Examples:
  # Basic audit with console output
  nightaudit audit --snapshot day9.json

  # JSON report written to a file
  nightaudit audit --snapshot day9.json --output-format json --output-file report.json

  # Looser balance tolerance and a custom personnel roster
  nightaudit audit --snapshot day9.json --tolerance 0.05 --personnel roster.json

  # Push the recomputed sheets to the backend after a clean run
  nightaudit audit --snapshot day9.json --backend-url http://localhost:5000`,

	PreRunE: validateAuditFlags,
	RunE:    runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	// Required flags
	auditCmd.Flags().StringVarP(&snapshotFile, "snapshot", "s", "", "path to the day snapshot JSON file (required)")

	// Output flags
	auditCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json")
	auditCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	auditCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored console output")

	// Validation flags
	auditCmd.Flags().Float64VarP(&tolerance, "tolerance", "t", 0, "balance tolerance in dollars (default 0.01)")
	auditCmd.Flags().StringVar(&personnelFile, "personnel", "", "personnel roster JSON for SetD name matching (default: built-in roster)")

	// Backend flags
	auditCmd.Flags().StringVar(&backendURL, "backend-url", "", "push recomputed sheets to this backend after the audit")

	// UI flags
	auditCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress indicators")

	auditCmd.MarkFlagRequired("snapshot")

	// Bind flags to viper
	viper.BindPFlag("snapshot", auditCmd.Flags().Lookup("snapshot"))
	viper.BindPFlag("output-format", auditCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", auditCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("no-color", auditCmd.Flags().Lookup("no-color"))
	viper.BindPFlag("tolerance", auditCmd.Flags().Lookup("tolerance"))
	viper.BindPFlag("personnel", auditCmd.Flags().Lookup("personnel"))
	viper.BindPFlag("backend-url", auditCmd.Flags().Lookup("backend-url"))
	viper.BindPFlag("progress", auditCmd.Flags().Lookup("progress"))
}

func validateAuditFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	snapshotFile = viper.GetString("snapshot")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	noColor = viper.GetBool("no-color")
	tolerance = viper.GetFloat64("tolerance")
	personnelFile = viper.GetString("personnel")
	backendURL = viper.GetString("backend-url")
	showProgress = viper.GetBool("progress")

	if snapshotFile == "" {
		return fmt.Errorf("snapshot is required")
	}
	if err := validateFileExists(snapshotFile, "snapshot file"); err != nil {
		return err
	}
	if personnelFile != "" {
		if err := validateFileExists(personnelFile, "personnel roster"); err != nil {
			return err
		}
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json", outputFormat)
	}

	if tolerance < 0 {
		return fmt.Errorf("tolerance cannot be negative")
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	log, err := logger.NewLogger(config.CreateLoggerConfig(viper.GetBool("verbose")))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetGlobalLogger(log)

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting audit...\n")
		fmt.Fprintf(os.Stderr, "Snapshot: %s\n", snapshotFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// A bad roster should fail before any sheet work happens.
	var table personnel.Table
	if personnelFile != "" {
		table, err = personnel.LoadTable(personnelFile)
		if err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Personnel roster: %d names\n", len(table))
		}
	}

	service, err := audit.NewService(config.CreateAuditConfig(snapshotFile, tolerance, table))
	if err != nil {
		return err
	}

	if showProgress {
		service.SetProgressCallback(func(p audit.Progress) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", p.Stage, p.Message)
		})
	}

	result, err := service.Run(ctx)
	if err != nil {
		return err
	}

	// Generate report
	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat, noColor))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if backendURL != "" {
		if err := pushSheets(ctx, service); err != nil {
			return err
		}
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAudit completed.\n")
		fmt.Fprintf(os.Stderr, "Loaded %d cells, applied %d formulas.\n",
			result.CellsLoaded, result.FormulasApplied)
		fmt.Fprintf(os.Stderr, "Checks: %d OK, %d warnings, %d errors.\n",
			result.Summary.OK, result.Summary.Warnings, result.Summary.Errors)
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Duration)
	}

	return nil
}

// pushSheets saves every recomputed sheet to the backend
func pushSheets(ctx context.Context, service *audit.Service) error {
	client, err := backend.NewClient(config.CreateBackendConfig(backendURL, 10*time.Second))
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	for _, sheet := range cells.AllSheets() {
		fields := service.Store().SheetValues(sheet)
		if len(fields) == 0 {
			continue
		}
		if _, err := client.SaveSheet(ctx, sheet, fields); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Saved sheet %s (%d cells)\n", sheet, len(fields))
		}
	}
	return nil
}
