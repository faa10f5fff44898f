package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/wire"
)

// Check statuses.
const (
	statusOK   = "✓"
	statusWarn = "⚠"
	statusFail = "✗"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate stargate configuration and database",
		Long: `Health check for a stargate installation.

Validates:
- Configuration (file, STARGATE_* environment, flags)
- Database connectivity for the configured driver
- Schema version against the latest migration

Examples:
  stargate doctor              # Run full health check
  stargate doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runChecks(commandContext(cmd), cmd)

			hasErrors := false
			for _, r := range results {
				if r.Status == statusFail {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(cmd.OutOrStdout(), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// runChecks stops at the first failing prerequisite; later checks are reported as skipped.
func runChecks(ctx context.Context, cmd *cobra.Command) []CheckResult {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return []CheckResult{
			{Name: "Config", Status: statusFail, Details: "  " + err.Error()},
			{Name: "Database", Status: statusWarn, Details: "  skipped: no valid configuration"},
			{Name: "Schema", Status: statusWarn, Details: "  skipped: no valid configuration"},
		}
	}
	results := []CheckResult{{Name: "Config", Status: statusOK}}

	c, err := wire.New(ctx, cfg, nil)
	if err != nil {
		return append(results,
			CheckResult{Name: "Database", Status: statusFail, Details: "  " + err.Error()},
			CheckResult{Name: "Schema", Status: statusWarn, Details: "  skipped: database unreachable"},
		)
	}
	defer c.Close()

	results = append(results, CheckResult{Name: "Database", Status: statusOK})
	return append(results, checkSchema(ctx, c.Migrator()))
}

func checkSchema(ctx context.Context, m *db.Migrator) CheckResult {
	version, err := m.AppliedVersion(ctx)
	if err != nil {
		return CheckResult{Name: "Schema", Status: statusFail, Details: "  " + err.Error()}
	}
	switch latest := db.LatestVersion(); {
	case version == 0:
		return CheckResult{Name: "Schema", Status: statusFail, Details: "  not initialized. Run 'stargate init'."}
	case version < latest:
		return CheckResult{Name: "Schema", Status: statusWarn,
			Details: fmt.Sprintf("  version %d, latest %d. Run 'stargate migrate'.", version, latest)}
	case version > latest:
		return CheckResult{Name: "Schema", Status: statusFail,
			Details: fmt.Sprintf("  version %d is newer than this binary (%d)", version, latest)}
	}
	return CheckResult{Name: "Schema", Status: statusOK}
}

func printResults(out io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, colorStatus(r.Status))
	}
	fmt.Fprintln(out)

	hasDetails := false
	for _, r := range results {
		if r.Status != statusOK && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(out, "\n"+color.New(color.FgRed).Sprint("⚠ Issues found."))
	} else {
		fmt.Fprintln(out, "All checks passed.")
	}
}

func colorStatus(status string) string {
	switch status {
	case statusOK:
		return color.New(color.FgGreen).Sprint(status)
	case statusWarn:
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}
