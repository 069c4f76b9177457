package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"jobmate/job-tracker/internal/digest"
	"jobmate/job-tracker/internal/tracker"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Show the daily top-10 digest",
	Long: `Show the digest for --date (today by default). Today's digest is generated
from your preferences when it does not exist yet; --generate rebuilds it.`,
	Args: cobra.NoArgs,
	RunE: runDigest,
}

var (
	digestDate     string
	digestText     bool
	digestGenerate bool
)

func init() {
	digestCmd.Flags().StringVar(&digestDate, "date", "", "Digest date as YYYY-MM-DD")
	digestCmd.Flags().BoolVar(&digestText, "text", false, "Print the plain-text digest")
	digestCmd.Flags().BoolVar(&digestGenerate, "generate", false, "Regenerate today's digest")
	digestCmd.MarkFlagsMutuallyExclusive("date", "generate")

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		entries []digest.Entry
		date    = digestDate
	)
	switch {
	case digestGenerate:
		entries, err = a.svc.GenerateDigest(ctx)
		date = a.svc.Today(ctx)
	case digestDate == "" || digestDate == a.svc.Today(ctx):
		entries, _, err = a.svc.EnsureDigest(ctx)
		date = a.svc.Today(ctx)
	default:
		entries, date, err = a.svc.Digest(ctx, digestDate)
	}
	if errors.Is(err, tracker.ErrNotFound) {
		return fmt.Errorf("no digest stored for %s", date)
	}
	if err != nil {
		return err
	}

	if digestText {
		fmt.Fprintln(cmd.OutOrStdout(), digest.FormatPlainText(entries, date))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), pterm.DefaultSection.Sprintf("Top %d jobs for %s", len(entries), date))
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No jobs in this digest.")
		return nil
	}
	data := pterm.TableData{{"#", "Title", "Company", "Location", "Experience", "Match", "Apply"}}
	for i, e := range entries {
		score := e.MatchScore
		data = append(data, []string{
			strconv.Itoa(i + 1), e.Title, e.Company, e.Location, e.Experience, scoreLabel(&score), e.ApplyURL,
		})
	}
	return renderTable(cmd.OutOrStdout(), data)
}
